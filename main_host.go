//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sigscope/app"
	"sigscope/hal"
)

func main() {
	var (
		headless   bool
		cfg        hal.HeadlessConfig
		opts       hal.Options
		captureDir string
	)
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&opts.LinePin, "line", "", "GPIO line for the radio input (empty = simulated).")
	flag.IntVar(&opts.RasterW, "width", 0, "Framebuffer width (0 = default).")
	flag.IntVar(&opts.RasterH, "height", 0, "Framebuffer height (0 = default).")
	flag.StringVar(&captureDir, "capture-dir", ".", "Directory for saved .sr captures.")
	flag.Parse()

	h, err := hal.NewWithOptions(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a, err := app.New(h, captureDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := a.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer a.Stop()

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, h, a.Step, cfg); err != nil && err != context.Canceled {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(h, a.Step); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
