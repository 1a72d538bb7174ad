// Package app wires the HAL, the radio controller and the two views into a
// tick-driven loop. One Step per tick: drain input, advance timers, run the
// active view, render.
package app

import (
	"fmt"

	"sigscope/hal"
	"sigscope/scope/export"
	"sigscope/scope/keys"
	"sigscope/scope/protocols"
	"sigscope/scope/rxtx"
	"sigscope/scope/tasks/builder"
	"sigscope/scope/tasks/directsampling"
)

type view uint8

const (
	viewBuilder view = iota
	viewSampling
)

type App struct {
	h    hal.HAL
	log  hal.Logger
	ctrl *rxtx.Controller
	trk  *keys.Tracker

	bld *builder.Task
	ds  *directsampling.Task

	view view
}

// New builds the full application. Captures saved from the direct sampling
// view land in captureDir.
func New(h hal.HAL, captureDir string) (*App, error) {
	log := h.Logger()
	reg := protocols.Default()
	ctrl := rxtx.NewController(h.Radio(), log, reg)

	fb := h.Display().Framebuffer()
	if fb == nil {
		return nil, fmt.Errorf("app: no framebuffer")
	}

	bld, err := builder.New(fb, log, reg, ctrl)
	if err != nil {
		return nil, err
	}
	ds, err := directsampling.New(fb, log, ctrl, h.Cycles(), &export.FileSaver{Dir: captureDir})
	if err != nil {
		return nil, err
	}

	return &App{
		h:    h,
		log:  log,
		ctrl: ctrl,
		trk:  keys.NewTracker(),
		bld:  bld,
		ds:   ds,
	}, nil
}

// Start brings the radio up in async receive.
func (a *App) Start() error {
	return a.ctrl.StartAsyncRx()
}

// Stop leaves the active view and idles the radio.
func (a *App) Stop() error {
	if a.view == viewSampling {
		if err := a.ds.Exit(); err != nil {
			a.log.WriteLineString(fmt.Sprintf("app: leave sampling: %v", err))
		}
		a.view = viewBuilder
	}
	a.bld.Exit()
	return a.ctrl.Stop()
}

// Step runs one loop iteration.
func (a *App) Step() error {
	a.drainInput()
	a.drainTicks()

	switch a.view {
	case viewSampling:
		a.ds.Step()
		a.ds.Render()
	default:
		a.bld.Render()
	}
	return nil
}

func (a *App) drainInput() {
	events := a.h.Input().Keyboard().Events()
	for {
		select {
		case ev := <-events:
			for _, e := range a.trk.Edge(ev) {
				a.dispatch(e)
			}
		default:
			return
		}
	}
}

func (a *App) drainTicks() {
	ticks := a.h.Time().Ticks()
	for {
		select {
		case <-ticks:
			for _, e := range a.trk.Tick() {
				a.dispatch(e)
			}
		default:
			return
		}
	}
}

func (a *App) dispatch(e keys.Event) {
	if e.Key == keys.KeyNext && e.Kind == keys.Short {
		a.switchView()
		return
	}
	switch a.view {
	case viewSampling:
		a.ds.HandleKey(e)
	default:
		a.bld.HandleKey(e)
	}
}

// switchView toggles between the builder and the sampling view, moving the
// radio between async receive and polled mode on the way.
func (a *App) switchView() {
	if a.view == viewSampling {
		if err := a.ds.Exit(); err != nil {
			a.log.WriteLineString(fmt.Sprintf("app: leave sampling: %v", err))
			return
		}
		a.view = viewBuilder
		return
	}
	if err := a.ds.Enter(); err != nil {
		a.log.WriteLineString(fmt.Sprintf("app: enter sampling: %v", err))
		return
	}
	a.bld.Exit()
	a.view = viewSampling
}
