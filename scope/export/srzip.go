// Package export writes captured line samples as sigrok srzip session
// files, the format PulseView and sigrok-cli open directly.
// See https://sigrok.org/wiki/File_format:Sigrok/v2
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sigscope/scope/signal"
)

// WriteSR writes a single-channel logic capture. Each sample is one byte,
// bit 0 carrying the line level.
func WriteSR(w io.Writer, samples []byte, samplerateHz uint64) error {
	zw := zip.NewWriter(w)

	create := func(name, contents string) error {
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("export: create %s: %w", name, err)
		}
		if _, err := f.Write([]byte(contents)); err != nil {
			return fmt.Errorf("export: write %s: %w", name, err)
		}
		return nil
	}

	if err := create("version", "2\n"); err != nil {
		return err
	}

	metadata := fmt.Sprintf(`[device 1]
capturefile=logic-1
unitsize=1
total probes=1
samplerate=%d Hz
probe1=LINE
`, samplerateHz)
	if err := create("metadata", metadata); err != nil {
		return err
	}

	f, err := zw.Create("logic-1-1")
	if err != nil {
		return fmt.Errorf("export: create logic-1-1: %w", err)
	}
	if _, err := f.Write(samples); err != nil {
		return fmt.Errorf("export: write samples: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("export: close archive: %w", err)
	}
	return nil
}

// BitmapSamples flattens a capture bitmap in index order to one byte per
// sample.
func BitmapSamples(b *signal.Bitmap) []byte {
	out := make([]byte, b.Bits())
	for i := range out {
		if b.Get(i) {
			out[i] = 1
		}
	}
	return out
}

// FileSaver numbers capture files into a directory.
type FileSaver struct {
	Dir string
	n   int
}

// Save writes the bitmap as capture-NNN.sr; the samplerate is derived from
// the per-sample period. Returns the file path written.
func (s *FileSaver) Save(b *signal.Bitmap, usecPerPixel uint32) (string, error) {
	if usecPerPixel == 0 {
		return "", fmt.Errorf("export: zero sample period")
	}
	s.n++
	name := filepath.Join(s.Dir, fmt.Sprintf("capture-%03d.sr", s.n))
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	if err := WriteSR(f, BitmapSamples(b), 1_000_000/uint64(usecPerPixel)); err != nil {
		return "", err
	}
	return name, nil
}
