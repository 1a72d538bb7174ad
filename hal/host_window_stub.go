//go:build !tinygo && !cgo

package hal

// RunWindow requires cgo for the ebiten backend; use RunHeadless instead.
func RunWindow(h HAL, step func() error) error {
	_ = h
	_ = step
	return ErrNotImplemented
}
