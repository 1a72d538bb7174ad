//go:build !(linux && periph)

package hal

func newLineRadio(name string, logger Logger) (Radio, error) {
	_ = name
	_ = logger
	return nil, ErrNotImplemented
}
