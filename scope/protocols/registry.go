package protocols

import "sigscope/scope/signal"

// Default returns the built-in decoder registry in UI order.
func Default() *signal.Registry {
	r, err := signal.NewRegistry(NewPrinceton(), NewHexbug(), NewOregon2())
	if err != nil {
		panic(err) // static set, always valid
	}
	return r
}
