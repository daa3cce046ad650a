package driver

import "context"

// Prober reports whether a piece of equipment answers on the network.
// Implementations must honour ctx cancellation and deadlines.
type Prober interface {
	Reachable(ctx context.Context, eq Equipment) (bool, error)
}

// ExceptionSource looks up events raised by the equipment since from.
// from uses TimestampLayout and is empty when the caller did not ask for a window.
type ExceptionSource interface {
	Lookup(ctx context.Context, eq Equipment, from string) Exception
}

// CredentialProvider resolves the bearer token presented to the upstream gateway.
type CredentialProvider interface {
	Resolve() string
}

// Collector reads a single named parameter from the equipment.
type Collector interface {
	Key() string
	Collect(ctx context.Context, eq Equipment) ParameterData
}

// CollectorFunc adapts a function into a Collector registered under key.
func CollectorFunc(key string, fn func(ctx context.Context, eq Equipment) ParameterData) Collector {
	return collectorFunc{key: key, fn: fn}
}

type collectorFunc struct {
	key string
	fn  func(ctx context.Context, eq Equipment) ParameterData
}

func (c collectorFunc) Key() string { return c.key }

func (c collectorFunc) Collect(ctx context.Context, eq Equipment) ParameterData {
	return c.fn(ctx, eq)
}
