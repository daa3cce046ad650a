package driver

import (
	"time"
)

// Host-provided dependencies
type Dependencies struct {
	Logger Logger
	Clock  Clock
}

type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

type Clock interface {
	Now() time.Time
}

// withDefaults fills in a nop logger and the system clock.
func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = NewNopLogger()
	}
	if d.Clock == nil {
		d.Clock = NewSystemClock()
	}
	return d
}
