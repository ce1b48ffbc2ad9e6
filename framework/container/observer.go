package container

import "time"

// Phase says how a successful resolution obtained its instance.
type Phase string

const (
	PhaseCacheHit    Phase = "cache-hit"
	PhaseConstructed Phase = "constructed"
)

// Event is reported to the Observer after every successful resolution.
type Event struct {
	ContainerID string
	Key         string
	Elapsed     time.Duration
	Phase       Phase
}

// Observer receives resolution events. Implementations must be safe for
// concurrent use and must not call back into the container.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) Observe(Event) {}
