package container

import (
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Lifetime decides whether a resolve call may reuse a previously built
// instance. Each registration owns exactly one Lifetime; the container only
// calls Fetch before building and Store after a successful build.
type Lifetime interface {
	Fetch() (any, bool)
	Store(instance any)
}

// LifetimeFactory produces a fresh Lifetime for each registration that does
// not supply its own.
type LifetimeFactory func() Lifetime

// Transient never caches: every resolve builds a new instance.
type Transient struct{}

func (Transient) Fetch() (any, bool) { return nil, false }
func (Transient) Store(any)          {}
func (Transient) String() string     { return "transient" }

// NewTransient returns a Transient lifetime.
func NewTransient() Lifetime { return Transient{} }

// Singleton keeps the first stored instance for as long as the registration
// lives. Child containers share it with their parent.
type Singleton struct {
	mu       sync.RWMutex
	instance any
	stored   bool
}

// NewSingleton returns an empty Singleton lifetime.
func NewSingleton() Lifetime { return &Singleton{} }

func (s *Singleton) String() string { return "singleton" }

func (s *Singleton) Fetch() (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instance, s.stored
}

func (s *Singleton) Store(instance any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored {
		return
	}
	s.instance = instance
	s.stored = true
}

// Weak caches a *T through a weak pointer, so the instance is reused while
// something else keeps it alive and rebuilt once it has been collected.
// Values that are not a *T are never cached.
type Weak[T any] struct {
	mu  sync.Mutex
	ptr weak.Pointer[T]
	set bool
}

// NewWeak returns a memory-scoped lifetime for instances of type *T.
func NewWeak[T any]() Lifetime { return &Weak[T]{} }

func (w *Weak[T]) String() string { return "weak" }

func (w *Weak[T]) Fetch() (any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.set {
		return nil, false
	}
	p := w.ptr.Value()
	if p == nil {
		w.set = false
		return nil, false
	}
	return p, true
}

func (w *Weak[T]) Store(instance any) {
	p, ok := instance.(*T)
	if !ok || p == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ptr = weak.Make(p)
	w.set = true
}

// Expiring caches the stored instance for a fixed TTL, after which the next
// resolve builds a fresh one.
type Expiring struct {
	ttl   time.Duration
	once  sync.Once
	ready atomic.Bool
	cache *expirable.LRU[string, any]
}

const expiringSlot = "instance"

// NewExpiring returns a lifetime whose cached instance expires after ttl.
//
// The backing cache is created on the first Store and runs a purge goroutine
// that lives as long as the process, so use one Expiring per long-lived
// registration rather than one per request.
func NewExpiring(ttl time.Duration) Lifetime { return &Expiring{ttl: ttl} }

func (e *Expiring) String() string { return "expiring" }

func (e *Expiring) lru() *expirable.LRU[string, any] {
	e.once.Do(func() {
		e.cache = expirable.NewLRU[string, any](1, nil, e.ttl)
		e.ready.Store(true)
	})
	return e.cache
}

func (e *Expiring) Fetch() (any, bool) {
	if !e.ready.Load() {
		return nil, false
	}
	return e.lru().Get(expiringSlot)
}

func (e *Expiring) Store(instance any) { e.lru().Add(expiringSlot, instance) }

// ParseLifetime maps a configuration name to a LifetimeFactory. Recognised
// names are "transient" and "singleton".
func ParseLifetime(name string) (LifetimeFactory, error) {
	switch name {
	case "", "transient":
		return NewTransient, nil
	case "singleton":
		return NewSingleton, nil
	default:
		return nil, &ConfigurationError{Reason: "unknown lifetime " + name}
	}
}
