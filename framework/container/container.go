package container

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ContainerKey is the key a container registers itself under when built
// with WithSelfRegistration.
const ContainerKey = "container"

// ── Container ─────────────────────────────────────────────────────────────────

// Container stores registrations and resolves them into wired instances.
//
// It supports:
//   - RegisterType / RegisterInstance / RegisterFactory
//   - ResolveContext (and the Resolve / ResolveSync / TryResolveSync surfaces)
//   - InjectContext (and Inject / InjectSync)
//   - Intercept (call handler chains bound at construction time)
//   - CreateChildContainer (point-in-time snapshot)
type Container struct {
	mu sync.RWMutex

	id     string
	parent *Container

	// key → registration
	registrations map[string]*Registration

	// write-side cycle validation only
	graph *Graph

	// committed interception configs, in commit order
	interceptors []*InterceptionConfig

	observer            Observer
	newLifetime         LifetimeFactory
	concurrentInjection bool
	selfRegister        bool

	builder builder
}

// Option configures a Container at construction time.
type Option func(*Container)

// WithObserver sets the resolution observer. A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(c *Container) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithDefaultLifetime sets the factory used for registrations that do not
// pass WithLifetime. Each registration gets its own manager.
func WithDefaultLifetime(f LifetimeFactory) Option {
	return func(c *Container) {
		if f != nil {
			c.newLifetime = f
		}
	}
}

// WithConcurrentInjection dispatches a registration's injections
// concurrently instead of one after another in declared order.
func WithConcurrentInjection() Option {
	return func(c *Container) { c.concurrentInjection = true }
}

// WithSelfRegistration registers the container under ContainerKey so
// factories and injections can depend on it. Child containers register
// themselves under the same key.
func WithSelfRegistration() Option {
	return func(c *Container) { c.selfRegister = true }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		id:            uuid.NewString(),
		registrations: make(map[string]*Registration),
		graph:         NewGraph(),
		observer:      NopObserver{},
		newLifetime:   NewTransient,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.builder = builder{c: c}
	if c.selfRegister {
		c.registrations[ContainerKey] = c.self()
	}
	return c
}

func (c *Container) self() *Registration {
	return &Registration{Name: ContainerKey, Kind: KindInstance, Lifetime: Transient{}, instance: c}
}

// ── Registration ──────────────────────────────────────────────────────────────

func (c *Container) options(opts []RegisterOption) registerOptions {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.lifetime == nil {
		o.lifetime = c.newLifetime()
	}
	return o
}

// RegisterType registers a constructible type. The key defaults to
// info.Name. The call fails with a *CircularDependencyError, and leaves the
// container untouched, when the declared dependencies close a cycle.
//
//	c.RegisterType(container.Describe("Service", container.Adapt1(NewService), "Logger"),
//	    container.WithLifetime(container.NewSingleton()))
func (c *Container) RegisterType(info TypeInfo, opts ...RegisterOption) error {
	o := c.options(opts)
	key := o.key
	if key == "" {
		key = info.Name
	}
	if key == "" {
		return &ConfigurationError{Reason: "RegisterType requires a key or a type name"}
	}
	if info.Construct == nil {
		return &ConfigurationError{Reason: fmt.Sprintf("RegisterType %q has no construction adapter", key)}
	}
	for _, dep := range info.Dependencies {
		if dep.Key == "" {
			return &ConfigurationError{Reason: fmt.Sprintf("RegisterType %q has a dependency without a key at position %d", key, dep.Position)}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.graph.trySet(key, info.Keys()...); err != nil {
		return err
	}
	c.registrations[key] = &Registration{
		Name:       key,
		Kind:       KindType,
		Lifetime:   o.lifetime,
		Injections: o.injections,
		typeInfo:   info,
	}
	return nil
}

// RegisterInstance registers a pre-built value, returned by identity on
// every resolve. The key defaults to TypeKey(instance).
//
//	c.RegisterInstance(cfg, container.WithKey("config"))
func (c *Container) RegisterInstance(instance any, opts ...RegisterOption) error {
	o := c.options(opts)
	key := o.key
	if key == "" {
		key = TypeKey(instance)
	}
	if key == "" {
		return &ConfigurationError{Reason: "RegisterInstance requires a key for a nil instance"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.graph.Set(key)
	c.registrations[key] = &Registration{
		Name:       key,
		Kind:       KindInstance,
		Lifetime:   o.lifetime,
		Injections: o.injections,
		instance:   instance,
	}
	return nil
}

// RegisterFactory registers a factory function. WithKey is mandatory.
//
//	c.RegisterFactory(func(ctx context.Context, c *container.Container) (any, error) {
//	    return sql.Open("pgx", dsn)
//	}, container.WithKey("db"), container.WithLifetime(container.NewSingleton()))
func (c *Container) RegisterFactory(f Factory, opts ...RegisterOption) error {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.key == "" {
		return &ConfigurationError{Reason: "RegisterFactory requires a key"}
	}
	if f == nil {
		return &ConfigurationError{Reason: fmt.Sprintf("RegisterFactory %q has a nil factory", o.key)}
	}
	if o.lifetime == nil {
		o.lifetime = c.newLifetime()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.graph.Set(o.key)
	c.registrations[o.key] = &Registration{
		Name:       o.key,
		Kind:       KindFactory,
		Lifetime:   o.lifetime,
		Injections: o.injections,
		factory:    f,
	}
	return nil
}

// IsRegistered reports whether key has a registration.
func (c *Container) IsRegistered(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.registrations[key]
	return ok
}

func (c *Container) lookup(key string) (*Registration, []*InterceptionConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	reg, ok := c.registrations[key]
	return reg, c.interceptors, ok
}

// ── Resolution ────────────────────────────────────────────────────────────────

// ResolveContext resolves key into an instance. It is the single resolution
// path: the other Resolve variants wrap it.
//
// A lifetime hit is returned as is. Otherwise the instance is built (Type),
// taken from the registration (Instance) or produced by the factory
// (Factory); Type and Factory products are bound to the current interception
// list; injections run; the lifetime stores the result. On any error nothing
// is cached and the error is returned unchanged.
func (c *Container) ResolveContext(ctx context.Context, key string) (any, error) {
	start := time.Now()

	reg, configs, ok := c.lookup(key)
	if !ok {
		return nil, &UnregisteredKeyError{Key: key}
	}

	if existing, ok := reg.Lifetime.Fetch(); ok {
		c.observe(key, start, PhaseCacheHit)
		return existing, nil
	}

	var (
		instance any
		err      error
	)
	switch reg.Kind {
	case KindInstance:
		instance = reg.instance
	case KindType:
		instance, err = c.builder.newInstance(ctx, reg.typeInfo, configs)
	case KindFactory:
		instance, err = reg.factory(ctx, c)
		if err == nil {
			attachInterceptors(instance, configs)
		}
	default:
		err = &ConfigurationError{Reason: fmt.Sprintf("registration %q has unknown kind %d", key, reg.Kind)}
	}
	if err != nil {
		return nil, err
	}

	if err := c.inject(ctx, reg, instance); err != nil {
		return nil, err
	}

	reg.Lifetime.Store(instance)
	c.observe(key, start, PhaseConstructed)
	return instance, nil
}

// Resolve resolves key on a new goroutine and reports the outcome to
// callback.
func (c *Container) Resolve(ctx context.Context, key string, callback func(instance any, err error)) {
	go func() {
		callback(c.ResolveContext(ctx, key))
	}()
}

// ResolveSync resolves key with a background context.
func (c *Container) ResolveSync(key string) (any, error) {
	return c.ResolveContext(context.Background(), key)
}

// TryResolveSync is ResolveSync with every error swallowed.
func (c *Container) TryResolveSync(key string) (any, bool) {
	instance, err := c.ResolveSync(key)
	if err != nil {
		return nil, false
	}
	return instance, true
}

func (c *Container) observe(key string, start time.Time, phase Phase) {
	c.observer.Observe(Event{
		ContainerID: c.id,
		Key:         key,
		Elapsed:     time.Since(start),
		Phase:       phase,
	})
}

// ── Injection ─────────────────────────────────────────────────────────────────

// InjectContext runs the injections declared for key against an instance
// built elsewhere. An empty key defaults to TypeKey(instance).
func (c *Container) InjectContext(ctx context.Context, instance any, key string) error {
	if key == "" {
		key = TypeKey(instance)
	}
	reg, _, ok := c.lookup(key)
	if !ok {
		return &UnregisteredKeyError{Key: key}
	}
	return c.inject(ctx, reg, instance)
}

// Inject runs InjectContext on a new goroutine and reports to callback.
func (c *Container) Inject(ctx context.Context, instance any, key string, callback func(err error)) {
	go func() {
		callback(c.InjectContext(ctx, instance, key))
	}()
}

// InjectSync runs InjectContext with a background context.
func (c *Container) InjectSync(instance any, key string) error {
	return c.InjectContext(context.Background(), instance, key)
}

func (c *Container) inject(ctx context.Context, reg *Registration, instance any) error {
	if len(reg.Injections) == 0 {
		return nil
	}
	if !c.concurrentInjection {
		for _, inj := range reg.Injections {
			if err := inj.Inject(ctx, instance, c); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, inj := range reg.Injections {
		g.Go(func() error { return inj.Inject(gctx, instance, c) })
	}
	return g.Wait()
}

// ── Interception ──────────────────────────────────────────────────────────────

// Intercept starts an interception configuration. It takes effect once
// committed with Sync or Async, and only for instances built afterwards.
//
//	c.Intercept(container.ForMethod("DoWork"), timing, audit).Sync()
func (c *Container) Intercept(m Matcher, handlers ...Handler) *InterceptBuilder {
	if m == nil {
		m = Always(false)
	}
	return &InterceptBuilder{container: c, matcher: m, handlers: handlers}
}

// ── Child containers ──────────────────────────────────────────────────────────

// CreateChildContainer returns a container seeded with a snapshot of c's
// registrations, graph and interception list. Later registrations on either
// side stay local. Registrations are shared by pointer, so an instance
// cached by a Singleton lifetime is shared with the child.
func (c *Container) CreateChildContainer() *Container {
	c.mu.RLock()
	defer c.mu.RUnlock()

	child := &Container{
		id:                  uuid.NewString(),
		parent:              c,
		registrations:       maps.Clone(c.registrations),
		graph:               c.graph.Clone(),
		interceptors:        slices.Clone(c.interceptors),
		observer:            c.observer,
		newLifetime:         c.newLifetime,
		concurrentInjection: c.concurrentInjection,
		selfRegister:        c.selfRegister,
	}
	child.builder = builder{c: child}
	if child.selfRegister {
		child.registrations[ContainerKey] = child.self()
	}
	return child
}

// ── Introspection ─────────────────────────────────────────────────────────────

// ID returns the container's unique identifier.
func (c *Container) ID() string { return c.id }

// Parent returns the container this one was created from, or nil. It is
// provenance only; resolution never consults it.
func (c *Container) Parent() *Container { return c.parent }

// Keys returns all registered keys, sorted.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.registrations))
}

// Registrations returns a summary of every registration, sorted by key.
func (c *Container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]RegistrationInfo, 0, len(c.registrations))
	for _, k := range slices.Sorted(maps.Keys(c.registrations)) {
		out = append(out, c.registrations[k].info())
	}
	return out
}

// Registration returns the summary for key.
func (c *Container) Registration(key string) (RegistrationInfo, bool) {
	reg, _, ok := c.lookup(key)
	if !ok {
		return RegistrationInfo{}, false
	}
	return reg.info(), true
}

// Chain returns key's transitive dependency chain, dependencies first.
func (c *Container) Chain(key string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.graph.Chain(key)
}

// Interceptors returns the number of committed interception configs.
func (c *Container) Interceptors() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.interceptors)
}

// ── Generics helper ───────────────────────────────────────────────────────────

// ResolveAs resolves key and type-asserts the result.
//
//	svc, err := container.ResolveAs[*Service](ctx, c, "Service")
func ResolveAs[T any](ctx context.Context, c *Container, key string) (T, error) {
	var zero T
	instance, err := c.ResolveContext(ctx, key)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: %q resolved to %T, want %s", key, instance, reflect.TypeFor[T]())
	}
	return typed, nil
}

// MustResolve is like ResolveAs but panics on failure. Meant for
// composition roots and tests.
func MustResolve[T any](c *Container, key string) T {
	typed, err := ResolveAs[T](context.Background(), c, key)
	if err != nil {
		panic(err)
	}
	return typed
}
