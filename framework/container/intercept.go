package container

import (
	"context"
	"slices"
	"sync"
)

// ── Matchers ──────────────────────────────────────────────────────────────────

// Matcher decides whether a method of a newly built instance is intercepted.
type Matcher interface {
	Matches(instance any, method string) bool
}

// MatchFunc adapts a predicate to Matcher.
type MatchFunc func(instance any, method string) bool

func (f MatchFunc) Matches(instance any, method string) bool { return f(instance, method) }

// ForMethod matches the named method on any instance.
func ForMethod(name string) Matcher {
	return MatchFunc(func(_ any, method string) bool { return method == name })
}

// ForType matches instances assignable to T. When methods are given, only
// those methods match.
//
//	c.Intercept(container.ForType[*Service]("DoWork"), audit).Sync()
func ForType[T any](methods ...string) Matcher {
	return MatchFunc(func(instance any, method string) bool {
		if _, ok := instance.(T); !ok {
			return false
		}
		return len(methods) == 0 || slices.Contains(methods, method)
	})
}

// Always matches everything (true) or nothing (false).
func Always(match bool) Matcher {
	return MatchFunc(func(any, string) bool { return match })
}

// ── Handlers ──────────────────────────────────────────────────────────────────

// Invocation is one intercepted method call. Handlers may rewrite Args
// before calling next and read or replace Result after it returns.
type Invocation struct {
	Context context.Context
	Target  any
	Method  string
	Args    []any
	Result  any
}

// Handler is one link of a call handler chain. It must call next to
// continue towards the original method, or return without calling it to
// short-circuit the call.
type Handler func(inv *Invocation, next func() error) error

// Mode selects how a configuration's handlers are dispatched.
type Mode int

const (
	// ModeSync runs the handlers inline on the caller's goroutine.
	ModeSync Mode = iota
	// ModeAsync runs the handlers on their own goroutine; the caller waits
	// for them or for its context to be cancelled.
	ModeAsync
)

func (m Mode) String() string {
	if m == ModeAsync {
		return "async"
	}
	return "sync"
}

// InterceptionConfig is a committed (matcher, handlers, mode) triple.
type InterceptionConfig struct {
	Matcher  Matcher
	Handlers []Handler
	Mode     Mode
}

func (cfg *InterceptionConfig) wrap(inv *Invocation, next func() error) func() error {
	seg := next
	for i := len(cfg.Handlers) - 1; i >= 0; i-- {
		h, n := cfg.Handlers[i], seg
		seg = func() error { return h(inv, n) }
	}
	if cfg.Mode == ModeSync {
		return seg
	}
	return func() error {
		done := make(chan error, 1)
		go func() { done <- seg() }()
		select {
		case err := <-done:
			return err
		case <-inv.Context.Done():
			return inv.Context.Err()
		}
	}
}

// ── Builder ───────────────────────────────────────────────────────────────────

// InterceptBuilder holds an uncommitted interception configuration. Nothing
// happens until Sync or Async is called.
//
//	c.Intercept(container.ForMethod("DoWork"), observe.LoggingHandler(log)).Sync()
type InterceptBuilder struct {
	container *Container
	matcher   Matcher
	handlers  []Handler
}

// Sync commits the configuration with inline dispatch.
func (b *InterceptBuilder) Sync() *Container { return b.commit(ModeSync) }

// Async commits the configuration with goroutine dispatch.
func (b *InterceptBuilder) Async() *Container { return b.commit(ModeAsync) }

func (b *InterceptBuilder) commit(mode Mode) *Container {
	cfg := &InterceptionConfig{
		Matcher:  b.matcher,
		Handlers: slices.Clone(b.handlers),
		Mode:     mode,
	}
	b.container.mu.Lock()
	defer b.container.mu.Unlock()
	b.container.interceptors = append(b.container.interceptors, cfg)
	return b.container
}

// ── Hooks ─────────────────────────────────────────────────────────────────────

// Interceptable is implemented by every type that embeds Hooks.
type Interceptable interface {
	bindHooks(target any, configs []*InterceptionConfig)
}

// Hooks is embedded by types whose methods may be intercepted. Each such
// method routes its body through Invoke:
//
//	type Service struct {
//	    container.Hooks
//	}
//
//	func (s *Service) DoWork(ctx context.Context, n int) (int, error) {
//	    out, err := s.Invoke(ctx, "DoWork", []any{n}, func(ctx context.Context, args []any) (any, error) {
//	        return args[0].(int) * 2, nil
//	    })
//	    if err != nil {
//	        return 0, err
//	    }
//	    return out.(int), nil
//	}
//
// The container binds its interception list when it builds the instance;
// configurations committed later do not affect instances already built.
type Hooks struct {
	mu      sync.RWMutex
	target  any
	configs []*InterceptionConfig
	chains  map[string][]*InterceptionConfig
}

func (h *Hooks) bindHooks(target any, configs []*InterceptionConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.target = target
	h.configs = slices.Clone(configs)
	h.chains = make(map[string][]*InterceptionConfig)
}

// chain returns the configurations matching method, in commit order.
func (h *Hooks) chain(method string) []*InterceptionConfig {
	h.mu.RLock()
	chain, ok := h.chains[method]
	target, configs := h.target, h.configs
	h.mu.RUnlock()
	if ok || target == nil {
		return chain
	}

	for _, cfg := range configs {
		if cfg.Matcher != nil && cfg.Matcher.Matches(target, method) {
			chain = append(chain, cfg)
		}
	}

	h.mu.Lock()
	h.chains[method] = chain
	h.mu.Unlock()
	return chain
}

// Intercepted reports whether calls to method pass through any handler.
func (h *Hooks) Intercepted(method string) bool {
	return len(h.chain(method)) > 0
}

// Invoke runs body behind the handler chains matching method. Without a
// matching configuration body is called directly.
func (h *Hooks) Invoke(ctx context.Context, method string, args []any, body func(ctx context.Context, args []any) (any, error)) (any, error) {
	chain := h.chain(method)
	if len(chain) == 0 {
		return body(ctx, args)
	}

	h.mu.RLock()
	target := h.target
	h.mu.RUnlock()

	inv := &Invocation{Context: ctx, Target: target, Method: method, Args: args}
	call := func() error {
		out, err := body(inv.Context, inv.Args)
		inv.Result = out
		return err
	}
	for i := len(chain) - 1; i >= 0; i-- {
		call = chain[i].wrap(inv, call)
	}
	if err := call(); err != nil {
		return nil, err
	}
	return inv.Result, nil
}

// attachInterceptors binds configs to instance when it embeds Hooks.
func attachInterceptors(instance any, configs []*InterceptionConfig) {
	if len(configs) == 0 {
		return
	}
	if ic, ok := instance.(Interceptable); ok {
		ic.bindHooks(instance, configs)
	}
}
