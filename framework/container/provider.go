package container

import (
	"context"
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register only registers; Boot runs after every provider has registered,
// so it is the place to resolve other keys.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(c *container.Container) error {
//	    return c.RegisterType(container.Describe("mailer", container.Adapt1(mail.New), "config"),
//	        container.WithLifetime(container.NewSingleton()))
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	Register(c *Container) error

	// Boot is called after all eager providers are registered.
	Boot(ctx context.Context, c *Container) error

	// Provides lists the keys a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether Register should wait until one of
	// Provides() is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred. Embed it and implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(context.Context, *Container) error { return nil }
func (p *BaseProvider) Provides() []string                     { return nil }
func (p *BaseProvider) IsDeferred() bool                       { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders, including deferred
// ones.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers register immediately (and boot
// immediately when the registry is already booted); deferred providers get
// a placeholder factory for each key they provide.
func (r *ProviderRegistry) Register(ctx context.Context, provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		return r.registerDeferred(provider)
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("register provider %T: %w", provider, err)
	}
	r.eager = append(r.eager, provider)

	if r.booted {
		if err := provider.Boot(ctx, r.app); err != nil {
			return fmt.Errorf("boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// registerDeferred registers a placeholder per provided key. The first
// resolve of any of them in a container runs the real Register against that
// container, which must replace the placeholders, then resolves the key
// again. Child containers share the placeholders but load on their own.
func (r *ProviderRegistry) registerDeferred(provider ServiceProvider) error {
	var (
		mu     sync.Mutex
		loaded = make(map[*Container]bool)
	)
	for _, key := range provider.Provides() {
		err := r.app.RegisterFactory(func(ctx context.Context, c *Container) (any, error) {
			mu.Lock()
			if loaded[c] {
				mu.Unlock()
				return nil, &ConfigurationError{Reason: fmt.Sprintf("deferred provider %T did not register %q", provider, key)}
			}
			loaded[c] = true
			mu.Unlock()

			if err := r.loadDeferred(ctx, c, provider); err != nil {
				mu.Lock()
				delete(loaded, c)
				mu.Unlock()
				return nil, err
			}
			return c.ResolveContext(ctx, key)
		}, WithKey(key), WithLifetime(NewTransient()))
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) loadDeferred(ctx context.Context, c *Container, provider ServiceProvider) error {
	if err := provider.Register(c); err != nil {
		return fmt.Errorf("register deferred provider %T: %w", provider, err)
	}
	if r.booted {
		if err := provider.Boot(ctx, c); err != nil {
			return fmt.Errorf("boot deferred provider %T: %w", provider, err)
		}
	}
	return nil
}

// Boot calls Boot on every eager provider, once.
func (r *ProviderRegistry) Boot(ctx context.Context) error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := provider.Boot(ctx, r.app); err != nil {
			return fmt.Errorf("boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
