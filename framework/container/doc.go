// Package container provides an inversion-of-control container for Go.
//
// # Overview
//
// Callers register constructors, pre-built instances or factory functions
// under string keys and later ask the container for a fully wired instance.
// Dependency lists are declared explicitly; the container never inspects
// constructor signatures. Cycles are rejected when a type is registered,
// before anything is built.
//
// # Container Lifecycle
//
//  1. Create: c := container.New(container.WithObserver(obs))
//  2. Register types, instances, factories (directly or through providers)
//  3. Commit interception rules: c.Intercept(...).Sync()
//  4. Resolve
//
// # Registrations
//
//	// Type: built from declared dependencies
//	c.RegisterType(container.Describe("Logger", container.Adapt0(NewLogger)))
//	c.RegisterType(container.Describe("Service", container.Adapt1(NewService), "Logger"),
//	    container.WithLifetime(container.NewSingleton()))
//
//	// Instance: returned by identity
//	c.RegisterInstance(cfg, container.WithKey("config"))
//
//	// Factory: key is mandatory
//	c.RegisterFactory(func(ctx context.Context, c *container.Container) (any, error) {
//	    return openDB(ctx)
//	}, container.WithKey("db"))
//
// # Lifetimes
//
// Every registration owns one Lifetime. Transient (the default) always
// builds; Singleton keeps the first instance; Weak keeps it while something
// else references it; Expiring keeps it for a TTL. Any type implementing
// Fetch/Store can be passed with WithLifetime.
//
// # Resolving
//
//	raw, err := c.ResolveContext(ctx, "Service")
//	svc, err := container.ResolveAs[*Service](ctx, c, "Service")
//	c.Resolve(ctx, "Service", func(svc any, err error) { ... })
//	svc, ok := c.TryResolveSync("Service")
//
// # Injections
//
// Injections run after construction and interception, before the lifetime
// stores the instance. They run one after another in declared order unless
// the container was created with WithConcurrentInjection.
//
//	c.RegisterType(info, container.WithInjections(
//	    container.Property("clock", func(inst, v any) error {
//	        inst.(*Service).Clock = v.(Clock)
//	        return nil
//	    }),
//	))
//
// # Interception
//
// Types opt in by embedding Hooks and routing method bodies through
// Hooks.Invoke. Rules committed before an instance is built apply to it:
//
//	c.Intercept(container.ForMethod("DoWork"), audit).Sync()
//	c.Intercept(container.ForType[*Service](), slowPath).Async()
//
// # Child Containers
//
// CreateChildContainer copies registrations, graph and interception rules.
// Later registrations stay local to the container that made them, but
// lifetimes are shared, so a singleton already built in the parent is the
// same instance in the child.
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(ctx, &AppServiceProvider{})
//	registry.Boot(ctx)
package container
