package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/km-arc/go-sahara/framework/config"
	"github.com/km-arc/go-sahara/framework/container"
	"github.com/km-arc/go-sahara/framework/logging"
	"github.com/km-arc/go-sahara/framework/observe"
	"github.com/km-arc/go-sahara/framework/providers"
	"github.com/km-arc/go-sahara/framework/routing"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.RegisterType(), app.ResolveSync(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	cfg      *config.Config
	log      *zap.Logger
	registry *prometheus.Registry
}

// New loads configuration, builds the logger, metrics registry and
// container, and registers the framework providers.
func New(envFiles ...string) (*Application, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	lifetime, err := container.ParseLifetime(cfg.Container.DefaultLifetime)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []container.Option{
		container.WithObserver(observe.Multi(
			observe.NewLogger(log),
			observe.NewMetrics(registry, cfg.Metrics.Namespace),
		)),
		container.WithDefaultLifetime(lifetime),
		container.WithSelfRegistration(),
	}
	if cfg.Container.ConcurrentInjection {
		opts = append(opts, container.WithConcurrentInjection())
	}

	c := container.New(opts...)
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		cfg:       cfg,
		log:       log,
		registry:  registry,
	}

	ctx := context.Background()
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.MetricsServiceProvider{Registry: registry},
		&providers.InspectServiceProvider{},
	} {
		if err := app.Register(ctx, p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(ctx context.Context, provider container.ServiceProvider) error {
	return a.Providers.Register(ctx, provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot(ctx context.Context) error {
	return a.Providers.Boot(ctx)
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *Application) Logger() *zap.Logger { return a.log }

// Metrics returns the Prometheus registry served on /metrics.
func (a *Application) Metrics() *prometheus.Registry { return a.registry }

// Router resolves the inspection router from the container.
func (a *Application) Router(ctx context.Context) (*routing.Router, error) {
	return container.ResolveAs[*routing.Router](ctx, a.Container, providers.KeyRouter)
}

// Run boots the application (if needed) and serves the router on HTTP_ADDR
// until ctx is cancelled, then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(ctx); err != nil {
			return err
		}
	}
	router, err := a.Router(ctx)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("app: listen %s: %w", a.cfg.HTTP.Addr, err)
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("env", a.cfg.App.Env),
		zap.String("container_id", a.ID()),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	<-errCh
	a.log.Info("stopped")
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.cfg.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.cfg.IsProduction() }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.cfg.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
