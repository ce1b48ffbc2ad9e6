package providers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-sahara/framework/config"
	"github.com/km-arc/go-sahara/framework/container"
	"github.com/km-arc/go-sahara/framework/inspect"
)

// Keys bound by the framework providers.
const (
	KeyConfig  = "config"
	KeyLogger  = "logger"
	KeyMetrics = "metrics"
	KeyRouter  = "router"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound keys:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	return app.RegisterInstance(p.Config, container.WithKey(KeyConfig))
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound keys:
//   - "logger"  → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	return app.RegisterInstance(p.Logger, container.WithKey(KeyLogger))
}

// Boot announces the container the logger is bound into.
func (p *LoggingServiceProvider) Boot(_ context.Context, app *container.Container) error {
	p.Logger.Debug("container booted", zap.String("container_id", app.ID()), zap.Int("registrations", len(app.Keys())))
	return nil
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the Prometheus registry.
//
// Bound keys:
//   - "metrics" → *prometheus.Registry
type MetricsServiceProvider struct {
	container.BaseProvider
	Registry *prometheus.Registry
}

func (p *MetricsServiceProvider) Register(app *container.Container) error {
	return app.RegisterInstance(p.Registry, container.WithKey(KeyMetrics))
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider registers the inspection router. It is deferred:
// nothing is built until "router" is first resolved.
//
// Bound keys:
//   - "router"  → *routing.Router (singleton)
//
// Reads "logger" and "metrics".
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) error {
	return app.RegisterFactory(func(ctx context.Context, c *container.Container) (any, error) {
		log, err := container.ResolveAs[*zap.Logger](ctx, c, KeyLogger)
		if err != nil {
			return nil, err
		}
		reg, err := container.ResolveAs[*prometheus.Registry](ctx, c, KeyMetrics)
		if err != nil {
			return nil, err
		}
		return inspect.NewRouter(c, reg, log), nil
	}, container.WithKey(KeyRouter), container.WithLifetime(container.NewSingleton()))
}

func (p *InspectServiceProvider) IsDeferred() bool   { return true }
func (p *InspectServiceProvider) Provides() []string { return []string{KeyRouter} }
