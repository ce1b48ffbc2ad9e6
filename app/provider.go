package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/km-arc/go-sahara/framework/container"
	"github.com/km-arc/go-sahara/framework/observe"
	"github.com/km-arc/go-sahara/framework/providers"
)

// Keys bound by AppServiceProvider.
const (
	KeyJournal = "Journal"
	KeyWorker  = "Worker"
)

// AppServiceProvider registers the demo services and logs every DoWork
// call through the interception layer.
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(c *container.Container) error {
	err := c.RegisterType(container.Describe(KeyJournal, container.Adapt1(NewJournal), providers.KeyLogger),
		container.WithLifetime(container.NewSingleton()))
	if err != nil {
		return err
	}
	return c.RegisterType(container.Describe(KeyWorker, container.Adapt1(NewWorker), KeyJournal),
		container.WithLifetime(container.NewSingleton()))
}

// Boot commits the interception rule; it must run before Worker is first
// resolved.
func (p *AppServiceProvider) Boot(ctx context.Context, c *container.Container) error {
	log, err := container.ResolveAs[*zap.Logger](ctx, c, providers.KeyLogger)
	if err != nil {
		return err
	}
	c.Intercept(container.ForType[*Worker]("DoWork"), observe.LoggingHandler(log)).Sync()
	return nil
}
