package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-sahara/app"
	"github.com/km-arc/go-sahara/framework/container"
	"github.com/km-arc/go-sahara/framework/providers"
)

func boot(t *testing.T) (*container.Container, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	c := container.New()
	reg := container.NewProviderRegistry(c)
	ctx := context.Background()
	require.NoError(t, reg.Register(ctx, &providers.LoggingServiceProvider{Logger: zap.New(core)}))
	require.NoError(t, reg.Register(ctx, &app.AppServiceProvider{}))
	require.NoError(t, reg.Boot(ctx))
	return c, logs
}

func TestWorker_IsSingletonAndIntercepted(t *testing.T) {
	t.Parallel()
	c, logs := boot(t)

	w := container.MustResolve[*app.Worker](c, app.KeyWorker)
	assert.Same(t, w, container.MustResolve[*app.Worker](c, app.KeyWorker))
	assert.True(t, w.Intercepted("DoWork"))

	out, err := w.DoWork(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	calls := logs.FilterMessage("call").AllUntimed()
	require.Len(t, calls, 1)
	assert.Equal(t, "DoWork", calls[0].ContextMap()["method"])

	j := container.MustResolve[*app.Journal](c, app.KeyJournal)
	assert.Equal(t, []string{"doubled 21"}, j.Lines())
}

func TestWorker_RejectsNegativeInput(t *testing.T) {
	t.Parallel()
	c, logs := boot(t)

	_, err := container.MustResolve[*app.Worker](c, app.KeyWorker).DoWork(context.Background(), -1)
	require.EqualError(t, err, "worker: negative input -1")
	assert.Equal(t, 1, logs.FilterMessage("call failed").Len())
}

func TestWorker_Chain(t *testing.T) {
	t.Parallel()
	c, _ := boot(t)

	chain, err := c.Chain(app.KeyWorker)
	require.NoError(t, err)
	assert.Equal(t, []string{providers.KeyLogger, app.KeyJournal, app.KeyWorker}, chain)
}
