package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-sahara/framework/app"
	"github.com/km-arc/go-sahara/framework/config"
	"github.com/km-arc/go-sahara/framework/container"
	"github.com/km-arc/go-sahara/framework/providers"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{
		"APP_NAME", "APP_ENV", "APP_DEBUG",
		"CONTAINER_CONCURRENT_INJECTION", "CONTAINER_DEFAULT_LIFETIME",
		"LOG_LEVEL", "METRICS_NAMESPACE", "HTTP_ADDR", "HTTP_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, kv[k])
	}
}

func TestNew_WiresFrameworkProviders(t *testing.T) {
	setEnv(t, map[string]string{"APP_ENV": "testing", "LOG_LEVEL": "error"})
	a, err := app.New("testdata/missing.env")
	require.NoError(t, err)

	assert.True(t, a.IsTesting())
	assert.False(t, a.IsProduction())
	assert.True(t, a.IsDebug())
	for _, key := range []string{providers.KeyConfig, providers.KeyLogger, providers.KeyMetrics, providers.KeyRouter} {
		assert.True(t, a.IsRegistered(key), key)
	}
	assert.Same(t, a.Container, container.MustResolve[*container.Container](a.Container, container.ContainerKey))

	cfg, err := container.ResolveAs[*config.Config](context.Background(), a.Container, providers.KeyConfig)
	require.NoError(t, err)
	assert.Same(t, a.Config(), cfg)
}

func TestNew_DefaultLifetimeFromConfig(t *testing.T) {
	setEnv(t, map[string]string{"CONTAINER_DEFAULT_LIFETIME": "singleton", "LOG_LEVEL": "error"})
	a, err := app.New("testdata/missing.env")
	require.NoError(t, err)

	require.NoError(t, a.RegisterFactory(func(context.Context, *container.Container) (any, error) {
		return new(int), nil
	}, container.WithKey("counter")))

	x, err := a.ResolveSync("counter")
	require.NoError(t, err)
	y, err := a.ResolveSync("counter")
	require.NoError(t, err)
	assert.Same(t, x, y)
}

func TestNew_InvalidConfig(t *testing.T) {
	setEnv(t, map[string]string{"LOG_LEVEL": "loud"})
	_, err := app.New("testdata/missing.env")
	require.Error(t, err)
}

func TestRouter_ServesInspectionAndMetrics(t *testing.T) {
	setEnv(t, map[string]string{"LOG_LEVEL": "error", "METRICS_NAMESPACE": "apptest"})
	a, err := app.New("testdata/missing.env")
	require.NoError(t, err)
	require.NoError(t, a.Boot(context.Background()))

	r, err := a.Router(context.Background())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/registrations/router", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "apptest_resolutions_total")
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	setEnv(t, map[string]string{"LOG_LEVEL": "error", "HTTP_ADDR": "127.0.0.1:0"})
	a, err := app.New("testdata/missing.env")
	require.NoError(t, err)

	require.NoError(t, a.Boot(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	setEnv(t, map[string]string{"LOG_LEVEL": "error", "HTTP_ADDR": "not-an-address"})
	a, err := app.New("testdata/missing.env")
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
