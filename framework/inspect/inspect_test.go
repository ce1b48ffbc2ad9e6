package inspect_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-sahara/framework/container"
	"github.com/km-arc/go-sahara/framework/inspect"
	"github.com/km-arc/go-sahara/framework/observe"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type store struct{}

type repo struct{ s *store }

func newContainer(t *testing.T, opts ...container.Option) *container.Container {
	t.Helper()
	c := container.New(opts...)
	require.NoError(t, c.RegisterType(container.Describe("store", container.Adapt0(func() *store { return &store{} }))))
	require.NoError(t, c.RegisterType(
		container.Describe("repo", container.Adapt1(func(s *store) *repo { return &repo{s: s} }), "store"),
		container.WithLifetime(container.NewSingleton()),
	))
	require.NoError(t, c.RegisterInstance(&store{}))
	return c
}

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		require.NoError(t, json.NewDecoder(rr.Body).Decode(out), rr.Body.String())
	}
	return rr.Code
}

type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// ── Routes ────────────────────────────────────────────────────────────────────

func TestHealthz(t *testing.T) {
	t.Parallel()
	c := newContainer(t)
	var body envelope[inspect.Health]

	code := get(t, inspect.NewRouter(c, nil, nil), "/healthz", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, inspect.Health{Status: "ok", ContainerID: c.ID(), Registrations: 3}, body.Data)
}

func TestRegistrations_List(t *testing.T) {
	t.Parallel()
	r := inspect.NewRouter(newContainer(t), nil, nil)

	var all envelope[[]container.RegistrationInfo]
	require.Equal(t, http.StatusOK, get(t, r, "/registrations", &all))
	assert.Len(t, all.Data, 3)

	var types envelope[[]container.RegistrationInfo]
	require.Equal(t, http.StatusOK, get(t, r, "/registrations?kind=type", &types))
	require.Len(t, types.Data, 2)
	assert.Equal(t, "repo", types.Data[0].Key)
	assert.Equal(t, []string{"store"}, types.Data[0].Dependencies)
	assert.Equal(t, "singleton", types.Data[0].Lifetime)

	var none envelope[[]container.RegistrationInfo]
	require.Equal(t, http.StatusOK, get(t, r, "/registrations?kind=factory", &none))
	assert.NotNil(t, none.Data)
	assert.Empty(t, none.Data)
}

func TestRegistrations_ListRejectsUnknownKind(t *testing.T) {
	t.Parallel()
	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	code := get(t, inspect.NewRouter(newContainer(t), nil, nil), "/registrations?kind=alias", &body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.NotEmpty(t, body.Errors["kind"])
}

func TestRegistrations_ShowWithChain(t *testing.T) {
	t.Parallel()
	var body envelope[inspect.Detail]
	code := get(t, inspect.NewRouter(newContainer(t), nil, nil), "/registrations/repo", &body)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "type", body.Data.Registration.Kind)
	assert.Equal(t, []string{"store", "repo"}, body.Data.Chain)
}

func TestRegistrations_ShowPackageQualifiedKey(t *testing.T) {
	t.Parallel()
	key := container.KeyOf[*store]()
	require.Contains(t, key, "/")

	var body envelope[inspect.Detail]
	code := get(t, inspect.NewRouter(newContainer(t), nil, nil), "/registrations/"+key, &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, key, body.Data.Registration.Key)
	assert.Equal(t, "instance", body.Data.Registration.Kind)
}

func TestRegistrations_ShowUnknownKey(t *testing.T) {
	t.Parallel()
	var body envelope[inspect.Detail]
	code := get(t, inspect.NewRouter(newContainer(t), nil, nil), "/registrations/nope", &body)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body.Message, `"nope"`)
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := newContainer(t, container.WithObserver(observe.NewMetrics(reg, "inspect")))
	_, err := c.ResolveSync("repo")
	require.NoError(t, err)

	r := inspect.NewRouter(c, reg, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `inspect_resolutions_total{key="repo",phase="constructed"} 1`), body)
	assert.True(t, strings.Contains(body, `inspect_resolutions_total{key="store",phase="constructed"} 1`), body)
}

func TestMetrics_NotMountedWithoutGatherer(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()
	inspect.NewRouter(newContainer(t), nil, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
