package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gohttp "github.com/km-arc/go-sahara/framework/http"
	"github.com/km-arc/go-sahara/framework/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newResponse(t *testing.T) (*gohttp.Response, *httptest.ResponseRecorder) {
	t.Helper()
	rr := httptest.NewRecorder()
	return gohttp.NewResponse(rr), rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&m))
	return m
}

// ── Response ─────────────────────────────────────────────────────────────────

func TestResponse_JSON(t *testing.T) {
	t.Parallel()
	res, rr := newResponse(t)
	res.JSON(http.StatusOK, map[string]any{"key": "val"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "val", decodeJSON(t, rr)["key"])
	assert.Same(t, rr, res.Raw())
}

func TestResponse_Success(t *testing.T) {
	t.Parallel()
	res, rr := newResponse(t)
	res.Success(map[string]any{"id": 1})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"id": float64(1)}, decodeJSON(t, rr)["data"])
}

func TestResponse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		send    func(*gohttp.Response)
		status  int
		message string
	}{
		{"error", func(r *gohttp.Response) { r.Error(http.StatusConflict, "cycle") }, http.StatusConflict, "cycle"},
		{"not found default", func(r *gohttp.Response) { r.NotFound() }, http.StatusNotFound, "Not found."},
		{"not found custom", func(r *gohttp.Response) { r.NotFound("no such key") }, http.StatusNotFound, "no such key"},
		{"server error", func(r *gohttp.Response) { r.ServerError() }, http.StatusInternalServerError, "Server Error."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, rr := newResponse(t)
			tc.send(res)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.message, decodeJSON(t, rr)["message"])
		})
	}
}

func TestResponse_ValidationError(t *testing.T) {
	t.Parallel()
	v := validation.Make(map[string]string{}, validation.Rules{"kind": "required"})
	require.True(t, v.Fails())

	res, rr := newResponse(t)
	res.ValidationError(v.Errors())

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"errors":{"kind":["The kind field is required."]}}`, rr.Body.String())
}

// ── Request ──────────────────────────────────────────────────────────────────

func TestRequest_Query(t *testing.T) {
	t.Parallel()
	req := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/?kind=type", nil))

	assert.Equal(t, "type", req.Query("kind"))
	assert.Equal(t, "", req.Query("missing"))
	assert.Equal(t, "fallback", req.Query("missing", "fallback"))
	assert.Equal(t, "/", req.Raw().URL.Path)
}

func TestRequest_RouteParam(t *testing.T) {
	t.Parallel()
	var got string
	r := chi.NewRouter()
	r.Get("/registrations/{key}", func(_ http.ResponseWriter, raw *http.Request) {
		got = gohttp.NewRequest(raw).RouteParam("key")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/registrations/Service", nil))
	assert.Equal(t, "Service", got)
}
