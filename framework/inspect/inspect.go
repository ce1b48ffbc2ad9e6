// Package inspect serves a read-only JSON view of a container over HTTP.
//
//	GET /healthz                 container id and registration count
//	GET /registrations[?kind=]   every registration, optionally filtered by kind
//	GET /registrations/{key}     one registration and its dependency chain
//	GET /metrics                 Prometheus exposition
//
// Keys may contain slashes (package-qualified type keys), so {key} is the
// rest of the path.
package inspect

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/km-arc/go-sahara/framework/container"
	gohttp "github.com/km-arc/go-sahara/framework/http"
	"github.com/km-arc/go-sahara/framework/routing"
	"github.com/km-arc/go-sahara/framework/validation"
)

type handler struct {
	c *container.Container
}

// Detail is the body of GET /registrations/{key}.
type Detail struct {
	Registration container.RegistrationInfo `json:"registration"`
	Chain        []string                   `json:"chain"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status        string `json:"status"`
	ContainerID   string `json:"container_id"`
	Registrations int    `json:"registrations"`
}

// NewRouter builds the inspection routes for c. /metrics is only mounted
// when gatherer is non-nil.
func NewRouter(c *container.Container, gatherer prometheus.Gatherer, log *zap.Logger) *routing.Router {
	h := &handler{c: c}
	r := routing.New(log)
	r.Get("/healthz", h.health)
	r.Prefix("/registrations", func(regs *routing.Router) {
		regs.Get("/", h.list)
		regs.Get("/*", h.show)
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(Health{
		Status:        "ok",
		ContainerID:   h.c.ID(),
		Registrations: len(h.c.Keys()),
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	kind := req.Query("kind")
	v := validation.Make(map[string]string{"kind": kind}, validation.Rules{
		"kind": "sometimes|in:type,instance,factory",
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	out := []container.RegistrationInfo{}
	for _, info := range h.c.Registrations() {
		if kind == "" || info.Kind == kind {
			out = append(out, info)
		}
	}
	res.Success(out)
}

func (h *handler) show(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)

	key := req.RouteParam("*")
	info, ok := h.c.Registration(key)
	if !ok {
		res.NotFound((&container.UnregisteredKeyError{Key: key}).Error())
		return
	}

	chain, err := h.c.Chain(key)
	switch {
	case errors.Is(err, container.ErrCircularDependency):
		res.Error(http.StatusConflict, err.Error())
		return
	case err != nil:
		res.ServerError(err.Error())
		return
	}
	res.Success(Detail{Registration: info, Chain: chain})
}
