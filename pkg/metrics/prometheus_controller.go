package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iota-uz/atlas/pkg/application"
)

const defaultMetricsPath = "/debug/prometheus"

// NewPrometheusController exposes the default collector registry. The
// mount path is configurable so deployments can hide it behind ingress
// rules; an empty path falls back to /debug/prometheus.
func NewPrometheusController(path string) application.Controller {
	if path == "" {
		path = defaultMetricsPath
	}
	return &promController{path: path}
}

type promController struct {
	path string
}

func (c *promController) Key() string {
	return c.path
}

func (c *promController) Register(r *mux.Router) {
	r.Handle(c.path, promhttp.Handler()).Methods(http.MethodGet)
}
