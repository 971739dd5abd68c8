// Package httptransport assembles the public HTTP surface. It wires the
// platform middleware chain and delegates every route to its module handler
// so transport concerns stay out of the services.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	institutionhandler "schoolgate/internal/institution/handler"
	"schoolgate/internal/platform/metrics"
	"schoolgate/internal/platform/middleware"
	policyhandler "schoolgate/internal/policy/handler"
	presencehandler "schoolgate/internal/presence/handler"
	studenthandler "schoolgate/internal/student/handler"
	"schoolgate/internal/transport/http/shared"
)

// ModuleHandler is implemented by every module's HTTP handler.
type ModuleHandler interface {
	Register(r chi.Router)
}

// Dependencies carries everything the router needs.
type Dependencies struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Institutions *institutionhandler.Handler
	Policies     *policyhandler.Handler
	Presence     *presencehandler.Handler
	Students     *studenthandler.Handler
	Health       func() error
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	if deps.Metrics != nil {
		r.Use(middleware.LatencyMiddleware(deps.Metrics))
	}

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range []ModuleHandler{deps.Institutions, deps.Policies, deps.Presence, deps.Students} {
		h.Register(r)
	}

	return r
}

func handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
