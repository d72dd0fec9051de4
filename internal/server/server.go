// Package server is the HTTP boundary for provider lookups. It owns routing,
// CORS, request IDs, access logging, and the mapping from lookup failures to
// HTTP status codes; the lookup pipeline itself stays status-code agnostic.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/credentialguard/internal/config"
	"github.com/sells-group/credentialguard/internal/lookup"
)

// LookupPath is the route pattern for single provider lookups.
const LookupPath = "/api/v1/providers/lookup/{npi}"

// Looker runs a lookup for a raw, unvalidated NPI.
type Looker interface {
	Lookup(ctx context.Context, raw string) lookup.Envelope
}

// MetricsHandler serves metrics in an exposition format.
type MetricsHandler interface {
	Handler() http.Handler
}

// Options configures the router.
type Options struct {
	Service     Looker
	FailureMode string
	CORS        config.CORSConfig

	// Metrics is optional; when nil no metrics route is mounted.
	Metrics     MetricsHandler
	MetricsPath string
}

type handler struct {
	svc    Looker
	strict bool
}

// NewRouter wires the public endpoints and middleware.
func NewRouter(opts Options) http.Handler {
	h := &handler{
		svc:    opts.Service,
		strict: opts.FailureMode == config.FailureModeStrict,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORS.Origins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: opts.CORS.AllowCredentials,
		MaxAge:           600,
	}))

	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Get(LookupPath, h.lookup)

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics.Handler())
	}

	return r
}

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "online",
		"system": "CredentialGuard Revenue Engine",
	})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "npi")
	env := h.svc.Lookup(r.Context(), raw)

	status := http.StatusOK
	if h.strict {
		status = StatusFor(env)
	}
	if !env.OK() {
		zap.L().Info("lookup failed",
			zap.String("npi", raw),
			zap.String("outcome", env.Outcome()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
	writeJSON(w, status, env)
}

// StatusFor maps a lookup envelope to the HTTP status used in strict mode.
func StatusFor(env lookup.Envelope) int {
	if env.OK() {
		return http.StatusOK
	}
	if env.Failure == nil {
		return http.StatusGatewayTimeout
	}
	switch env.Failure.Kind {
	case lookup.KindInvalidFormat:
		return http.StatusBadRequest
	case lookup.KindNotFound:
		return http.StatusNotFound
	case lookup.KindUpstreamError:
		return http.StatusBadGateway
	case lookup.KindTransportError:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}
