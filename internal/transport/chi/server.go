package chi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	"github.com/kailas-cloud/vocabdex/internal/metrics"
	awarduc "github.com/kailas-cloud/vocabdex/internal/usecase/award"
	funderuc "github.com/kailas-cloud/vocabdex/internal/usecase/funder"
	healthuc "github.com/kailas-cloud/vocabdex/internal/usecase/health"
)

// maxBodyBytes caps request bodies of write endpoints.
const maxBodyBytes = 1 << 20

// Options configures the HTTP surface.
type Options struct {
	// MountPath prefixes the vocabulary routes, e.g. "/api".
	MountPath string
	// BaseURL is the absolute URL of the mount path used in links.
	BaseURL string
}

// Server exposes the award vocabulary over HTTP.
type Server struct {
	awards        *awarduc.Service
	funders       *funderuc.Service
	health        *healthuc.Service
	tokens        IdentityValidator
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. tokens can be nil: every caller is
// then anonymous.
func NewServer(
	awards *awarduc.Service,
	funders *funderuc.Service,
	health *healthuc.Service,
	tokens IdentityValidator,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.MountPath == "" {
		opts.MountPath = "/api"
	}
	opts.MountPath = "/" + strings.Trim(opts.MountPath, "/")
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	return &Server{
		awards:  awards,
		funders: funders,
		health:  health,
		tokens:  tokens,
		opts:    opts,
		logger:  logger,
		errorHandlers: []errorHandler{
			revisionConflictHandler,
			validationHandler,
			sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
			sentinelHandler(domain.ErrPermissionDenied, http.StatusForbidden, codeForbidden),
			sentinelHandler(domain.ErrUnauthenticated, http.StatusUnauthorized, codeUnauthorized),
			sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		},
	}
}

// Handler builds the router with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.healthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(s.opts.MountPath, func(r chi.Router) {
		r.Use(IdentityMiddleware(s.tokens))

		r.Route("/awards", func(r chi.Router) {
			r.Get("/", s.searchAwards)
			r.Post("/", s.createAward)
			r.Get("/{id}", s.readAward)
			r.Put("/{id}", s.updateAward)
			r.Delete("/{id}", s.deleteAward)
		})
		r.Route("/funders", func(r chi.Router) {
			r.Post("/", s.createFunder)
			r.Get("/{id}", s.readFunder)
		})
	})
	return r
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: report.Checks})
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}
