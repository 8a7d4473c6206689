// Package api - HTTP and WebSocket adapter
// The API turns requests into selection events and returns displayed prices.
// The API NEVER performs price logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"habitat-pricer/core/catalog"
	"habitat-pricer/core/pipeline"
	"habitat-pricer/core/session"
	apperrors "habitat-pricer/internal/errors"
	"habitat-pricer/internal/logging"
)

// Dependencies are the collaborators the API drives
type Dependencies struct {
	Catalog   *catalog.Catalog
	Predictor pipeline.Predictor
	Formatter pipeline.Formatter
	Sessions  *session.Manager
	Logger    *zap.Logger
}

// Server is the API server
type Server struct {
	router    chi.Router
	version   string
	catalog   *catalog.Catalog
	predictor pipeline.Predictor
	formatter pipeline.Formatter
	sessions  *session.Manager
	logger    *zap.Logger
}

// NewServer creates a new API server
func NewServer(version string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Named("api")
	}

	s := &Server{
		router:    chi.NewRouter(),
		version:   version,
		catalog:   deps.Catalog,
		predictor: deps.Predictor,
		formatter: deps.Formatter,
		sessions:  deps.Sessions,
		logger:    logger,
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
	s.router.Get("/catalog", s.handleCatalog)
	s.router.Post("/predict", s.handlePredict)

	s.router.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
		r.Put("/{id}/selection", s.handleSelection)
		r.Get("/{id}/ws", s.handleWebSocket)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{Error: ErrorBody{Code: code, Message: message}}, status)
}

// writeDomainError maps a typed error to its HTTP status
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	t := apperrors.TypeOf(err)
	s.writeError(w, string(t), err.Error(), statusFor(t))
}

func statusFor(t apperrors.Type) int {
	switch t {
	case apperrors.TypeInput:
		return http.StatusBadRequest
	case apperrors.TypeInvalidSelection:
		return http.StatusUnprocessableEntity
	case apperrors.TypeNotFound:
		return http.StatusNotFound
	case apperrors.TypePredictionUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.TypeStaleResult:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) *ErrorBody {
	return &ErrorBody{Code: string(apperrors.TypeOf(err)), Message: err.Error()}
}
