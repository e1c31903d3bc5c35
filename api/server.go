// Package api - thin HTTP layer over the analyzers.
// The API is only responsible for input decoding, analyzer
// orchestration and response envelopes. It never contains rule logic.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"infra-review/api/envelope"
	"infra-review/core/analyzer"
	"infra-review/core/cicd"
	"infra-review/core/review"
	"infra-review/internal/config"
	"infra-review/internal/logging"
)

// maxBodyBytes limits request body size.
const maxBodyBytes = 10 << 20

type requestIDKey struct{}

// Server is the API server
type Server struct {
	mux     *http.ServeMux
	handler http.Handler
	config  *config.Config
	logger  *zap.Logger
	version string
	server  *http.Server
}

// NewServer creates an API server
func NewServer(version string, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  cfg,
		logger:  logging.Named("api"),
		version: version,
	}
	s.registerRoutes()

	handler := http.Handler(s.mux)
	handler = s.loggingMiddleware(handler)
	handler = s.recoveryMiddleware(handler)
	s.handler = handler

	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Analysis endpoints
	s.mux.HandleFunc("POST /v1/analyze/module", s.handleAnalyzeModule)
	s.mux.HandleFunc("POST /v1/review/terraform", s.handleReviewTerraform)
	s.mux.HandleFunc("POST /v1/review/workflow", s.handleReviewWorkflow)

	// Supporting endpoints
	s.mux.HandleFunc("GET /v1/healthz", s.handleHealth)
	s.mux.HandleFunc("GET /v1/version", s.handleVersion)
}

// handleAnalyzeModule handles POST /v1/analyze/module
func (s *Server) handleAnalyzeModule(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r.Context())

	var req AnalyzeRequest
	if err := s.parseJSON(r, &req); err != nil {
		envelope.Write(w, http.StatusBadRequest, envelope.Fail(requestID, "INVALID_JSON", err.Error()))
		return
	}
	if len(req.Files) == 0 {
		envelope.Write(w, http.StatusBadRequest, envelope.Fail(requestID, "VALIDATION_ERROR", "files is required"))
		return
	}

	report := analyzer.Analyze(req.Files)
	envelope.Write(w, http.StatusOK, envelope.OK(requestID, report))
}

// handleReviewTerraform handles POST /v1/review/terraform
func (s *Server) handleReviewTerraform(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r.Context())

	var req ReviewRequest
	if err := s.parseJSON(r, &req); err != nil {
		envelope.Write(w, http.StatusBadRequest, envelope.Fail(requestID, "INVALID_JSON", err.Error()))
		return
	}
	if err := validateReview(&req); err != nil {
		envelope.Write(w, http.StatusBadRequest, envelope.Fail(requestID, "VALIDATION_ERROR", err.Error()))
		return
	}

	report := review.Review(map[string]string{req.Filename: req.Content})
	envelope.Write(w, http.StatusOK, envelope.OK(requestID, report))
}

// handleReviewWorkflow handles POST /v1/review/workflow
func (s *Server) handleReviewWorkflow(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r.Context())

	var req ReviewRequest
	if err := s.parseJSON(r, &req); err != nil {
		envelope.Write(w, http.StatusBadRequest, envelope.Fail(requestID, "INVALID_JSON", err.Error()))
		return
	}
	if err := validateReview(&req); err != nil {
		envelope.Write(w, http.StatusBadRequest, envelope.Fail(requestID, "VALIDATION_ERROR", err.Error()))
		return
	}

	report := cicd.Review(map[string]string{req.Filename: req.Content})
	envelope.Write(w, http.StatusOK, envelope.OK(requestID, report))
}

// handleHealth handles GET /v1/healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /v1/version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"service":     "infra-review",
		"api_version": "v1",
	}, http.StatusOK)
}

func validateReview(req *ReviewRequest) error {
	if req.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if req.Content == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// Middleware

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = envelope.NewRequestID()
		}
		audit := envelope.NewAudit(requestID, r.Method, r.URL.Path, r.RemoteAddr, r.UserAgent())

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		audit.Finish(rec.status, time.Since(start))
		s.logger.Info("request", audit.Fields()...)
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered",
					zap.Any("panic", err),
					zap.String("path", r.URL.Path))
				envelope.Write(w, http.StatusInternalServerError,
					envelope.Fail(requestIDFrom(r.Context()), "INTERNAL_ERROR", "internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return envelope.NewRequestID()
}

// Helpers

func (s *Server) parseJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (s *Server) writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start starts the server and blocks until it exits.
func (s *Server) Start() error {
	timeout := time.Duration(s.config.API.RequestTimeoutSeconds) * time.Second
	s.server = &http.Server{
		Addr:         s.config.API.Listen,
		Handler:      s.handler,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	s.logger.Info("api server listening", zap.String("addr", s.config.API.Listen))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
