// Package httpapi exposes the pipeline over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ideaforge/internal/apperr"
	"ideaforge/internal/pipeline"
)

// Server wires the pipeline service into a chi router.
type Server struct {
	svc      *pipeline.Service
	logger   *zap.Logger
	validate *validator.Validate
	gatherer prometheus.Gatherer
}

// NewServer creates the HTTP server facade. gatherer may be nil to
// disable the /metrics endpoint.
func NewServer(svc *pipeline.Service, logger *zap.Logger, gatherer prometheus.Gatherer) *Server {
	return &Server{
		svc:      svc,
		logger:   logger,
		validate: validator.New(),
		gatherer: gatherer,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Method("GET", "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/ideas", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/tech-stack", s.handleTechStack)
		r.Get("/{id}/mvp", s.handleMvp)
		r.Get("/{id}/dev-prompt", s.handleDevPrompt)
	})

	return r
}

type processRequest struct {
	Text          string `json:"text" validate:"required"`
	MemoryContext string `json:"memoryContext"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.NewValidation("request body must be valid JSON"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, apperr.NewValidation("text is required"))
		return
	}

	idea, err := s.svc.Process(r.Context(), req.Text, req.MemoryContext)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, idea)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.svc.ListIdeas(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	idea, err := s.svc.GetIdea(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, idea)
}

func (s *Server) handleTechStack(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.TechStack(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleMvp(w http.ResponseWriter, r *http.Request) {
	plan, err := s.svc.Mvp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDevPrompt(w http.ResponseWriter, r *http.Request) {
	dp, err := s.svc.DevPrompt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError maps the failure taxonomy onto HTTP statuses. Upstream
// model failures are 502s: the request was fine, the collaborator was
// not.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	message := "internal error"
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindAiUnavailable, apperr.KindAiParse, apperr.KindResponseValidation:
		status = http.StatusBadGateway
	}

	if appErr, ok := err.(*apperr.AppError); ok {
		message = appErr.Message
	} else {
		kind = "INTERNAL"
		s.logger.Error("unclassified handler error", zap.Error(err))
	}

	s.writeJSON(w, status, errorBody{Error: errorDetail{
		Kind:    string(kind),
		Message: message,
	}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
