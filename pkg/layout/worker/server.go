package worker

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/grapher/pkg/errors"
	"github.com/matzehuels/grapher/pkg/layout"
)

// HeaderLayoutID carries the layout id on requests and responses.
const HeaderLayoutID = "X-Layout-ID"

// maxRequestBytes bounds a layout request body.
const maxRequestBytes = 32 << 20

// ErrorBody is the JSON body of a failed request.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// HealthBody is the JSON body of GET /healthz.
type HealthBody struct {
	Status  string `json:"status"`
	Engine  string `json:"engine"`
	Running int    `json:"running"`
}

type running struct {
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// Server serves a layout engine over HTTP.
type Server struct {
	engine  layout.Engine
	logger  *log.Logger
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]*running
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the server logger.
func WithServerLogger(l *log.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithEngineTimeout bounds each layout; zero means no bound.
func WithEngineTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.timeout = d }
}

// NewServer returns a server for engine.
func NewServer(engine layout.Engine, opts ...ServerOption) *Server {
	s := &Server{
		engine: engine,
		logger: log.Default(),
		jobs:   make(map[string]*running),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Running returns the number of layouts in progress.
func (s *Server) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.createLayout)
		r.Delete("/{id}", s.cancelLayout)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthBody{
		Status:  "ok",
		Engine:  layout.EngineName(s.engine),
		Running: s.Running(),
	})
}

func (s *Server) createLayout(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(HeaderLayoutID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w.Header().Set(HeaderLayoutID, id)

	var req layout.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout request"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(r.Context(), s.timeout)
	} else {
		ctx, cancel = context.WithCancel(r.Context())
	}
	job := &running{cancel: cancel}
	if !s.register(id, job) {
		cancel()
		writeError(w, http.StatusConflict, errors.New(errors.ErrCodeLayoutInProgress, "layout %s is already running", id))
		return
	}
	defer s.unregister(id)
	defer cancel()

	s.logger.Info("layout started", "id", id, "nodes", len(req.Nodes), "edges", len(req.Edges))
	start := time.Now()
	resp, err := s.engine.Layout(ctx, &req)

	switch {
	case job.cancelled.Load():
		s.logger.Info("layout cancelled", "id", id, "duration", time.Since(start))
		writeJSON(w, http.StatusOK, layout.CancelResponse())
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, errors.New(errors.ErrCodeLayoutTimeout, "layout exceeded %s", s.timeout))
	case r.Context().Err() != nil:
		s.logger.Debug("client went away", "id", id)
	case err != nil:
		s.logger.Warn("layout failed", "id", id, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		s.logger.Info("layout complete", "id", id, "duration", time.Since(start))
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) cancelLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	job, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeInvalidReference, "no running layout %s", id))
		return
	}
	job.cancelled.Store(true)
	job.cancel()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) register(id string, job *running) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[id]; dup {
		return false
	}
	s.jobs[id] = job
	return true
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeLayoutFailed
	}
	writeJSON(w, status, ErrorBody{Code: code, Message: errors.UserMessage(err)})
}
