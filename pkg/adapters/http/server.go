package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/aretw0/transducer"
	"github.com/aretw0/transducer/internal/logging"
	"github.com/aretw0/transducer/internal/presentation/graph"
	"github.com/aretw0/transducer/pkg/definition"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/aretw0/transducer/pkg/observability"
	"github.com/aretw0/transducer/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server exposes machines over a JSON API.
type Server struct {
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics adds GET /metrics and counts stateless interpretations.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for the given machine registry.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Sessions: sessions,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/interpret", s.Interpret)
	r.Post("/validate", s.Validate)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetMachine)
			r.Put("/", s.PutMachine)
			r.Delete("/", s.DeleteMachine)
			r.Post("/transitions", s.AddTransition)
			r.Post("/interpret", s.InterpretMachine)
			r.Get("/graph", s.GetGraph)
		})
	})

	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) machineOptions() []transducer.Option {
	opts := []transducer.Option{transducer.WithLogger(s.Logger)}
	if s.Metrics != nil {
		opts = append(opts, transducer.WithLifecycleHooks(s.Metrics.Hooks()))
	}
	return opts
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "fst-http",
		"version": transducer.Version,
	})
}

// Interpret handles POST /interpret. The machine only lives for the request.
func (s *Server) Interpret(w http.ResponseWriter, r *http.Request) {
	var body InterpretRequest
	if !decode(w, r, &body) {
		return
	}
	if body.Definition == nil {
		badRequest(w, "definition is required")
		return
	}
	if !utf8.ValidString(body.Input) {
		badRequest(w, "input is not valid UTF-8")
		return
	}

	m, err := transducer.FromDefinition(body.Definition, s.machineOptions()...)
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	steps, err := m.Trace(body.Input)
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, interpretResponse(steps, body.Trace))
}

// Validate handles POST /validate. Problems are reported in the body with a
// 200 status; only unreadable requests fail.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var def definition.Definition
	if !decode(w, r, &def) {
		return
	}
	writeJSON(w, http.StatusOK, validate(&def))
}

func validate(def *definition.Definition) ValidateResponse {
	m, err := transducer.FromDefinition(def)
	if err != nil {
		resp := ValidateResponse{}
		if errs := definition.Errors(err); errs != nil {
			for _, e := range errs {
				resp.Errors = append(resp.Errors, e.Error())
			}
		} else {
			resp.Errors = []string{err.Error()}
		}
		return resp
	}
	return tableReport(m.Table())
}

func tableReport(table *domain.Table) ValidateResponse {
	resp := ValidateResponse{Valid: true}
	var bad *domain.BadTableError
	if err := table.Validate(); errors.As(err, &bad) {
		resp.Valid = false
		resp.Errors = []string{err.Error()}
		for _, t := range bad.IllegalTransitions {
			resp.IllegalTransitions = append(resp.IllegalTransitions, mapRule(t))
		}
		for _, p := range bad.MissingInputs {
			resp.MissingInputs = append(resp.MissingInputs, MissingInput{State: p.State, Input: string(p.Input)})
		}
	}
	return resp
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	infos := make([]MachineInfo, 0)
	for _, name := range s.Sessions.Names() {
		if m, ok := s.Sessions.Get(name); ok {
			infos = append(infos, machineInfo(name, m))
		}
	}
	writeJSON(w, http.StatusOK, infos)
}

func machineInfo(name string, m *transducer.Machine) MachineInfo {
	info := MachineInfo{Name: name, Transitions: m.Table().Len(), Valid: m.Validate() == nil}
	if start, ok := m.Start(); ok {
		info.Start = &start
	}
	return info
}

// GetMachine handles GET /machines/{name} and returns its definition.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := s.Sessions.Get(name)
	if !ok {
		writeError(w, s.Logger, fmt.Errorf("%w: %s", session.ErrMachineNotFound, name))
		return
	}
	var start *int
	if st, ok := m.Start(); ok {
		start = &st
	}
	writeJSON(w, http.StatusOK, definition.FromTable(name, m.Table(), start))
}

// PutMachine handles PUT /machines/{name}, replacing the machine.
func (s *Server) PutMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var def definition.Definition
	if !decode(w, r, &def) {
		return
	}

	m, err := s.Sessions.Load(r.Context(), name, &def)
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	s.Logger.Info("machine loaded", "machine", name, "transitions", m.Table().Len())
	writeJSON(w, http.StatusOK, machineInfo(name, m))
}

// DeleteMachine handles DELETE /machines/{name}.
func (s *Server) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Remove(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTransition handles POST /machines/{name}/transitions.
func (s *Server) AddTransition(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var rule definition.Rule
	if !decode(w, r, &rule) {
		return
	}

	ts, err := (&definition.Definition{Transitions: []definition.Rule{rule}}).Build()
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	m, err := s.Sessions.AddTransition(r.Context(), name, ts[0])
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, machineInfo(name, m))
}

// InterpretMachine handles POST /machines/{name}/interpret.
func (s *Server) InterpretMachine(w http.ResponseWriter, r *http.Request) {
	var body InterpretRequest
	if !decode(w, r, &body) {
		return
	}
	if !utf8.ValidString(body.Input) {
		badRequest(w, "input is not valid UTF-8")
		return
	}

	steps, err := s.Sessions.Trace(r.Context(), chi.URLParam(r, "name"), body.Input)
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, interpretResponse(steps, body.Trace))
}

func interpretResponse(steps []domain.Step, trace bool) InterpretResponse {
	resp := InterpretResponse{Output: outputOf(steps)}
	if trace {
		resp.Steps = mapSteps(steps)
	}
	return resp
}

// GetGraph handles GET /machines/{name}/graph and returns Mermaid source.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, ok := s.Sessions.Get(name)
	if !ok {
		writeError(w, s.Logger, fmt.Errorf("%w: %s", session.ErrMachineNotFound, name))
		return
	}

	var start *int
	if st, ok := m.Start(); ok {
		start = &st
	}
	w.Header().Set("Content-Type", "text/vnd.mermaid; charset=utf-8")
	if _, err := w.Write([]byte(graph.GenerateMermaid(m.Table(), start, nil))); err != nil {
		s.Logger.Warn("graph write failed", "err", err)
	}
}
