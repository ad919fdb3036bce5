// Package web serves the study planner over HTTP and WebSocket.
package web

import (
	"bufio"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/learnbharat/learnbharat-ai/internal/export"
	"github.com/learnbharat/learnbharat-ai/internal/planner"
)

const (
	maxBodyBytes = 1 << 20
	checkTimeout = 2 * time.Second
	creator      = "LearnBharat AI"
)

// Check is a named readiness probe, such as a database ping.
type Check struct {
	Name string
	Func func(ctx context.Context) error
}

// Config holds the server's dependencies.
type Config struct {
	Planner *planner.Engine
	Checks  []Check
}

// Server routes HTTP requests to the planner and exporters.
type Server struct {
	planner *planner.Engine
	pdf     *export.PDFExporter
	xlsx    *export.XLSXExporter
	checks  []Check
	page    *template.Template
	schemas *schemas
}

// New creates a server. It fails only if the embedded templates or schemas
// do not parse.
func New(cfg Config) (*Server, error) {
	if cfg.Planner == nil {
		return nil, fmt.Errorf("planner is required")
	}
	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	s, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	return &Server{
		planner: cfg.Planner,
		pdf:     export.NewPDFExporter(creator),
		xlsx:    export.NewXLSXExporter(),
		checks:  cfg.Checks,
		page:    page,
		schemas: s,
	}, nil
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /export/pdf", s.handleExportPDF)
	mux.HandleFunc("POST /export/xlsx", s.handleExportXLSX)

	mux.HandleFunc("GET /api/v1/courses", s.handleListCourses)
	mux.HandleFunc("GET /api/v1/courses/{code}", s.handleGetCourse)
	mux.HandleFunc("POST /api/v1/plans", s.handleCreatePlan)
	mux.HandleFunc("POST /api/v1/exports/pdf", s.handleAPIExportPDF)
	mux.HandleFunc("GET /api/v1/plans/ws", s.handlePlanSocket)

	return logRequests(mux)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	resp := readyResponse{Status: "ready"}
	status := http.StatusOK

	for _, c := range s.checks {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(s.checks))
		}
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Func(ctx)
		cancel()
		if err != nil {
			slog.Warn("readiness check failed", "check", c.Name, "error", err)
			resp.Checks[c.Name] = "unavailable"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name] = "ok"
	}

	writeJSON(w, status, resp)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is required for the WebSocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
			return
		}
		slog.Info("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
