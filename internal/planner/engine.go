// Package planner turns a study request into generated study material and a
// readiness score. It is the only place that talks to the generation
// provider.
package planner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/learnbharat/learnbharat-ai/internal/ai"
	"github.com/learnbharat/learnbharat-ai/internal/studyplan"
	"github.com/learnbharat/learnbharat-ai/internal/syllabus"
)

const (
	defaultMaxTokens = 800
	defaultTimeout   = 90 * time.Second
)

// WarnCourseNotFound is attached to results for codes missing from the catalog.
const WarnCourseNotFound = "Course not found. Using course code as topic."

// EngineConfig holds dependencies for the planner engine.
type EngineConfig struct {
	Catalog   syllabus.Catalog
	Provider  ai.Provider   // nil means every request uses the offline fallback
	Events    EventLogger   // default NopEventLogger
	Model     string        // empty uses the provider default
	MaxTokens int           // default 800
	Timeout   time.Duration // upper bound on one generation call (default 90s)
}

// Engine runs the study-plan pipeline.
type Engine struct {
	catalog   syllabus.Catalog
	provider  ai.Provider
	events    EventLogger
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewEngine creates a planner engine.
func NewEngine(cfg EngineConfig) *Engine {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = syllabus.Builtin()
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Engine{
		catalog:   catalog,
		provider:  cfg.Provider,
		events:    events,
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

// Catalog returns the catalog the engine resolves courses against.
func (e *Engine) Catalog() syllabus.Catalog {
	return e.catalog
}

// Input is a raw study request as typed by the user.
type Input struct {
	CourseCode string   `json:"course_code"`
	Focus      []string `json:"focus"`
	Language   string   `json:"language"`
}

// Request is a validated study request.
type Request struct {
	RawCode  string
	Focus    studyplan.FocusSet
	Language studyplan.Language
}

// Result is the outcome of one Plan call.
type Result struct {
	ID         uuid.UUID
	CourseCode string
	CourseName string
	CatalogHit bool
	Units      []string
	Focus      studyplan.FocusSet
	Language   studyplan.Language
	Content    string
	Fallback   bool
	Score      int
	Tier       studyplan.Tier
	Warnings   []string
}

// Validate parses in without calling the provider. Errors wrap the
// studyplan sentinels.
func Validate(in Input) (Request, error) {
	code := strings.TrimSpace(in.CourseCode)
	if code == "" {
		return Request{}, studyplan.ErrMissingCourseCode
	}
	focus, err := studyplan.ParseFocus(in.Focus)
	if err != nil {
		return Request{}, err
	}
	if focus.Empty() {
		return Request{}, studyplan.ErrNoFocus
	}
	lang, err := studyplan.ParseLanguage(in.Language)
	if err != nil {
		return Request{}, err
	}
	return Request{RawCode: code, Focus: focus, Language: lang}, nil
}

// Plan validates in, resolves the course, generates material and scores the
// focus selection. Validation failures return an error before any
// generation. Generation failures never do: the offline fallback is
// substituted and Result.Fallback is set.
func (e *Engine) Plan(ctx context.Context, in Input) (*Result, error) {
	req, err := Validate(in)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:       uuid.New(),
		Focus:    req.Focus,
		Language: req.Language,
	}

	course, ok := e.catalog.Lookup(req.RawCode)
	if ok {
		res.CourseCode = course.Code
		res.CourseName = course.Name
		res.CatalogHit = true
		res.Units = course.Units
	} else {
		res.CourseCode = syllabus.NormalizeCode(req.RawCode)
		res.CourseName = req.RawCode
		res.Warnings = append(res.Warnings, WarnCourseNotFound)
	}

	prompt := studyplan.Compose(studyplan.Request{
		CourseName:   res.CourseName,
		Focus:        req.Focus,
		Language:     req.Language,
		SyllabusText: course.SyllabusText(),
	})

	res.Content, res.Fallback = e.generate(ctx, prompt, res)

	res.Score = studyplan.Score(req.Focus)
	res.Tier = studyplan.TierFor(res.Score)

	slog.Info("plan generated",
		"id", res.ID,
		"course_code", res.CourseCode,
		"catalog_hit", res.CatalogHit,
		"focus", req.Focus.Join(),
		"language", req.Language.String(),
		"fallback", res.Fallback,
		"score", res.Score,
	)

	if err := e.events.LogEvent(ctx, Event{
		ID:         res.ID,
		Type:       EventPlanGenerated,
		CourseCode: res.CourseCode,
		Data: map[string]any{
			"catalog_hit": res.CatalogHit,
			"focus":       req.Focus.Names(),
			"language":    req.Language.String(),
			"fallback":    res.Fallback,
			"score":       res.Score,
			"tier":        res.Tier.String(),
		},
	}); err != nil {
		slog.Warn("failed to log plan event", "id", res.ID, "error", err)
	}

	return res, nil
}

// generate calls the provider exactly once. It returns the offline fallback
// and true when there is no provider or the call fails.
func (e *Engine) generate(ctx context.Context, prompt string, res *Result) (string, bool) {
	offline := func() string {
		return studyplan.OfflineFallback(res.CourseName, res.Focus, res.Language)
	}

	if e.provider == nil {
		return offline(), true
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := ai.Prompt(prompt)
	req.Model = e.model
	req.MaxTokens = e.maxTokens

	resp, err := e.provider.Complete(ctx, req)
	if err != nil {
		slog.Warn("generation failed, using offline fallback",
			"id", res.ID,
			"provider", e.provider.Name(),
			"course_code", res.CourseCode,
			"error", err,
		)
		return offline(), true
	}
	if strings.TrimSpace(resp.Content) == "" {
		slog.Warn("generation returned no text, using offline fallback",
			"id", res.ID,
			"provider", e.provider.Name(),
		)
		return offline(), true
	}
	return resp.Content, false
}

// LogExport records a document download.
func (e *Engine) LogExport(ctx context.Context, format, courseCode string, score int) {
	if err := e.events.LogEvent(ctx, Event{
		Type:       EventPlanExported,
		CourseCode: courseCode,
		Data: map[string]any{
			"format": format,
			"score":  score,
		},
	}); err != nil {
		slog.Warn("failed to log export event", "format", format, "error", err)
	}
}
