package planner_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/learnbharat/learnbharat-ai/internal/ai"
	"github.com/learnbharat/learnbharat-ai/internal/planner"
	"github.com/learnbharat/learnbharat-ai/internal/studyplan"
)

func TestEngine_Plan(t *testing.T) {
	mockAI := ai.NewMockProvider("## Unit 1\nProcesses and threads.")
	events := planner.NewMemoryEventLogger()
	engine := planner.NewEngine(planner.EngineConfig{
		Provider: mockAI,
		Events:   events,
		Model:    "gpt-test",
	})

	res, err := engine.Plan(context.Background(), planner.Input{
		CourseCode: " cs 301 ",
		Focus:      []string{"Notes", "Exam Questions"},
		Language:   "Hindi",
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if res.CourseCode != "CS301" || res.CourseName != "Operating Systems" {
		t.Errorf("course = %s %q, want CS301 Operating Systems", res.CourseCode, res.CourseName)
	}
	if !res.CatalogHit || len(res.Units) != 4 {
		t.Errorf("CatalogHit = %v, units = %d; want true, 4", res.CatalogHit, len(res.Units))
	}
	if res.Fallback {
		t.Error("Fallback = true, want false")
	}
	if res.Content != "## Unit 1\nProcesses and threads." {
		t.Errorf("Content = %q", res.Content)
	}
	if res.Score != 70 || res.Tier != studyplan.GoodProgress {
		t.Errorf("Score = %d (%s), want 70 (good progress)", res.Score, res.Tier)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}

	req := mockAI.LastRequest()
	if req == nil {
		t.Fatal("provider was not called")
	}
	if req.Model != "gpt-test" || req.MaxTokens != 800 {
		t.Errorf("request model/max = %q/%d, want gpt-test/800", req.Model, req.MaxTokens)
	}
	prompt := req.Messages[0].Content
	for _, want := range []string{"Operating Systems", "Notes, Exam Questions", "Hindi", "Process Management"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	got := events.Events()
	if len(got) != 1 || got[0].Type != planner.EventPlanGenerated {
		t.Fatalf("events = %+v, want one plan_generated", got)
	}
	if got[0].ID != res.ID {
		t.Errorf("event ID = %s, want %s", got[0].ID, res.ID)
	}
	if got[0].Data["fallback"] != false {
		t.Errorf("event fallback = %v, want false", got[0].Data["fallback"])
	}
}

func TestEngine_Plan_ProviderFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rate limited", ai.ErrRateLimited},
		{"quota", ai.ErrQuotaExceeded},
		{"budget", ai.ErrBudgetExhausted},
		{"network", errors.New("dial tcp: connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAI := ai.NewMockProvider("")
			mockAI.Err = tt.err
			engine := planner.NewEngine(planner.EngineConfig{Provider: mockAI})

			res, err := engine.Plan(context.Background(), planner.Input{
				CourseCode: "CS302",
				Focus:      []string{"videos", "project_ideas"},
				Language:   "Tamil",
			})
			if err != nil {
				t.Fatalf("Plan() error = %v, want nil", err)
			}
			if !res.Fallback {
				t.Error("Fallback = false, want true")
			}
			if mockAI.Calls() != 1 {
				t.Errorf("provider calls = %d, want 1", mockAI.Calls())
			}
			for _, want := range []string{studyplan.FallbackBanner, "Database Management Systems", "Videos, Project Ideas", "Tamil"} {
				if !strings.Contains(res.Content, want) {
					t.Errorf("fallback content missing %q:\n%s", want, res.Content)
				}
			}
			if res.Score != 30 || res.Tier != studyplan.NeedsFocus {
				t.Errorf("Score = %d (%s), want 30 (needs more focus)", res.Score, res.Tier)
			}
		})
	}
}

func TestEngine_Plan_EmptyResponseFallsBack(t *testing.T) {
	engine := planner.NewEngine(planner.EngineConfig{Provider: ai.NewMockProvider("   ")})

	res, err := engine.Plan(context.Background(), planner.Input{CourseCode: "CS301", Focus: []string{"notes"}})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !res.Fallback {
		t.Error("Fallback = false, want true for blank provider output")
	}
}

func TestEngine_Plan_NilProvider(t *testing.T) {
	engine := planner.NewEngine(planner.EngineConfig{})

	res, err := engine.Plan(context.Background(), planner.Input{
		CourseCode: "CS301",
		Focus:      []string{"Notes", "Videos", "Exam Questions", "Project Ideas"},
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !res.Fallback {
		t.Error("Fallback = false, want true without a provider")
	}
	if res.Language != studyplan.English {
		t.Errorf("Language = %s, want English", res.Language)
	}
	if res.Score != 100 || res.Tier != studyplan.ExamReady {
		t.Errorf("Score = %d (%s), want 100 (exam-ready)", res.Score, res.Tier)
	}
}

func TestEngine_Plan_UnknownCourse(t *testing.T) {
	mockAI := ai.NewMockProvider("Generic notes.")
	engine := planner.NewEngine(planner.EngineConfig{Provider: mockAI})

	res, err := engine.Plan(context.Background(), planner.Input{
		CourseCode: "  ZZZ999 ",
		Focus:      []string{"Notes"},
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if res.CatalogHit {
		t.Error("CatalogHit = true, want false")
	}
	if res.CourseName != "ZZZ999" {
		t.Errorf("CourseName = %q, want ZZZ999", res.CourseName)
	}
	if len(res.Units) != 0 {
		t.Errorf("Units = %v, want none", res.Units)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != planner.WarnCourseNotFound {
		t.Errorf("Warnings = %v, want [%q]", res.Warnings, planner.WarnCourseNotFound)
	}
	if !strings.Contains(mockAI.LastRequest().Messages[0].Content, "ZZZ999") {
		t.Error("prompt should use the course code as topic")
	}
}

func TestEngine_Plan_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   planner.Input
		want error
	}{
		{"empty code", planner.Input{CourseCode: "  ", Focus: []string{"Notes"}}, studyplan.ErrMissingCourseCode},
		{"no focus", planner.Input{CourseCode: "CS301"}, studyplan.ErrNoFocus},
		{"unknown focus", planner.Input{CourseCode: "CS301", Focus: []string{"Podcasts"}}, studyplan.ErrUnknownCategory},
		{"unknown language", planner.Input{CourseCode: "CS301", Focus: []string{"Notes"}, Language: "Klingon"}, studyplan.ErrUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAI := ai.NewMockProvider("unused")
			events := planner.NewMemoryEventLogger()
			engine := planner.NewEngine(planner.EngineConfig{Provider: mockAI, Events: events})

			res, err := engine.Plan(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Plan() error = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Error("Plan() returned a result on validation failure")
			}
			if mockAI.Calls() != 0 {
				t.Errorf("provider calls = %d, want 0", mockAI.Calls())
			}
			if len(events.Events()) != 0 {
				t.Error("no event should be logged on validation failure")
			}
		})
	}
}

func TestEngine_Plan_BudgetedProvider(t *testing.T) {
	ctx := context.Background()
	budget := ai.NewInMemoryBudget(1)
	_ = budget.Record(ctx, "mock", 1)
	mockAI := ai.NewMockProvider("never returned")
	engine := planner.NewEngine(planner.EngineConfig{Provider: ai.Budgeted(mockAI, budget, "")})

	res, err := engine.Plan(ctx, planner.Input{CourseCode: "CS301", Focus: []string{"Notes"}})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !res.Fallback {
		t.Error("Fallback = false, want true once the budget is spent")
	}
	if mockAI.Calls() != 0 {
		t.Errorf("provider calls = %d, want 0", mockAI.Calls())
	}
}

func TestEngine_LogExport(t *testing.T) {
	events := planner.NewMemoryEventLogger()
	engine := planner.NewEngine(planner.EngineConfig{Events: events})

	engine.LogExport(context.Background(), "pdf", "CS301", 35)

	got := events.Events()
	if len(got) != 1 || got[0].Type != planner.EventPlanExported {
		t.Fatalf("events = %+v, want one plan_exported", got)
	}
	if got[0].Data["format"] != "pdf" {
		t.Errorf("format = %v, want pdf", got[0].Data["format"])
	}
}
