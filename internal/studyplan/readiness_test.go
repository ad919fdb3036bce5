package studyplan_test

import (
	"testing"

	"github.com/learnbharat/learnbharat-ai/internal/studyplan"
)

func TestScore_AllSubsets(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		var set studyplan.FocusSet
		want := 0
		for i, c := range studyplan.Categories {
			if mask&(1<<i) == 0 {
				continue
			}
			set = set.With(c)
			switch c {
			case studyplan.Notes, studyplan.ExamQuestions:
				want += 35
			case studyplan.ProjectIdeas:
				want += 20
			case studyplan.Videos:
				want += 10
			}
		}
		want = min(want, 100)

		if got := studyplan.Score(set); got != want {
			t.Errorf("Score(%v) = %d, want %d", set.Names(), got, want)
		}
	}
}

func TestScore_Examples(t *testing.T) {
	tests := []struct {
		name string
		set  studyplan.FocusSet
		want int
	}{
		{"empty", studyplan.NewFocusSet(), 0},
		{"all", studyplan.NewFocusSet(studyplan.Notes, studyplan.Videos, studyplan.ExamQuestions, studyplan.ProjectIdeas), 100},
		{"notes only", studyplan.NewFocusSet(studyplan.Notes), 35},
		{"videos only", studyplan.NewFocusSet(studyplan.Videos), 10},
		{"notes and exams", studyplan.NewFocusSet(studyplan.Notes, studyplan.ExamQuestions), 70},
		{"invalid category ignored", studyplan.NewFocusSet(studyplan.Category(42), studyplan.Videos), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := studyplan.Score(tt.set); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	set := studyplan.NewFocusSet(studyplan.Notes, studyplan.ProjectIdeas)
	first := studyplan.Score(set)
	for i := 0; i < 5; i++ {
		if got := studyplan.Score(set); got != first {
			t.Fatalf("Score() changed between calls: %d then %d", first, got)
		}
	}
}

func TestLenientFocus_IgnoresUnknown(t *testing.T) {
	set := studyplan.LenientFocus([]string{"Notes", "Flashcards", "Exam Questions", "Notes"})
	if set.Len() != 2 || !set.Has(studyplan.Notes) || !set.Has(studyplan.ExamQuestions) {
		t.Errorf("LenientFocus() = %v, want Notes and Exam Questions", set.Names())
	}
	if got := studyplan.Score(set); got != 70 {
		t.Errorf("Score(LenientFocus()) = %d, want 70", got)
	}
	if got := studyplan.Score(studyplan.LenientFocus(nil)); got != 0 {
		t.Errorf("Score(LenientFocus(nil)) = %d, want 0", got)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		want  studyplan.Tier
		name  string
	}{
		{0, studyplan.NeedsFocus, "needs more focus"},
		{49, studyplan.NeedsFocus, "needs more focus"},
		{50, studyplan.GoodProgress, "good progress"},
		{79, studyplan.GoodProgress, "good progress"},
		{80, studyplan.ExamReady, "exam-ready"},
		{100, studyplan.ExamReady, "exam-ready"},
	}

	for _, tt := range tests {
		got := studyplan.TierFor(tt.score)
		if got != tt.want {
			t.Errorf("TierFor(%d) = %v, want %v", tt.score, got, tt.want)
		}
		if got.String() != tt.name {
			t.Errorf("TierFor(%d).String() = %q, want %q", tt.score, got.String(), tt.name)
		}
		if got.Advice() == "" {
			t.Errorf("TierFor(%d).Advice() is empty", tt.score)
		}
	}
}
