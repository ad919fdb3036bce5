// Package studyplan holds the study-plan readiness rules: the closed set of
// focus categories and languages, prompt composition, and readiness scoring.
package studyplan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCourseCode = errors.New("course code is required")
	ErrNoFocus           = errors.New("at least one focus category is required")
	ErrUnknownCategory   = errors.New("unknown focus category")
	ErrUnknownLanguage   = errors.New("unknown language")
)

// Category is one of the selectable output kinds.
type Category int

const (
	Notes Category = iota
	Videos
	ExamQuestions
	ProjectIdeas
)

// Categories lists every category in display order.
var Categories = []Category{Notes, Videos, ExamQuestions, ProjectIdeas}

func (c Category) String() string {
	switch c {
	case Notes:
		return "Notes"
	case Videos:
		return "Videos"
	case ExamQuestions:
		return "Exam Questions"
	case ProjectIdeas:
		return "Project Ideas"
	default:
		return "unknown"
	}
}

// Slug is the form/API value for the category.
func (c Category) Slug() string {
	switch c {
	case Notes:
		return "notes"
	case Videos:
		return "videos"
	case ExamQuestions:
		return "exam_questions"
	case ProjectIdeas:
		return "project_ideas"
	default:
		return ""
	}
}

func (c Category) valid() bool {
	return c >= Notes && c <= ProjectIdeas
}

// ParseCategory accepts the display name, the slug, or the name with the
// spaces removed, case-insensitively.
func ParseCategory(s string) (Category, error) {
	key := categoryKey(s)
	for _, c := range Categories {
		if key == categoryKey(c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func categoryKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// FocusSet is a set of categories. The zero value is empty.
type FocusSet uint8

// NewFocusSet builds a set from the given categories, ignoring invalid values.
func NewFocusSet(cats ...Category) FocusSet {
	var s FocusSet
	for _, c := range cats {
		s = s.With(c)
	}
	return s
}

// ParseFocus parses category names into a set. Duplicates collapse.
func ParseFocus(names []string) (FocusSet, error) {
	var s FocusSet
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return 0, err
		}
		s = s.With(c)
	}
	return s, nil
}

// With returns s plus c.
func (s FocusSet) With(c Category) FocusSet {
	if !c.valid() {
		return s
	}
	return s | 1<<uint(c)
}

// Has reports whether c is in the set.
func (s FocusSet) Has(c Category) bool {
	return c.valid() && s&(1<<uint(c)) != 0
}

// Empty reports whether no category is selected.
func (s FocusSet) Empty() bool {
	return s.Len() == 0
}

// Len returns the number of selected categories.
func (s FocusSet) Len() int {
	n := 0
	for _, c := range Categories {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// Selected returns the selected categories in display order.
func (s FocusSet) Selected() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Missing returns the categories not in the set, in display order.
func (s FocusSet) Missing() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if !s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the display names of the selected categories.
func (s FocusSet) Names() []string {
	return categoryNames(s.Selected())
}

// Join returns the selected display names separated by ", ".
func (s FocusSet) Join() string {
	return strings.Join(s.Names(), ", ")
}

func categoryNames(cats []Category) []string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return names
}

// Language is the preferred output language.
type Language int

const (
	English Language = iota
	Hindi
	Tamil
	Telugu
)

// Languages lists every supported language in display order.
var Languages = []Language{English, Hindi, Tamil, Telugu}

func (l Language) String() string {
	switch l {
	case English:
		return "English"
	case Hindi:
		return "Hindi"
	case Tamil:
		return "Tamil"
	case Telugu:
		return "Telugu"
	default:
		return "unknown"
	}
}

// ParseLanguage matches a language name case-insensitively. An empty string
// selects English, the form's default.
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return English, nil
	}
	for _, l := range Languages {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}
