package studyplan

// MaxScore caps the readiness score.
const MaxScore = 100

var weights = map[Category]int{
	Notes:         35,
	ExamQuestions: 35,
	ProjectIdeas:  20,
	Videos:        10,
}

// Weight returns the readiness points contributed by c.
func Weight(c Category) int {
	return weights[c]
}

// Score sums the weights of the selected categories, capped at MaxScore.
func Score(focus FocusSet) int {
	total := 0
	for _, c := range focus.Selected() {
		total += weights[c]
	}
	return min(total, MaxScore)
}

// LenientFocus parses category names, skipping any it does not recognise, so
// unknown names contribute zero to Score. Export forms post focus back this way.
func LenientFocus(names []string) FocusSet {
	var s FocusSet
	for _, n := range names {
		if c, err := ParseCategory(n); err == nil {
			s = s.With(c)
		}
	}
	return s
}

// Tier is the display band for a readiness score.
type Tier int

const (
	NeedsFocus Tier = iota
	GoodProgress
	ExamReady
)

// Tier boundaries (inclusive lower bounds).
const (
	goodProgressFrom = 50
	examReadyFrom    = 80
)

// TierFor maps a score to its tier.
func TierFor(score int) Tier {
	switch {
	case score >= examReadyFrom:
		return ExamReady
	case score >= goodProgressFrom:
		return GoodProgress
	default:
		return NeedsFocus
	}
}

func (t Tier) String() string {
	switch t {
	case NeedsFocus:
		return "needs more focus"
	case GoodProgress:
		return "good progress"
	case ExamReady:
		return "exam-ready"
	default:
		return "unknown"
	}
}

// Advice is the guidance shown next to the score.
func (t Tier) Advice() string {
	switch t {
	case ExamReady:
		return "Excellent! You are exam-ready."
	case GoodProgress:
		return "Good progress! Add projects or more practice."
	default:
		return "Focus more on notes and exam questions."
	}
}
