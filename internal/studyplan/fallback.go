package studyplan

import "fmt"

// FallbackBanner opens every offline response so it is never mistaken for a
// real generation.
const FallbackBanner = "AI service unavailable right now (rate limit or quota exceeded). Switching to offline mode."

const fallbackTemplate = `%s

Course: %s
Focus: %s
Language: %s

Sample output:
- Notes: Unit-wise simplified explanations
- Videos: NPTEL / YouTube references
- Exam Questions: GATE-style practice
- Project Ideas: Mini projects with real-world use cases
`

// OfflineFallback is the placeholder shown when generation fails. It echoes
// the request metadata back to the user.
func OfflineFallback(courseName string, focus FocusSet, lang Language) string {
	return fmt.Sprintf(fallbackTemplate, FallbackBanner, courseName, focus.Join(), lang)
}
