package studyplan

import (
	"fmt"
	"strings"
)

// Request is everything the composer needs for one generation.
type Request struct {
	CourseName   string
	Focus        FocusSet
	Language     Language
	SyllabusText string
}

const promptHeader = `You are an expert Indian university professor and exam coach.

Course Name: %s
Requested Outputs: %s
Preferred Language: %s

Official Syllabus:
%s
`

const noSyllabus = "(No official syllabus on file. Use the standard university curriculum for this course and do not invent unit titles.)"

// categoryRules are the content instructions for a selected category.
var categoryRules = map[Category]string{
	Notes:         "Notes: generate unit-wise, easy-to-follow explanations, one section per syllabus unit, in syllabus order.",
	Videos:        "Videos: recommend NPTEL lectures and Indian YouTube channels by name, WITH LINKS.",
	ExamQuestions: "Exam Questions: generate GATE and university-style practice questions.",
	ProjectIdeas:  "Project Ideas: suggest 3-5 practical projects, each tagged with a difficulty level (Beginner, Intermediate or Advanced).",
}

// Compose builds the instruction prompt for req. Output depends only on req.
// Callers must reject an empty focus set before composing.
func Compose(req Request) string {
	syllabus := strings.TrimSpace(req.SyllabusText)
	if syllabus == "" {
		syllabus = noSyllabus
	}

	var b strings.Builder
	fmt.Fprintf(&b, promptHeader, req.CourseName, req.Focus.Join(), req.Language, syllabus)

	b.WriteString("\nInstructions:\n")
	b.WriteString("- Fully generate content ONLY for the requested outputs.\n")
	for _, c := range req.Focus.Selected() {
		b.WriteString("- ")
		b.WriteString(categoryRules[c])
		b.WriteString("\n")
	}

	if missing := req.Focus.Missing(); len(missing) > 0 {
		fmt.Fprintf(&b, "- Do not generate %s. Instead add a short final section called \"Recommended Next\" with one line per item suggesting it as a next step.\n",
			strings.Join(categoryNames(missing), ", "))
	}

	fmt.Fprintf(&b, "- Write the whole answer in %s.\n", req.Language)
	b.WriteString("\nFormat clearly using headings and bullet points.\n")
	return b.String()
}
