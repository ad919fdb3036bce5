package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/learnbharat/learnbharat-ai/internal/export"
	"github.com/learnbharat/learnbharat-ai/internal/planner"
	"github.com/learnbharat/learnbharat-ai/internal/studyplan"
	"github.com/learnbharat/learnbharat-ai/internal/syllabus"
)

//go:embed templates/*.html
var templateFS embed.FS

func parsePage() (*template.Template, error) {
	t, err := template.New("page.html").ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return t, nil
}

type option struct {
	Value   string
	Label   string
	Checked bool
}

type resultView struct {
	CourseCode string
	Title      string
	Content    string
	HTML       template.HTML
	Fallback   bool
	Score      int
	Tier       string
	TierClass  string
	Advice     string
	FocusSlugs []string
}

type pageView struct {
	CourseCode string
	Categories []option
	Languages  []option
	Courses    []syllabus.Course
	Success    []string
	Warnings   []string
	Result     *resultView
}

func (s *Server) newPageView(code string, focus studyplan.FocusSet, lang string) *pageView {
	v := &pageView{
		CourseCode: code,
		Courses:    s.planner.Catalog().Courses(),
	}
	for _, c := range studyplan.Categories {
		v.Categories = append(v.Categories, option{Value: c.Slug(), Label: c.String(), Checked: focus.Has(c)})
	}
	for _, l := range studyplan.Languages {
		v.Languages = append(v.Languages, option{Value: l.String(), Label: l.String(), Checked: strings.EqualFold(lang, l.String())})
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, status int, v *pageView) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, v); err != nil {
		slog.Error("rendering page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.newPageView("", 0, studyplan.English.String()))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not read form", http.StatusBadRequest)
		return
	}

	in := planner.Input{
		CourseCode: r.PostForm.Get("course_code"),
		Focus:      r.PostForm["focus"],
		Language:   r.PostForm.Get("language"),
	}
	v := s.newPageView(in.CourseCode, studyplan.LenientFocus(in.Focus), in.Language)

	res, err := s.planner.Plan(r.Context(), in)
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			slog.Error("plan failed", "error", err)
			msg = "Something went wrong. Please try again."
		}
		v.Warnings = append(v.Warnings, msg)
		s.render(w, http.StatusOK, v)
		return
	}

	if res.CatalogHit {
		v.Success = append(v.Success, "Loaded syllabus for "+res.CourseName)
	}
	v.Warnings = append(v.Warnings, res.Warnings...)
	v.Success = append(v.Success, "Done!")

	v.Result = &resultView{
		CourseCode: res.CourseCode,
		Title:      documentTitle(res.CourseName, res.CourseCode),
		Content:    res.Content,
		HTML:       renderMarkdown(res.Content),
		Fallback:   res.Fallback,
		Score:      res.Score,
		Tier:       res.Tier.String(),
		TierClass:  tierClass(res.Tier),
		Advice:     res.Tier.Advice(),
	}
	for _, c := range res.Focus.Selected() {
		v.Result.FocusSlugs = append(v.Result.FocusSlugs, c.Slug())
	}
	s.render(w, http.StatusOK, v)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	code, doc, ok := exportForm(w, r)
	if !ok {
		return
	}
	s.writePDF(w, r, code, doc)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	code, doc, ok := exportForm(w, r)
	if !ok {
		return
	}
	data, err := s.xlsx.ExportDocument(doc)
	if err != nil {
		slog.Error("xlsx export failed", "error", err)
		http.Error(w, "could not create spreadsheet", http.StatusInternalServerError)
		return
	}
	s.planner.LogExport(r.Context(), "xlsx", syllabus.NormalizeCode(code), doc.Score())
	download(w, export.XLSXContentType, export.XLSXFileName, data)
}

// exportForm reads the hidden download form the result page posts back.
func exportForm(w http.ResponseWriter, r *http.Request) (string, export.Document, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not read form", http.StatusBadRequest)
		return "", export.Document{}, false
	}
	content := r.PostForm.Get("content")
	if strings.TrimSpace(content) == "" {
		http.Error(w, "nothing to export", http.StatusBadRequest)
		return "", export.Document{}, false
	}
	return r.PostForm.Get("course_code"), export.Document{
		Title:   r.PostForm.Get("title"),
		Content: content,
		Focus:   studyplan.LenientFocus(r.PostForm["focus"]),
	}, true
}

func documentTitle(name, code string) string {
	if name == "" || strings.EqualFold(syllabus.NormalizeCode(name), code) {
		return "LearnBharat AI Study Material: " + code
	}
	return fmt.Sprintf("LearnBharat AI Study Material: %s (%s)", name, code)
}

func tierClass(t studyplan.Tier) string {
	switch t {
	case studyplan.ExamReady:
		return "success"
	case studyplan.GoodProgress:
		return "info"
	default:
		return "warning"
	}
}

var md = goldmark.New()

// renderMarkdown converts generated text to HTML. Raw HTML in the input is
// omitted by goldmark's default renderer.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
	}
	return template.HTML(buf.String())
}
