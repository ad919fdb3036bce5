package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/learnbharat/learnbharat-ai/internal/export"
	"github.com/learnbharat/learnbharat-ai/internal/planner"
	"github.com/learnbharat/learnbharat-ai/internal/studyplan"
	"github.com/learnbharat/learnbharat-ai/internal/syllabus"
)

// CourseList is the body of GET /api/v1/courses.
type CourseList struct {
	Courses []syllabus.Course `json:"courses"`
}

// PlanResponse is the JSON form of a planner result.
type PlanResponse struct {
	ID         uuid.UUID `json:"id"`
	CourseCode string    `json:"course_code"`
	CourseName string    `json:"course_name"`
	CatalogHit bool      `json:"catalog_hit"`
	Units      []string  `json:"units"`
	Focus      []string  `json:"focus"`
	Language   string    `json:"language"`
	Content    string    `json:"content"`
	Fallback   bool      `json:"fallback"`
	Score      int       `json:"score"`
	Tier       string    `json:"tier"`
	Advice     string    `json:"advice"`
	Warnings   []string  `json:"warnings"`
}

func newPlanResponse(res *planner.Result) PlanResponse {
	units := res.Units
	if units == nil {
		units = []string{}
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return PlanResponse{
		ID:         res.ID,
		CourseCode: res.CourseCode,
		CourseName: res.CourseName,
		CatalogHit: res.CatalogHit,
		Units:      units,
		Focus:      res.Focus.Names(),
		Language:   res.Language.String(),
		Content:    res.Content,
		Fallback:   res.Fallback,
		Score:      res.Score,
		Tier:       res.Tier.String(),
		Advice:     res.Tier.Advice(),
		Warnings:   warnings,
	}
}

// ExportRequest is the body of POST /api/v1/exports/pdf.
type ExportRequest struct {
	CourseCode string   `json:"course_code"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Focus      []string `json:"focus"`
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CourseList{Courses: s.planner.Catalog().Courses()})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := s.planner.Catalog().Lookup(r.PathValue("code"))
	if !ok {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var in planner.Input
	if !s.decode(w, r, s.schemas.plan, &in) {
		return
	}

	res, err := s.planner.Plan(r.Context(), in)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
		slog.Error("plan failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(res))
}

func (s *Server) handleAPIExportPDF(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !s.decode(w, r, s.schemas.export, &req) {
		return
	}

	doc := export.Document{
		Title:   req.Title,
		Content: req.Content,
		Focus:   studyplan.LenientFocus(req.Focus),
	}
	s.writePDF(w, r, req.CourseCode, doc)
}

// decode reads a size-limited JSON body, validates it against schema and
// unmarshals it into v. It writes the error response and returns false on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "could not read request body")
		return false
	}

	problems, err := validate(schema, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return false
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "request does not match schema", Details: problems})
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return false
	}
	return true
}

func (s *Server) writePDF(w http.ResponseWriter, r *http.Request, courseCode string, doc export.Document) {
	data, err := s.pdf.ExportDocument(doc)
	if err != nil {
		slog.Error("pdf export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create PDF")
		return
	}
	if n, err := export.PageCount(data); err == nil {
		w.Header().Set("X-Page-Count", strconv.Itoa(n))
	} else {
		slog.Warn("pdf page count failed", "error", err)
	}
	s.planner.LogExport(r.Context(), "pdf", syllabus.NormalizeCode(courseCode), doc.Score())
	download(w, export.PDFContentType, export.PDFFileName, data)
}
