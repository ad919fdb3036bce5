package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/learnbharat/learnbharat-ai/internal/ai"
	"github.com/learnbharat/learnbharat-ai/internal/web"
)

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPI_ListCourses(t *testing.T) {
	h, _ := newHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp web.CourseList
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Courses) != 2 || resp.Courses[0].Code != "CS301" || resp.Courses[1].Code != "CS302" {
		t.Errorf("courses = %+v, want CS301 and CS302", resp.Courses)
	}
}

func TestAPI_GetCourse(t *testing.T) {
	h, _ := newHandler(t, nil)

	tests := []struct {
		path       string
		wantStatus int
		wantName   string
	}{
		{"/api/v1/courses/CS302", http.StatusOK, "Database Management Systems"},
		{"/api/v1/courses/cs301", http.StatusOK, "Operating Systems"},
		{"/api/v1/courses/ZZZ999", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantName == "" {
				return
			}
			var c struct {
				Name  string   `json:"name"`
				Units []string `json:"units"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if c.Name != tt.wantName || len(c.Units) != 4 {
				t.Errorf("course = %+v, want %s with 4 units", c, tt.wantName)
			}
		})
	}
}

func TestAPI_CreatePlan(t *testing.T) {
	h, _ := newHandler(t, ai.NewMockProvider("Notes for DBMS"))

	rec := postJSON(h, "/api/v1/plans", `{"course_code":"cs302","focus":["Notes","Exam Questions"],"language":"Telugu"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp web.PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CourseCode != "CS302" || !resp.CatalogHit {
		t.Errorf("course = %s hit=%v, want CS302 hit", resp.CourseCode, resp.CatalogHit)
	}
	if resp.Content != "Notes for DBMS" || resp.Fallback {
		t.Errorf("content = %q fallback=%v", resp.Content, resp.Fallback)
	}
	if resp.Score != 70 || resp.Tier != "good progress" {
		t.Errorf("score = %d tier = %q, want 70 good progress", resp.Score, resp.Tier)
	}
	if resp.Language != "Telugu" {
		t.Errorf("language = %q, want Telugu", resp.Language)
	}
	if len(resp.Focus) != 2 || resp.Focus[0] != "Notes" || resp.Focus[1] != "Exam Questions" {
		t.Errorf("focus = %v", resp.Focus)
	}
	if resp.Warnings == nil {
		t.Error("warnings should encode as an empty list")
	}
}

func TestAPI_CreatePlan_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"not json", `{"course_code":`, http.StatusBadRequest, "not valid JSON"},
		{"wrong type", `{"course_code":301,"focus":["Notes"]}`, http.StatusBadRequest, "does not match schema"},
		{"unknown field", `{"course_code":"CS301","focus":["Notes"],"user":"x"}`, http.StatusBadRequest, "does not match schema"},
		{"missing code", `{"focus":["Notes"]}`, http.StatusUnprocessableEntity, "Please enter a course code"},
		{"empty focus", `{"course_code":"CS301","focus":[]}`, http.StatusUnprocessableEntity, "Please select at least one option"},
		{"unknown focus", `{"course_code":"CS301","focus":["Podcasts"]}`, http.StatusUnprocessableEntity, "unknown focus category"},
		{"unknown language", `{"course_code":"CS301","focus":["Notes"],"language":"Latin"}`, http.StatusUnprocessableEntity, "unknown language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAI := ai.NewMockProvider("unused")
			h, _ := newHandler(t, mockAI)

			rec := postJSON(h, "/api/v1/plans", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var resp web.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !strings.Contains(resp.Error, tt.wantError) {
				t.Errorf("error = %q, want it to contain %q", resp.Error, tt.wantError)
			}
			if mockAI.Calls() != 0 {
				t.Errorf("provider calls = %d, want 0", mockAI.Calls())
			}
		})
	}
}

func TestAPI_CreatePlan_BodyTooLarge(t *testing.T) {
	h, _ := newHandler(t, nil)
	body := `{"course_code":"` + strings.Repeat("x", 2<<20) + `"}`
	rec := postJSON(h, "/api/v1/plans", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestAPI_ExportPDF(t *testing.T) {
	h, _ := newHandler(t, nil)

	rec := postJSON(h, "/api/v1/exports/pdf", `{"title":"OS","content":"Unit 1\nUnit 2 नमस्ते","focus":["Notes","bogus"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="LearnBharat_AI_Notes.pdf"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if n, err := strconv.Atoi(rec.Header().Get("X-Page-Count")); err != nil || n != 1 {
		t.Errorf("X-Page-Count = %q, want 1", rec.Header().Get("X-Page-Count"))
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("body is not a PDF")
	}
}

func TestAPI_ExportPDF_MissingContent(t *testing.T) {
	h, _ := newHandler(t, nil)
	rec := postJSON(h, "/api/v1/exports/pdf", `{"title":"OS"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
