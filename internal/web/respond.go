package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/learnbharat/learnbharat-ai/internal/studyplan"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// userMessage turns a validation error into the text shown to the user.
// ok is false for errors that are not input problems.
func userMessage(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, studyplan.ErrMissingCourseCode):
		return "Please enter a course code", true
	case errors.Is(err, studyplan.ErrNoFocus):
		return "Please select at least one option", true
	case errors.Is(err, studyplan.ErrUnknownCategory), errors.Is(err, studyplan.ErrUnknownLanguage):
		return err.Error(), true
	default:
		return "", false
	}
}

// download writes a file attachment.
func download(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
