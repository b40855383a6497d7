package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/p-n-ai/pai-lms/internal/audit"
	"github.com/p-n-ai/pai-lms/internal/authoring"
	"github.com/p-n-ai/pai-lms/internal/catalog"
	"github.com/p-n-ai/pai-lms/internal/content"
	"github.com/p-n-ai/pai-lms/internal/enrollment"
	"github.com/p-n-ai/pai-lms/internal/grading"
)

const maxBodyBytes = 4 << 20

var (
	errMissingActor = errors.New("X-Actor-ID header is required")
	errBadRequest   = errors.New("bad request")
	errNotPublished = errors.New("course is not published")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, enrollment.ErrNotFound),
		errors.Is(err, authoring.ErrModuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMissingActor):
		return http.StatusUnauthorized
	case errors.Is(err, content.ErrInvalidDocument),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, enrollment.ErrInvalidTransition),
		errors.Is(err, errNotPublished):
		return http.StatusConflict
	case errors.Is(err, grading.ErrIncompleteSubmission),
		errors.Is(err, enrollment.ErrModuleMismatch),
		errors.Is(err, enrollment.ErrUngradable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", errBadRequest, err)
	}
	return body, nil
}

// decodeJSON strictly decodes a small request body into v. An empty body
// leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// actorFrom reads the caller's identity from request headers.
func actorFrom(r *http.Request) (audit.Actor, error) {
	id := strings.TrimSpace(r.Header.Get("X-Actor-ID"))
	if id == "" {
		return audit.Actor{}, errMissingActor
	}
	name := strings.TrimSpace(r.Header.Get("X-Actor-Name"))
	if name == "" {
		name = id
	}
	return audit.Actor{ID: id, Name: name}, nil
}
