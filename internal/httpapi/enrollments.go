package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/p-n-ai/pai-lms/internal/enrollment"
	"github.com/p-n-ai/pai-lms/internal/grading"
)

// GET /enrollments?userId=&courseId=&status=
func (h *Handler) listEnrollments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := enrollment.Filter{
		UserID:   q.Get("userId"),
		CourseID: q.Get("courseId"),
		Status:   enrollment.Status(q.Get("status")),
	}
	if f.Status != "" && !f.Status.Valid() {
		writeError(w, r, fmt.Errorf("%w: unknown status %q", errBadRequest, f.Status))
		return
	}
	list, err := h.enrollments.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type enrollRequest struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
}

type enrollResponse struct {
	Enrollment enrollment.Enrollment `json:"enrollment"`
	Created    bool                  `json:"created"`
}

// POST /enrollments enrolls userId, or the caller when userId is empty.
func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req enrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UserID == "" {
		req.UserID = actor.ID
	}
	if req.CourseID == "" {
		writeError(w, r, fmt.Errorf("%w: courseId is required", errBadRequest))
		return
	}

	c, err := h.catalog.Get(r.Context(), req.CourseID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !c.Published() {
		writeError(w, r, fmt.Errorf("%w: %s", errNotPublished, c.ID))
		return
	}

	e, created, err := h.enrollments.Enroll(r.Context(), actor, req.UserID, req.CourseID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, enrollResponse{Enrollment: e, Created: created})
}

func (h *Handler) getEnrollment(w http.ResponseWriter, r *http.Request) {
	e, err := h.enrollments.Get(r.Context(), chi.URLParam(r, "enrollmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) touchEnrollment(w http.ResponseWriter, r *http.Request) {
	e, err := h.enrollments.Touch(r.Context(), chi.URLParam(r, "enrollmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

type attemptRequest struct {
	// ModuleID selects the module to grade; empty means the first module.
	ModuleID string          `json:"moduleId"`
	Answers  grading.Answers `json:"answers"`
}

type attemptResponse struct {
	Enrollment enrollment.Enrollment `json:"enrollment"`
	Result     grading.Result        `json:"result"`
}

func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req attemptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	e, err := h.enrollments.Get(ctx, chi.URLParam(r, "enrollmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.catalog.Get(ctx, e.CourseID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := enrollment.AttemptModule(c, req.ModuleID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	next, res, err := h.enrollments.SubmitAttempt(ctx, actor, e.ID, m, req.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attemptResponse{Enrollment: next, Result: res})
}

func (h *Handler) reviewEnrollment(w http.ResponseWriter, r *http.Request) {
	reviewer, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var d enrollment.Decision
	if err := decodeJSON(w, r, &d); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.enrollments.ManualReview(r.Context(), reviewer, chi.URLParam(r, "enrollmentID"), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
