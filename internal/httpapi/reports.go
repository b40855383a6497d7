package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/p-n-ai/pai-lms/internal/audit"
	"github.com/p-n-ai/pai-lms/internal/enrollment"
	"github.com/p-n-ai/pai-lms/internal/report"
)

const defaultAuditLimit = 100

// GET /audit?action=&actorId=&targetId=&limit=
func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := audit.Filter{
		Action:   audit.Action(q.Get("action")),
		ActorID:  q.Get("actorId"),
		TargetID: q.Get("targetId"),
		Limit:    defaultAuditLimit,
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
			return
		}
		f.Limit = n
	}

	events, err := h.auditLog.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) gradebook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	enrollments, err := h.enrollments.List(ctx, enrollment.Filter{CourseID: r.URL.Query().Get("courseId")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	courses, err := h.catalog.List(ctx, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteGradebook(&buf, report.BuildRows(enrollments, courses)); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="gradebook.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
