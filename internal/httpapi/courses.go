package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/p-n-ai/pai-lms/internal/catalog"
	"github.com/p-n-ai/pai-lms/internal/content"
)

// GET /courses?published=true
func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	publishedOnly, _ := strconv.ParseBool(r.URL.Query().Get("published"))
	courses, err := h.catalog.List(r.Context(), publishedOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) createCourse(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.catalog.Create(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) getCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.Get(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) updateCourse(w http.ResponseWriter, r *http.Request) {
	if _, err := actorFrom(r); err != nil {
		writeError(w, r, err)
		return
	}
	var md catalog.Metadata
	if err := decodeJSON(w, r, &md); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.catalog.UpdateMetadata(r.Context(), chi.URLParam(r, "courseID"), md)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	if _, err := actorFrom(r); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "courseID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type publishRequest struct {
	// Published sets the status explicitly; omitted toggles it.
	Published *bool `json:"published"`
}

func (h *Handler) publishCourse(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req publishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "courseID")
	var c content.Course
	if req.Published == nil {
		c, err = h.catalog.TogglePublish(r.Context(), actor, id)
	} else {
		c, err = h.catalog.SetPublished(r.Context(), actor, id, *req.Published)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type addModuleRequest struct {
	Title string `json:"title"`
}

func (h *Handler) addModule(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req addModuleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	_, m, err := h.catalog.AddModule(r.Context(), actor, chi.URLParam(r, "courseID"), req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// PUT /courses/{courseID}/modules/{moduleID} replaces the whole module.
func (h *Handler) saveModule(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := content.DecodeModule(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	courseID, moduleID := chi.URLParam(r, "courseID"), chi.URLParam(r, "moduleID")
	if m.ID != moduleID || m.CourseID != courseID {
		writeError(w, r, fmt.Errorf("%w: body is module %s of course %s", errBadRequest, m.ID, m.CourseID))
		return
	}

	c, err := h.catalog.SaveModule(r.Context(), actor, courseID, m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, _, _ := c.Module(moduleID)
	writeJSON(w, http.StatusOK, saved)
}
