package authoring

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/p-n-ai/pai-lms/internal/content"
)

// NewCourse returns a draft course with one empty draft module.
func (e *Editor) NewCourse() content.Course {
	courseID := e.newID()
	return content.Course{
		ID:           courseID,
		Title:        "New Clinical Course",
		Description:  "Enter description here...",
		Category:     content.CategoryClinicalSkills,
		CECredits:    decimal.NewFromInt(1),
		ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/400/200", courseID),
		Status:       content.CourseDraft,
		Modules: []content.Module{{
			ID:               e.newID(),
			CourseID:         courseID,
			Title:            "Module 1: Getting Started",
			Status:           content.ModuleDraft,
			PassingScore:     DefaultPassingScore,
			EstimatedMinutes: 10,
			Blocks:           []content.Block{},
		}},
	}
}

// NewModule returns an empty draft module for the course.
func (e *Editor) NewModule(c content.Course, title string) content.Module {
	if title == "" {
		title = fmt.Sprintf("Module %d", len(c.Modules)+1)
	}
	return content.Module{
		ID:               e.newID(),
		CourseID:         c.ID,
		Title:            title,
		Status:           content.ModuleDraft,
		PassingScore:     DefaultPassingScore,
		EstimatedMinutes: 10,
		Blocks:           []content.Block{},
	}
}

// ReplaceModule swaps the course's module with the same ID for m. The
// whole module is replaced; nothing is merged.
func ReplaceModule(c content.Course, m content.Module) (content.Course, error) {
	_, i, ok := c.Module(m.ID)
	if !ok {
		return c, fmt.Errorf("%w: %s in course %s", ErrModuleNotFound, m.ID, c.ID)
	}
	if m.CourseID != c.ID {
		return c, fmt.Errorf("%w: module %s belongs to course %q", content.ErrInvalidDocument, m.ID, m.CourseID)
	}
	out := c.Clone()
	out.Modules[i] = m.Clone()
	return out, nil
}

// AppendModule adds m to the end of the course.
func AppendModule(c content.Course, m content.Module) (content.Course, error) {
	if _, _, ok := c.Module(m.ID); ok {
		return c, fmt.Errorf("%w: duplicate module id %q", content.ErrInvalidDocument, m.ID)
	}
	if m.CourseID != c.ID {
		return c, fmt.Errorf("%w: module %s belongs to course %q", content.ErrInvalidDocument, m.ID, m.CourseID)
	}
	out := c.Clone()
	out.Modules = append(out.Modules, m.Clone())
	return out, nil
}
