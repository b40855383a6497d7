package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/p-n-ai/pai-lms/internal/audit"
	"github.com/p-n-ai/pai-lms/internal/authoring"
	"github.com/p-n-ai/pai-lms/internal/content"
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Store  Store
	Audit  audit.Recorder
	Editor *authoring.Editor
}

// Service applies catalog edits and reports module saves and publication
// changes to the audit recorder.
type Service struct {
	store  Store
	audit  audit.Recorder
	editor *authoring.Editor
}

// NewService creates a catalog service. Nil fields fall back to an
// in-memory store, a discarding recorder and a default editor.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{store: cfg.Store, audit: cfg.Audit, editor: cfg.Editor}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if s.audit == nil {
		s.audit = audit.NopRecorder{}
	}
	if s.editor == nil {
		s.editor = authoring.New(authoring.Config{})
	}
	return s
}

// Create stores a new draft course with one empty module.
func (s *Service) Create(ctx context.Context, actor audit.Actor) (content.Course, error) {
	c := s.editor.NewCourse()
	if err := s.store.Put(ctx, c); err != nil {
		return content.Course{}, fmt.Errorf("create course: %w", err)
	}
	slog.Info("course created", "course_id", c.ID, "actor_id", actor.ID)
	return c, nil
}

// Get returns a course by ID.
func (s *Service) Get(ctx context.Context, id string) (content.Course, error) {
	return s.store.Get(ctx, id)
}

// List returns courses, newest first. With publishedOnly set, drafts are
// left out.
func (s *Service) List(ctx context.Context, publishedOnly bool) ([]content.Course, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if !publishedOnly {
		return all, nil
	}
	out := make([]content.Course, 0, len(all))
	for _, c := range all {
		if c.Published() {
			out = append(out, c)
		}
	}
	return out, nil
}

// SaveModule replaces a module of the course with m. The module must
// already exist in the course and is stored whole, with rich text
// sanitised.
func (s *Service) SaveModule(ctx context.Context, actor audit.Actor, courseID string, m content.Module) (content.Course, error) {
	c, err := s.store.Get(ctx, courseID)
	if err != nil {
		return content.Course{}, err
	}
	if err := m.Validate(); err != nil {
		return content.Course{}, err
	}

	updated, err := authoring.ReplaceModule(c, m.Sanitize())
	if err != nil {
		return content.Course{}, err
	}
	if err := s.store.Put(ctx, updated); err != nil {
		return content.Course{}, fmt.Errorf("save module: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionModuleUpdate, m.ID,
		fmt.Sprintf("Saved %d blocks for module: %s", len(m.Blocks), m.Title))
	return updated, nil
}

// AddModule appends an empty draft module to the course.
func (s *Service) AddModule(ctx context.Context, actor audit.Actor, courseID, title string) (content.Course, content.Module, error) {
	c, err := s.store.Get(ctx, courseID)
	if err != nil {
		return content.Course{}, content.Module{}, err
	}
	m := s.editor.NewModule(c, title)
	updated, err := authoring.AppendModule(c, m)
	if err != nil {
		return content.Course{}, content.Module{}, err
	}
	if err := s.store.Put(ctx, updated); err != nil {
		return content.Course{}, content.Module{}, fmt.Errorf("add module: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionModuleUpdate, m.ID,
		fmt.Sprintf("Added module %s to course: %s", m.Title, c.Title))
	return updated, m, nil
}

// SetPublished publishes or unpublishes a course. Setting the status it
// already has changes nothing and records nothing.
func (s *Service) SetPublished(ctx context.Context, actor audit.Actor, id string, published bool) (content.Course, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return content.Course{}, err
	}
	if c.Published() == published {
		return c, nil
	}

	c.Status = content.CourseDraft
	details := "Unpublished course: " + c.Title
	if published {
		c.Status = content.CoursePublished
		details = "Published course: " + c.Title
	}
	if err := s.store.Put(ctx, c); err != nil {
		return content.Course{}, fmt.Errorf("set published: %w", err)
	}

	s.audit.Record(ctx, actor, audit.ActionCoursePublish, c.ID, details)
	return c, nil
}

// TogglePublish flips a course between draft and published.
func (s *Service) TogglePublish(ctx context.Context, actor audit.Actor, id string) (content.Course, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return content.Course{}, err
	}
	return s.SetPublished(ctx, actor, id, !c.Published())
}

// Metadata is the editable course header.
type Metadata struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     content.Category `json:"category"`
	CECredits    decimal.Decimal  `json:"ceCredits"`
	ThumbnailURL string           `json:"thumbnailUrl"`
}

// UpdateMetadata replaces the course header, leaving modules untouched.
func (s *Service) UpdateMetadata(ctx context.Context, id string, md Metadata) (content.Course, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return content.Course{}, err
	}

	c.Title = md.Title
	c.Description = md.Description
	c.Category = md.Category
	c.CECredits = md.CECredits
	c.ThumbnailURL = md.ThumbnailURL
	if err := c.Validate(); err != nil {
		return content.Course{}, err
	}
	if err := s.store.Put(ctx, c); err != nil {
		return content.Course{}, fmt.Errorf("update metadata: %w", err)
	}
	return c, nil
}

// Delete removes a course.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Seed stores courses that are not in the catalog yet. Courses already
// present are left as they are so edits survive a restart.
func (s *Service) Seed(ctx context.Context, courses []content.Course) (int, error) {
	added := 0
	for _, c := range courses {
		if err := c.Validate(); err != nil {
			return added, fmt.Errorf("seed course %s: %w", c.ID, err)
		}
		_, err := s.store.Get(ctx, c.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return added, err
		}
		if err := s.store.Put(ctx, c); err != nil {
			return added, fmt.Errorf("seed course %s: %w", c.ID, err)
		}
		added++
	}
	if added > 0 {
		slog.Info("catalog seeded", "courses", added)
	}
	return added, nil
}
