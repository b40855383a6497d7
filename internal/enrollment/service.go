package enrollment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/p-n-ai/pai-lms/internal/audit"
	"github.com/p-n-ai/pai-lms/internal/content"
	"github.com/p-n-ai/pai-lms/internal/grading"
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Store Store
	Audit audit.Recorder
	Now   func() time.Time // default time.Now
	NewID func() string    // default uuid.NewString
}

// Service persists enrollment transitions and reports each state change
// to the audit recorder exactly once.
type Service struct {
	store Store
	audit audit.Recorder
	now   func() time.Time
	newID func() string
}

// NewService creates an enrollment service. A nil store falls back to an
// in-memory one; a nil recorder discards audit calls.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		store: cfg.Store,
		audit: cfg.Audit,
		now:   cfg.Now,
		newID: cfg.NewID,
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if s.audit == nil {
		s.audit = audit.NopRecorder{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Enroll starts the user in the course. If the user is already enrolled
// the existing enrollment is returned with false and nothing is recorded.
func (s *Service) Enroll(ctx context.Context, actor audit.Actor, userID, courseID string) (Enrollment, bool, error) {
	if userID == "" || courseID == "" {
		return Enrollment{}, false, fmt.Errorf("user and course are required")
	}

	now := s.now().UTC()
	e, err := New(s.newID(), userID, courseID, now).Start(now)
	if err != nil {
		return Enrollment{}, false, err
	}

	stored, created, err := s.store.Create(ctx, e)
	if err != nil {
		return Enrollment{}, false, fmt.Errorf("enroll: %w", err)
	}
	if !created {
		return stored, false, nil
	}

	details := "Self-enrolled"
	if actor.ID != userID {
		details = fmt.Sprintf("Enrolled by %s", actor.Name)
	}
	s.audit.Record(ctx, actor, audit.ActionEnrollment, courseID, details)
	slog.Info("enrollment created", "enrollment_id", stored.ID, "user_id", userID, "course_id", courseID)
	return stored, true, nil
}

// Get returns an enrollment by ID.
func (s *Service) Get(ctx context.Context, id string) (Enrollment, error) {
	return s.store.Get(ctx, id)
}

// List returns enrollments matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Enrollment, error) {
	return s.store.List(ctx, f)
}

// Touch records that the learner opened the course.
func (s *Service) Touch(ctx context.Context, id string) (Enrollment, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	e = e.Touch(s.now().UTC())
	if err := s.store.Update(ctx, e); err != nil {
		return Enrollment{}, fmt.Errorf("touch: %w", err)
	}
	return e, nil
}

// SubmitAttempt grades answers for a module of the enrolled course.
//
// The submission is rejected before grading if the enrollment is not in
// progress, the module belongs to another course, or a question lacks a
// qualifying answer. A failing result is returned without changing the
// enrollment; the learner may retry any number of times.
func (s *Service) SubmitAttempt(ctx context.Context, actor audit.Actor, id string, m content.Module, answers grading.Answers) (Enrollment, grading.Result, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Enrollment{}, grading.Result{}, err
	}
	if e.Status != StatusInProgress {
		return e, grading.Result{}, fmt.Errorf("%w: enrollment %s is %s", ErrInvalidTransition, id, e.Status)
	}
	if m.CourseID != e.CourseID {
		return e, grading.Result{}, fmt.Errorf("%w: module %s is in course %s, enrollment is in %s", ErrModuleMismatch, m.ID, m.CourseID, e.CourseID)
	}
	if err := grading.CheckSubmission(m, answers); err != nil {
		return e, grading.Result{}, err
	}

	res := grading.Grade(m, answers)
	next, changed, err := e.ApplyResult(res, answers, s.now().UTC())
	if err != nil {
		return e, res, err
	}
	if !changed {
		slog.Info("attempt failed", "enrollment_id", id, "module_id", m.ID, "score", res.Score)
		return e, res, nil
	}

	if err := s.store.Update(ctx, next); err != nil {
		return e, res, fmt.Errorf("submit attempt: %w", err)
	}

	details := fmt.Sprintf("Passed %q with %d%%", m.Title, res.Score)
	if res.NeedsReview {
		details = fmt.Sprintf("Submitted %q for review", m.Title)
	}
	s.audit.Record(ctx, actor, audit.ActionGradeEntry, m.ID, details)
	slog.Info("attempt graded",
		"enrollment_id", id,
		"module_id", m.ID,
		"score", res.Score,
		"status", next.Status,
	)
	return next, res, nil
}

// ManualReview approves a submission awaiting review. Approving an
// enrollment that is already completed returns it unchanged and records
// nothing.
func (s *Service) ManualReview(ctx context.Context, reviewer audit.Actor, id string, d Decision) (Enrollment, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}

	next, changed, err := e.Approve(d, s.now().UTC())
	if err != nil {
		return e, err
	}
	if !changed {
		return e, nil
	}

	if err := s.store.Update(ctx, next); err != nil {
		return e, fmt.Errorf("manual review: %w", err)
	}

	details := fmt.Sprintf("Approved submission for enrollment %s", id)
	if d.Comment != "" {
		details += ": " + d.Comment
	}
	s.audit.Record(ctx, reviewer, audit.ActionManualGrade, e.CourseID, details)
	slog.Info("submission approved", "enrollment_id", id, "reviewer_id", reviewer.ID)
	return next, nil
}

// AttemptModule picks the module an attempt is graded against. An empty
// moduleID selects the course's first module.
func AttemptModule(c content.Course, moduleID string) (content.Module, error) {
	if len(c.Modules) == 0 {
		return content.Module{}, fmt.Errorf("%w: %s", ErrUngradable, c.ID)
	}
	if moduleID == "" {
		return c.Modules[0], nil
	}
	m, _, ok := c.Module(moduleID)
	if !ok {
		return content.Module{}, fmt.Errorf("%w: module %s not in course %s", ErrModuleMismatch, moduleID, c.ID)
	}
	return m, nil
}
