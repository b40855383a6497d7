// Package enrollment tracks a learner's relationship to a course and moves
// it through its status lifecycle:
//
//	not_started → in_progress → completed
//	                          → needs_review → completed
//
// Transitions never move backward.
package enrollment

import (
	"errors"
	"fmt"
	"time"

	"github.com/p-n-ai/pai-lms/internal/grading"
)

// MaxScore is recorded when a reviewer approves a submission.
const MaxScore = 100

var (
	ErrNotFound          = errors.New("enrollment not found")
	ErrInvalidTransition = errors.New("invalid enrollment transition")
	ErrModuleMismatch    = errors.New("module does not belong to the enrolled course")
	ErrUngradable        = errors.New("course has no modules to grade")
)

// Status is the lifecycle state of an enrollment.
type Status string

const (
	StatusNotStarted  Status = "not_started"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusNeedsReview Status = "needs_review"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusNeedsReview:
		return true
	}
	return false
}

// Enrollment is one learner's enrollment in one course.
type Enrollment struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	CourseID       string          `json:"courseId"`
	Progress       int             `json:"progress"`
	Status         Status          `json:"status"`
	EnrolledAt     time.Time       `json:"enrolledAt"`
	LastAccessedAt time.Time       `json:"lastAccessedAt"`
	Score          *int            `json:"score,omitempty"`
	QuizAnswers    grading.Answers `json:"quizAnswers,omitempty"`
}

// New returns a not-started enrollment.
func New(id, userID, courseID string, now time.Time) Enrollment {
	return Enrollment{
		ID:             id,
		UserID:         userID,
		CourseID:       courseID,
		Status:         StatusNotStarted,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}
}

// Clone returns a deep copy of the enrollment.
func (e Enrollment) Clone() Enrollment {
	out := e
	if e.Score != nil {
		s := *e.Score
		out.Score = &s
	}
	if e.QuizAnswers != nil {
		out.QuizAnswers = make(grading.Answers, len(e.QuizAnswers))
		for k, v := range e.QuizAnswers {
			slots := make([]grading.Answer, len(v))
			for i, a := range v {
				if m, ok := a.(grading.Matches); ok {
					a = append(grading.Matches(nil), m...)
				}
				slots[i] = a
			}
			out.QuizAnswers[k] = slots
		}
	}
	return out
}

// Start moves a not-started enrollment to in_progress.
func (e Enrollment) Start(now time.Time) (Enrollment, error) {
	if e.Status != StatusNotStarted {
		return e, fmt.Errorf("%w: start from %s", ErrInvalidTransition, e.Status)
	}
	out := e.Clone()
	out.Status = StatusInProgress
	out.Progress = 0
	out.LastAccessedAt = now
	return out, nil
}

// ApplyResult applies a graded submission to an in-progress enrollment.
// A result needing review moves it to needs_review, a passing result to
// completed. A failing result changes nothing and reports false so the
// learner can retry.
func (e Enrollment) ApplyResult(r grading.Result, answers grading.Answers, now time.Time) (Enrollment, bool, error) {
	if e.Status != StatusInProgress {
		return e, false, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, e.Status)
	}

	var next Status
	switch {
	case r.NeedsReview:
		next = StatusNeedsReview
	case r.Passed:
		next = StatusCompleted
	default:
		return e, false, nil
	}

	out := e.Clone()
	score := r.Score
	out.Status = next
	out.Progress = 100
	out.Score = &score
	out.QuizAnswers = answers
	out.LastAccessedAt = now
	return out.Clone(), true, nil
}

// Decision is a reviewer's ruling on a submission awaiting review.
// Approval is the only outcome and always records MaxScore.
type Decision struct {
	Comment string `json:"comment,omitempty"`
}

// Approve completes an enrollment awaiting review. Approving an already
// completed enrollment is a no-op and reports false.
func (e Enrollment) Approve(_ Decision, now time.Time) (Enrollment, bool, error) {
	switch e.Status {
	case StatusCompleted:
		return e, false, nil
	case StatusNeedsReview:
		out := e.Clone()
		score := MaxScore
		out.Status = StatusCompleted
		out.Score = &score
		out.LastAccessedAt = now
		return out, true, nil
	default:
		return e, false, fmt.Errorf("%w: approve from %s", ErrInvalidTransition, e.Status)
	}
}

// Touch records that the learner opened the course.
func (e Enrollment) Touch(now time.Time) Enrollment {
	out := e.Clone()
	out.LastAccessedAt = now
	return out
}
