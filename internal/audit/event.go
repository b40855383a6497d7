// Package audit records who changed what. Callers report actions through a
// Recorder, which never fails; events land in an append-only Store and/or
// the structured log.
package audit

import (
	"context"
	"errors"
	"time"
)

// Action classifies an audit event.
type Action string

const (
	ActionUserLogin     Action = "user_login"
	ActionEnrollment    Action = "enrollment"
	ActionGradeEntry    Action = "grade_entry"
	ActionManualGrade   Action = "manual_grade"
	ActionModuleUpdate  Action = "module_update"
	ActionCoursePublish Action = "course_publish"
)

// Actions lists every action kind.
var Actions = []Action{
	ActionUserLogin,
	ActionEnrollment,
	ActionGradeEntry,
	ActionManualGrade,
	ActionModuleUpdate,
	ActionCoursePublish,
}

// Actor identifies who performed an action.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// System is the actor for changes made by the process itself, such as
// seeding the catalog.
var System = Actor{ID: "system", Name: "System"}

// Event is one audit record.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actorId"`
	ActorName string    `json:"actorName"`
	Action    Action    `json:"action"`
	TargetID  string    `json:"targetId"`
	Details   string    `json:"details"`
}

// Recorder receives audit calls. Record is fire-and-forget: failures are
// handled by the implementation and never reach the caller.
type Recorder interface {
	Record(ctx context.Context, actor Actor, action Action, targetID, details string)
}

// NopRecorder discards every call.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Actor, Action, string, string) {}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Action   Action
	ActorID  string
	TargetID string
	Limit    int
}

func (f Filter) match(e Event) bool {
	return (f.Action == "" || e.Action == f.Action) &&
		(f.ActorID == "" || e.ActorID == f.ActorID) &&
		(f.TargetID == "" || e.TargetID == f.TargetID)
}

// Store is an append-only audit log.
type Store interface {
	Append(ctx context.Context, e Event) error
	// List returns matching events, newest first.
	List(ctx context.Context, f Filter) ([]Event, error)
}

var errMissingAction = errors.New("audit event action is required")
