package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mode selects where audit events go.
type Mode string

const (
	ModeAll Mode = "all" // store and log
	ModeDB  Mode = "db"  // store only
	ModeLog Mode = "log" // log only
	ModeOff Mode = "off"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return m, nil
	default:
		return "", fmt.Errorf("unknown audit mode %q", s)
	}
}

// Logger is the Recorder used by the application. It appends events to a
// Store and mirrors them to zap according to its Mode.
type Logger struct {
	store Store
	log   *zap.Logger
	mode  Mode
	now   func() time.Time
	newID func() string
}

// NewLogger creates an audit Logger. A nil zap logger disables the log
// mirror; a nil store disables persistence.
func NewLogger(store Store, log *zap.Logger, mode Mode) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{
		store: store,
		log:   log,
		mode:  mode,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Record writes one event. Store failures are logged and dropped.
// A nil Logger is a no-op.
func (l *Logger) Record(ctx context.Context, actor Actor, action Action, targetID, details string) {
	if l == nil || l.mode == ModeOff {
		return
	}

	e := Event{
		ID:        l.newID(),
		Timestamp: l.now().UTC(),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    action,
		TargetID:  targetID,
		Details:   details,
	}

	if l.mode == ModeAll || l.mode == ModeLog {
		l.log.Info("audit event",
			zap.Bool("audit", true),
			zap.String("event_id", e.ID),
			zap.String("action", string(e.Action)),
			zap.String("actor_id", e.ActorID),
			zap.String("actor_name", e.ActorName),
			zap.String("target_id", e.TargetID),
			zap.String("details", e.Details),
		)
	}

	if (l.mode == ModeAll || l.mode == ModeDB) && l.store != nil {
		if err := l.store.Append(ctx, e); err != nil {
			l.log.Error("failed to store audit event",
				zap.Error(err),
				zap.String("action", string(e.Action)),
				zap.String("target_id", e.TargetID),
			)
		}
	}
}
