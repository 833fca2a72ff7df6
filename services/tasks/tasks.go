package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeSessionExpire closes out delivery runs left open past the shift
	// window.
	TypeSessionExpire = "session:expire"
	// TypeShiftReminder pushes a heads-up to a hostess before a shift.
	TypeShiftReminder = "reminder:shift"
)

// SessionExpirePayload identifies the session to expire.
type SessionExpirePayload struct {
	SessionID string `json:"sessionId"`
}

// ShiftReminderPayload identifies the account to remind.
type ShiftReminderPayload struct {
	UserID string `json:"userId"`
	Shift  string `json:"shift"`
}

// NewSessionExpireTask builds the delayed expiry task for a session.
func NewSessionExpireTask(sessionID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(SessionExpirePayload{SessionID: sessionID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionExpire, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// NewShiftReminderTask builds the delayed reminder task for a user.
func NewShiftReminderTask(payload ShiftReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeShiftReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
