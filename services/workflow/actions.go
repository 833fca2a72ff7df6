package workflow

import (
	"time"

	"servicesync/models"
)

// Action is one member of the closed workflow action set.
type Action interface {
	isAction()
}

// SetStep replaces the current step. The container itself stays permissive;
// callers pick a legal next step via models.NextSteps.
type SetStep struct {
	Step models.WorkflowStep
}

// UpdateSession shallow-merges the provided fields into the session record.
type UpdateSession struct {
	Patch SessionPatch
}

// AddTimestamp records a ledger milestone. A key already set is rejected;
// the ledger only ever gains keys.
type AddTimestamp struct {
	Key models.TimestampKey
	At  time.Time
}

// UpdateMealData shallow-merges the provided fields into the meal data.
type UpdateMealData struct {
	Patch MealPatch
}

// SetLoading toggles the UI-facing loading flag.
type SetLoading struct {
	Loading bool
}

// SetError replaces the UI-facing error string; empty clears it.
type SetError struct {
	Err string
}

// ResetSession replaces the whole state with the canonical initial state.
// Fresh session ID generation is the caller's responsibility.
type ResetSession struct{}

func (SetStep) isAction()        {}
func (UpdateSession) isAction()  {}
func (AddTimestamp) isAction()   {}
func (UpdateMealData) isAction() {}
func (SetLoading) isAction()     {}
func (SetError) isAction()       {}
func (ResetSession) isAction()   {}

// SessionPatch carries optional replacements for top-level session fields.
type SessionPatch struct {
	SessionID     *string
	HostessID     *string
	HostessName   *string
	HospitalID    *string
	WardID        *string
	Status        *string
	ShiftTime     *time.Time
	Documentation *models.Documentation
	NurseInfo     *models.NurseInfo
}

func (p SessionPatch) apply(s *models.SessionRecord) {
	if p.SessionID != nil {
		s.SessionID = *p.SessionID
	}
	if p.HostessID != nil {
		s.HostessID = *p.HostessID
	}
	if p.HostessName != nil {
		s.HostessName = *p.HostessName
	}
	if p.HospitalID != nil {
		s.HospitalID = *p.HospitalID
	}
	if p.WardID != nil {
		s.WardID = *p.WardID
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.ShiftTime != nil {
		s.ShiftTime = *p.ShiftTime
	}
	if p.Documentation != nil {
		s.Documentation = *p.Documentation
	}
	if p.NurseInfo != nil {
		ni := *p.NurseInfo
		s.NurseInfo = &ni
	}
}

// MealPatch carries optional replacements for meal data fields.
type MealPatch struct {
	Type   *models.MealType
	Count  *int
	Served *int
}

func (p MealPatch) apply(m *models.MealData) {
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Count != nil {
		m.Count = *p.Count
	}
	if p.Served != nil {
		m.Served = *p.Served
	}
}
