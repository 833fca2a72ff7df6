package sessionRepo

import (
	"time"

	"servicesync/models"
)

// SessionPatch names the mutable fields of a stored session. Updates only
// ever touch the fields set here; the timestamp ledger moves exclusively
// through SetTimestamp, so a concurrent milestone can never be overwritten
// by a stale snapshot.
type SessionPatch struct {
	MealsServed     *int
	Comments        *string
	AdditionalNotes *string
	Status          *string
	DietSheetPhoto  *string
	NurseInfo       *models.NurseInfo
	Performance     *models.Performance
}

// SessionRepository is the persistence port for delivery sessions.
type SessionRepository interface {
	Create(session *models.SessionRecord) error
	GetBySessionID(sessionID string) (*models.SessionRecord, error)
	Update(sessionID string, patch SessionPatch) error
	SetTimestamp(sessionID string, key models.TimestampKey, at time.Time) error
	ListByDay(day time.Time) ([]models.SessionRecord, error)
	ExpireOlderThan(cutoff time.Time) ([]models.SessionRecord, error)
}
