package session

import (
	"context"
	"time"

	"servicesync/models"
)

// CreateInput is the payload for starting a delivery session.
type CreateInput struct {
	HostessID  string          `json:"hostessId"`
	HospitalID string          `json:"hospitalId"`
	WardID     string          `json:"wardId"`
	MealType   models.MealType `json:"mealType"`
	MealCount  int             `json:"mealCount"`
}

// UpdateInput carries the mutable fields of an in-flight session.
type UpdateInput struct {
	MealsServed     *int    `json:"mealsServed,omitempty"`
	Comments        *string `json:"comments,omitempty"`
	AdditionalNotes *string `json:"additionalNotes,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// ScanLocation describes what a QR code resolved to.
type ScanLocation struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ScanResult is the outcome of a confirmed QR scan.
type ScanResult struct {
	Location  ScanLocation `json:"location"`
	Timestamp time.Time    `json:"timestamp"`
}

// SessionService manages the server-side life of delivery sessions and
// fans session milestones out over the realtime transport.
type SessionService interface {
	CreateSession(ctx context.Context, input CreateInput) (*models.SessionRecord, error)
	GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error)
	UpdateSession(ctx context.Context, sessionID string, input UpdateInput) (*models.SessionRecord, error)
	RecordScan(ctx context.Context, sessionID, qrCode string) (*ScanResult, error)
	SendNurseAlert(ctx context.Context, sessionID string) error
	RecordNurseResponse(ctx context.Context, sessionID, nurseID string) error
	AttachDietSheet(ctx context.Context, sessionID, photoID string) (*models.SessionRecord, error)
}
