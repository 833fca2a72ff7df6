package models

import "time"

// NotificationType categorizes a user-facing alert.
type NotificationType string

const (
	NotifNurseAlert    NotificationType = "nurse_alert"
	NotifEmergency     NotificationType = "emergency"
	NotifSessionUpdate NotificationType = "session_update"
	NotifSystem        NotificationType = "system"
)

// Priority is the severity tier controlling visual treatment and the
// auto-dismiss behavior of a notification.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Notification is one entry in the dispatcher's bounded history. Only the
// Read flag mutates after creation.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Priority  Priority         `json:"priority"`
	Read      bool             `json:"read"`
	Data      any              `json:"data,omitempty"`
}

// Role is the participant category used to filter which events become
// visible notifications.
type Role string

const (
	RoleHostess Role = "hostess"
	RoleNurse   Role = "nurse"
	RoleAdmin   Role = "admin"
)
