package models

import "time"

// Transport event names. These are the inbound event set of the realtime
// channel and the names used on the process-wide event bus.
const (
	EventNurseAlert       = "nurseAlert"
	EventEmergencyAlert   = "emergencyAlert"
	EventSessionStarted   = "sessionStarted"
	EventSessionCompleted = "sessionCompleted"
	EventNurseResponse    = "nurseResponse"
	EventHostessLocation  = "hostessLocation"
	EventSessionUpdate    = "sessionUpdate"
)

// NurseAlertEvent tells ward staff that meals are ready for handover.
type NurseAlertEvent struct {
	MealCount   int      `json:"mealCount"`
	MealType    MealType `json:"mealType"`
	WardID      string   `json:"wardId"`
	HostessName string   `json:"hostessName"`
	WardName    string   `json:"wardName"`
}

// EmergencyAlertEvent is broadcast to every participant regardless of role.
type EmergencyAlertEvent struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// SessionStartedEvent announces a new delivery run.
type SessionStartedEvent struct {
	HostessID string `json:"hostessId"`
	WardID    string `json:"wardId"`
}

// SessionCompletedEvent announces a finished delivery run.
type SessionCompletedEvent struct {
	HostessID string        `json:"hostessId"`
	Duration  time.Duration `json:"duration"`
}

// NurseResponseEvent tells the hostess a nurse acknowledged the alert.
type NurseResponseEvent struct {
	NurseID string `json:"nurseId"`
}

// HostessLocationEvent reports a hostess position change to supervisors.
type HostessLocationEvent struct {
	HostessID string    `json:"hostessId"`
	SessionID string    `json:"sessionId"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionUpdateEvent carries incremental session state for dashboards.
type SessionUpdateEvent struct {
	SessionID   string `json:"sessionId"`
	Status      string `json:"status"`
	MealsServed int    `json:"mealsServed"`
}
