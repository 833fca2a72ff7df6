package models

import "time"

// DashboardReport aggregates today's delivery activity for supervisors.
type DashboardReport struct {
	Date              time.Time     `json:"date"`
	TotalSessions     int           `json:"totalSessions"`
	ActiveSessions    int           `json:"activeSessions"`
	CompletedSessions int           `json:"completedSessions"`
	ExpiredSessions   int           `json:"expiredSessions"`
	MealsServed       int           `json:"mealsServed"`
	AvgTotalDuration  time.Duration `json:"avgTotalDuration"`
	AvgNurseResponse  time.Duration `json:"avgNurseResponse"`
}
