// Package report builds supervisor-facing aggregates over the day's
// delivery sessions.
package report

import (
	"context"
	"time"

	sessionRepo "servicesync/database/repository/session"
	"servicesync/models"
)

// ReportService assembles dashboard aggregates.
type ReportService interface {
	Dashboard(ctx context.Context, day time.Time) (*models.DashboardReport, error)
}

// DefaultReportService is the production implementation.
type DefaultReportService struct {
	Repo sessionRepo.SessionRepository
}

// Dashboard aggregates every session whose shift started on the given day.
func (s *DefaultReportService) Dashboard(ctx context.Context, day time.Time) (*models.DashboardReport, error) {
	sessions, err := s.Repo.ListByDay(day)
	if err != nil {
		return nil, err
	}

	out := &models.DashboardReport{Date: day}
	var (
		totalDuration time.Duration
		durationCount int
		totalResponse time.Duration
		responseCount int
	)

	for _, sess := range sessions {
		out.TotalSessions++
		switch sess.Status {
		case models.SessionActive:
			out.ActiveSessions++
		case models.SessionCompleted:
			out.CompletedSessions++
		case models.SessionExpired:
			out.ExpiredSessions++
		}
		out.MealsServed += sess.MealData.Served

		perf := sess.DerivePerformance()
		if perf.TotalDuration > 0 {
			totalDuration += perf.TotalDuration
			durationCount++
		}
		if perf.NurseResponseTime > 0 {
			totalResponse += perf.NurseResponseTime
			responseCount++
		}
	}

	if durationCount > 0 {
		out.AvgTotalDuration = totalDuration / time.Duration(durationCount)
	}
	if responseCount > 0 {
		out.AvgNurseResponse = totalResponse / time.Duration(responseCount)
	}
	return out, nil
}
