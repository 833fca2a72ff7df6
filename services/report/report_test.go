package report

import (
	"context"
	"testing"
	"time"

	sessionRepo "servicesync/database/repository/session"
	"servicesync/models"
)

type stubSessionRepo struct {
	sessions []models.SessionRecord
}

func (r *stubSessionRepo) Create(*models.SessionRecord) error { return nil }
func (r *stubSessionRepo) GetBySessionID(string) (*models.SessionRecord, error) {
	return nil, nil
}
func (r *stubSessionRepo) Update(string, sessionRepo.SessionPatch) error { return nil }
func (r *stubSessionRepo) SetTimestamp(string, models.TimestampKey, time.Time) error {
	return nil
}
func (r *stubSessionRepo) ListByDay(time.Time) ([]models.SessionRecord, error) {
	return r.sessions, nil
}
func (r *stubSessionRepo) ExpireOlderThan(time.Time) ([]models.SessionRecord, error) {
	return nil, nil
}

func completedSession(total, response time.Duration, served int) models.SessionRecord {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return models.SessionRecord{
		Status: models.SessionCompleted,
		Timestamps: map[models.TimestampKey]time.Time{
			models.TSKitchenExit:     base,
			models.TSNurseAlerted:    base.Add(2 * time.Minute),
			models.TSNurseResponse:   base.Add(2*time.Minute + response),
			models.TSServiceComplete: base.Add(total),
		},
		MealData: models.MealData{Count: served, Served: served},
	}
}

func TestDashboardAggregates(t *testing.T) {
	repo := &stubSessionRepo{sessions: []models.SessionRecord{
		completedSession(20*time.Minute, time.Minute, 10),
		completedSession(30*time.Minute, 3*time.Minute, 8),
		{Status: models.SessionActive, MealData: models.MealData{Count: 12, Served: 4}},
		{Status: models.SessionExpired, MealData: models.MealData{Count: 6}},
	}}
	svc := &DefaultReportService{Repo: repo}

	report, err := svc.Dashboard(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if report.TotalSessions != 4 {
		t.Fatalf("total = %d", report.TotalSessions)
	}
	if report.CompletedSessions != 2 || report.ActiveSessions != 1 || report.ExpiredSessions != 1 {
		t.Fatalf("status counts = %d/%d/%d", report.CompletedSessions, report.ActiveSessions, report.ExpiredSessions)
	}
	if report.MealsServed != 22 {
		t.Fatalf("meals served = %d, want 22", report.MealsServed)
	}
	if report.AvgTotalDuration != 25*time.Minute {
		t.Fatalf("avg duration = %v, want 25m", report.AvgTotalDuration)
	}
	if report.AvgNurseResponse != 2*time.Minute {
		t.Fatalf("avg nurse response = %v, want 2m", report.AvgNurseResponse)
	}
}

func TestDashboardEmptyDay(t *testing.T) {
	svc := &DefaultReportService{Repo: &stubSessionRepo{}}
	report, err := svc.Dashboard(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if report.TotalSessions != 0 || report.AvgTotalDuration != 0 {
		t.Fatalf("empty day report = %+v", report)
	}
}
