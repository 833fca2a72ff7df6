// Package session implements the remote API surface the field clients call:
// session creation, QR scan confirmation, nurse alerts, diet-sheet capture
// and completion. Milestones are persisted and then fanned out to the
// addressed realtime rooms.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	sessionRepo "servicesync/database/repository/session"
	userRepo "servicesync/database/repository/user"
	"servicesync/models"
	"servicesync/services/tasks"
	"servicesync/services/transport"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DefaultSessionService is the production implementation.
type DefaultSessionService struct {
	Repo      sessionRepo.SessionRepository
	Users     userRepo.UserRepository
	Publisher *transport.Publisher
	TaskQueue *asynq.Client
	ExpiryAge time.Duration
	Log       *zap.Logger
}

func (s *DefaultSessionService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// CreateSession opens a delivery run, persists it and announces it to
// supervisors. A stale-session expiry task is queued alongside.
func (s *DefaultSessionService) CreateSession(ctx context.Context, input CreateInput) (*models.SessionRecord, error) {
	if input.WardID == "" || input.MealCount <= 0 {
		return nil, fmt.Errorf("session requires a ward and a positive meal count")
	}

	hostess, err := s.Users.GetByID(input.HostessID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up hostess: %w", err)
	}
	if hostess == nil {
		return nil, fmt.Errorf("hostess %s not found", input.HostessID)
	}

	record := &models.SessionRecord{
		SessionID:   uuid.New().String(),
		HostessID:   hostess.ID,
		HostessName: hostess.FullName(),
		HospitalID:  input.HospitalID,
		WardID:      input.WardID,
		Status:      models.SessionActive,
		ShiftTime:   time.Now(),
		Timestamps:  map[models.TimestampKey]time.Time{},
		MealData: models.MealData{
			Type:  input.MealType,
			Count: input.MealCount,
		},
	}

	if err := s.Repo.Create(record); err != nil {
		return nil, err
	}

	s.publish(ctx, transport.RoomForAdmins, models.EventSessionStarted, models.SessionStartedEvent{
		HostessID: record.HostessID,
		WardID:    record.WardID,
	})

	s.enqueueExpiry(record)
	return record, nil
}

func (s *DefaultSessionService) enqueueExpiry(record *models.SessionRecord) {
	if s.TaskQueue == nil {
		return
	}
	age := s.ExpiryAge
	if age <= 0 {
		age = 3 * time.Hour
	}
	task, opts, err := tasks.NewSessionExpireTask(record.SessionID, record.ShiftTime.Add(age))
	if err == nil {
		_, err = s.TaskQueue.Enqueue(task, opts...)
	}
	if err != nil {
		s.logger().Warn("session: failed to queue expiry task",
			zap.String("session", record.SessionID), zap.Error(err))
	}
}

// GetSession returns one session by its public ID.
func (s *DefaultSessionService) GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	record, err := s.Repo.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return record, nil
}

// UpdateSession applies client-side progress: meals served, documentation
// and lifecycle status. Completion stamps the final ledger entry and
// announces the finished run.
func (s *DefaultSessionService) UpdateSession(ctx context.Context, sessionID string, input UpdateInput) (*models.SessionRecord, error) {
	record, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var patch sessionRepo.SessionPatch
	if input.MealsServed != nil {
		served := *input.MealsServed
		if served < 0 || served > record.MealData.Count {
			return nil, fmt.Errorf("served count %d out of range (0..%d)", served, record.MealData.Count)
		}
		record.MealData.Served = served
		patch.MealsServed = input.MealsServed
	}
	if input.Comments != nil {
		record.Documentation.Comments = *input.Comments
		patch.Comments = input.Comments
	}
	if input.AdditionalNotes != nil {
		record.Documentation.AdditionalNotes = *input.AdditionalNotes
		patch.AdditionalNotes = input.AdditionalNotes
	}

	completing := false
	if input.Status != nil {
		switch *input.Status {
		case models.SessionActive, models.SessionCompleted, models.SessionExpired:
		default:
			return nil, fmt.Errorf("unknown session status %q", *input.Status)
		}
		completing = *input.Status == models.SessionCompleted && record.Status != models.SessionCompleted
		record.Status = *input.Status
		patch.Status = input.Status
	}

	if completing {
		if _, set := record.Timestamps[models.TSServiceComplete]; !set {
			now := time.Now()
			// The ledger moves only through the guarded SetTimestamp path;
			// a concurrent completion stamp just wins the race.
			if err := s.Repo.SetTimestamp(sessionID, models.TSServiceComplete, now); err != nil {
				s.logger().Warn("session: completion stamp skipped",
					zap.String("session", sessionID), zap.Error(err))
			} else {
				record.Timestamps[models.TSServiceComplete] = now
			}
		}
		perf := record.DerivePerformance()
		record.Performance = perf
		patch.Performance = &perf
	}

	if err := s.Repo.Update(sessionID, patch); err != nil {
		return nil, err
	}

	if completing {
		s.publish(ctx, transport.RoomForAdmins, models.EventSessionCompleted, models.SessionCompletedEvent{
			HostessID: record.HostessID,
			Duration:  record.Performance.TotalDuration,
		})
	}
	s.publish(ctx, transport.RoomForAdmins, models.EventSessionUpdate, models.SessionUpdateEvent{
		SessionID:   record.SessionID,
		Status:      record.Status,
		MealsServed: record.MealData.Served,
	})

	return record, nil
}

// RecordScan confirms a QR scan, stamps the matching ledger milestone and
// reports the hostess position to supervisors.
func (s *DefaultSessionService) RecordScan(ctx context.Context, sessionID, qrCode string) (*ScanResult, error) {
	record, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var (
		key      models.TimestampKey
		location ScanLocation
		position string
	)
	switch {
	case strings.HasPrefix(qrCode, "KITCHEN_"):
		key = models.TSKitchenExit
		location = ScanLocation{Type: "kitchen", Name: strings.TrimPrefix(qrCode, "KITCHEN_")}
		position = "kitchen_exit"
	case strings.HasPrefix(qrCode, "WARD_"):
		key = models.TSWardArrival
		location = ScanLocation{Type: "ward", Name: strings.TrimPrefix(qrCode, "WARD_")}
		position = "ward_arrival"
	default:
		return nil, fmt.Errorf("unrecognized QR code %q", qrCode)
	}

	now := time.Now()
	if err := s.Repo.SetTimestamp(sessionID, key, now); err != nil {
		return nil, err
	}

	s.publish(ctx, transport.RoomForAdmins, models.EventHostessLocation, models.HostessLocationEvent{
		HostessID: record.HostessID,
		SessionID: sessionID,
		Location:  position,
		Timestamp: now,
	})

	return &ScanResult{Location: location, Timestamp: now}, nil
}

// SendNurseAlert stamps the alert milestone and notifies the ward's staff
// that meals are ready for handover.
func (s *DefaultSessionService) SendNurseAlert(ctx context.Context, sessionID string) error {
	record, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.Repo.SetTimestamp(sessionID, models.TSNurseAlerted, time.Now()); err != nil {
		return err
	}

	s.publish(ctx, transport.RoomForWard(record.WardID), models.EventNurseAlert, models.NurseAlertEvent{
		MealCount:   record.MealData.Count,
		MealType:    record.MealData.Type,
		WardID:      record.WardID,
		HostessName: record.HostessName,
		WardName:    record.WardID,
	})
	return nil
}

// RecordNurseResponse stamps the acknowledgement and tells the hostess a
// nurse is ready to receive meals.
func (s *DefaultSessionService) RecordNurseResponse(ctx context.Context, sessionID, nurseID string) error {
	record, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := s.Repo.SetTimestamp(sessionID, models.TSNurseResponse, now); err != nil {
		return err
	}

	responseTime := time.Duration(0)
	if alerted, ok := record.Timestamps[models.TSNurseAlerted]; ok {
		responseTime = now.Sub(alerted)
	}
	record.NurseInfo = &models.NurseInfo{Name: nurseID, ResponseTime: responseTime}
	if err := s.Repo.Update(sessionID, sessionRepo.SessionPatch{NurseInfo: record.NurseInfo}); err != nil {
		return err
	}

	s.publish(ctx, transport.RoomForUser(record.HostessID), models.EventNurseResponse, models.NurseResponseEvent{
		NurseID: nurseID,
	})
	return nil
}

// AttachDietSheet stores the captured sheet reference on the session.
func (s *DefaultSessionService) AttachDietSheet(ctx context.Context, sessionID, photoID string) (*models.SessionRecord, error) {
	record, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.Repo.SetTimestamp(sessionID, models.TSDietSheetCaptured, now); err != nil {
		return nil, err
	}
	record.Documentation.DietSheetPhoto = photoID
	record.Timestamps[models.TSDietSheetCaptured] = now
	if err := s.Repo.Update(sessionID, sessionRepo.SessionPatch{DietSheetPhoto: &photoID}); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *DefaultSessionService) publish(ctx context.Context, room, event string, payload any) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishToRoom(ctx, room, event, payload); err != nil {
		s.logger().Warn("session: realtime publish failed",
			zap.String("event", event), zap.String("room", room), zap.Error(err))
	}
}
