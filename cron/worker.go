package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"servicesync/config"
	sessionRepo "servicesync/database/repository/session"
	userRepo "servicesync/database/repository/user"
	"servicesync/models"
	"servicesync/services/notification"
	"servicesync/services/tasks"
	"servicesync/services/transport"
	"servicesync/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitWorker runs the async task worker in background. It owns the delayed
// session expiry sweep and shift reminder pushes.
func InitWorker(sessions sessionRepo.SessionRepository, users userRepo.UserRepository, pub *transport.Publisher) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSessionExpire, handleSessionExpire(sessions, pub))
	mux.HandleFunc(tasks.TypeShiftReminder, handleShiftReminder(users))

	go func() {
		utils.GetLogger().Info("worker: starting async task worker")
		if err := srv.Run(mux); err != nil {
			utils.GetLogger().Error("worker: failed to run", zap.Error(err))
		}
	}()
}

// handleSessionExpire closes out a delivery run left open past the shift
// window and tells the supervisor dashboards.
func handleSessionExpire(sessions sessionRepo.SessionRepository, pub *transport.Publisher) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.SessionExpirePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("session expire: bad payload: %w", err)
		}

		record, err := sessions.GetBySessionID(payload.SessionID)
		if err != nil {
			return err
		}
		if record == nil || record.Status != models.SessionActive {
			return nil
		}

		record.Status = models.SessionExpired
		if err := sessions.Update(record.SessionID, sessionRepo.SessionPatch{Status: &record.Status}); err != nil {
			return err
		}
		utils.GetLogger().Info("worker: expired stale session",
			zap.String("session", record.SessionID))

		if pub != nil {
			err := pub.PublishToRoom(ctx, transport.RoomForAdmins, models.EventSessionUpdate, models.SessionUpdateEvent{
				SessionID:   record.SessionID,
				Status:      record.Status,
				MealsServed: record.MealData.Served,
			})
			if err != nil {
				utils.GetLogger().Warn("worker: publish failed", zap.Error(err))
			}
		}
		return nil
	}
}

// handleShiftReminder pushes a heads-up to the hostess's device.
func handleShiftReminder(users userRepo.UserRepository) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.ShiftReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("shift reminder: bad payload: %w", err)
		}

		userRec, err := users.GetByID(payload.UserID)
		if err != nil {
			return err
		}
		if userRec == nil || userRec.FCMToken == "" {
			return nil
		}

		notifier := notification.NewFCMNotifier(utils.FCMClient, userRec.FCMToken, utils.GetLogger())
		notifier.Notify("Shift Reminder",
			fmt.Sprintf("Your %s shift starts soon. Check in at the kitchen to begin.", payload.Shift))
		return nil
	}
}
