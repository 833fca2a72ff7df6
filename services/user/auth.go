package user

import (
	"context"
	"fmt"
	"time"

	userRepo "servicesync/database/repository/user"
	"servicesync/models"
	"servicesync/services/tasks"
	"servicesync/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// shiftReminderLead is how long before the shift the reminder push fires.
const shiftReminderLead = 30 * time.Minute

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	TaskQueue *asynq.Client
}

// Authenticate verifies the badge number and password, issues a JWT and
// caches its hash so tokens can be revoked server-side.
func (s *DefaultUserService) Authenticate(employeeID, password string) (*AuthResponse, error) {
	userRec, err := s.Repo.GetByEmployeeID(employeeID)
	if err != nil {
		utils.GetLogger().Error("Authenticate: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if userRec == nil {
		return nil, fmt.Errorf("invalid employee ID or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid employee ID or password")
	}

	token, err := utils.GenerateToken(userRec.ID, userRec.EmployeeID, string(userRec.Role), 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}

	ctx := context.Background()
	cacheKey := utils.AuthCachePrefix + userRec.ID
	if err := utils.GetAuthCacheClient().Set(ctx, cacheKey, utils.HashToken(token), utils.AuthCacheTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to cache auth token: %w", err)
	}

	if err := s.Repo.UpdateLastLogin(userRec.ID); err != nil {
		utils.GetLogger().Warn("Authenticate: failed to stamp last login", zap.Error(err))
	}

	s.scheduleShiftReminder(userRec)

	return &AuthResponse{Token: token, User: *userRec}, nil
}

// scheduleShiftReminder queues a push ahead of the account's next shift.
// Best effort: a missing queue, an unset shift or a bad shift format skip
// the reminder without failing the login.
func (s *DefaultUserService) scheduleShiftReminder(userRec *models.User) {
	if s.TaskQueue == nil || userRec.Shift == "" {
		return
	}
	shiftClock, err := time.Parse("15:04", userRec.Shift)
	if err != nil {
		utils.GetLogger().Warn("Authenticate: unparseable shift time",
			zap.String("shift", userRec.Shift), zap.Error(err))
		return
	}

	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(),
		shiftClock.Hour(), shiftClock.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	fireAt := next.Add(-shiftReminderLead)
	if !fireAt.After(now) {
		return
	}

	task, opts, err := tasks.NewShiftReminderTask(tasks.ShiftReminderPayload{
		UserID: userRec.ID,
		Shift:  userRec.Shift,
	}, fireAt)
	if err == nil {
		_, err = s.TaskQueue.Enqueue(task, opts...)
	}
	if err != nil {
		utils.GetLogger().Warn("Authenticate: failed to queue shift reminder", zap.Error(err))
	}
}

// GetUserByID fetches one account.
func (s *DefaultUserService) GetUserByID(id string) (*models.User, error) {
	userRec, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if userRec == nil {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return userRec, nil
}

// Register provisions a staff account with a bcrypt password hash.
func (s *DefaultUserService) Register(input RegisterInput) (*models.User, error) {
	if input.EmployeeID == "" || input.Password == "" {
		return nil, fmt.Errorf("employee ID and password are required")
	}
	existing, err := s.Repo.GetByEmployeeID(input.EmployeeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("employee ID %s already registered", input.EmployeeID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userRec := &models.User{
		ID:           uuid.New().String(),
		EmployeeID:   input.EmployeeID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		HospitalID:   input.HospitalID,
		Shift:        input.Shift,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(userRec); err != nil {
		return nil, err
	}
	return userRec, nil
}

// Logout revokes the cached token hash for the account.
func (s *DefaultUserService) Logout(userID string) error {
	ctx := context.Background()
	return utils.GetAuthCacheClient().Del(ctx, utils.AuthCachePrefix+userID).Err()
}

// UpdateFCMToken stores the device push registration token.
func (s *DefaultUserService) UpdateFCMToken(userID, token string) error {
	return s.Repo.UpdateFCMToken(userID, token)
}
