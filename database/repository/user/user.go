package userRepo

import "servicesync/models"

// UserRepository is the persistence port for staff accounts.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmployeeID(employeeID string) (*models.User, error)
	UpdateLastLogin(id string) error
	UpdateFCMToken(id, token string) error
}
