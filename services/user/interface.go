package user

import (
	"servicesync/models"
)

// AuthResponse is returned on a successful login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UserService manages staff accounts and their credential tokens.
type UserService interface {
	Authenticate(employeeID, password string) (*AuthResponse, error)
	GetUserByID(id string) (*models.User, error)
	Register(input RegisterInput) (*models.User, error)
	Logout(userID string) error
	UpdateFCMToken(userID, token string) error
}

// RegisterInput is the payload for provisioning a staff account.
type RegisterInput struct {
	EmployeeID string      `json:"employeeId"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Role       models.Role `json:"role"`
	HospitalID string      `json:"hospitalId"`
	Shift      string      `json:"shift"`
	Password   string      `json:"password"`
}
