package models

import "time"

// User is one staff account: a hostess, a ward nurse or a supervisor.
type User struct {
	ID           string     `json:"id" bson:"_id"`
	EmployeeID   string     `json:"employeeId" bson:"employeeId"`
	FirstName    string     `json:"firstName" bson:"firstName"`
	LastName     string     `json:"lastName" bson:"lastName"`
	Role         Role       `json:"role" bson:"role"`
	HospitalID   string     `json:"hospitalId" bson:"hospitalId"`
	Shift        string     `json:"shift,omitempty" bson:"shift,omitempty"`
	PasswordHash string     `json:"-" bson:"passwordHash"`
	FCMToken     string     `json:"-" bson:"fcmToken,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// FullName joins the name parts for display and push payloads.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
