package model

import "time"

// User statuses.
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
	StatusOnLeave   = "OnLeave"
	StatusPending   = "Pending"
)

var UserStatuses = []string{StatusActive, StatusInactive, StatusSuspended, StatusOnLeave, StatusPending}

func IsValidStatus(status string) bool {
	for _, s := range UserStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	RoleID          string    `json:"role_id"`
	Status          string    `json:"status"`
	EmployeeID      *string   `json:"employee_id"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Role is populated by read-time joins; nil when not requested.
	Role *Role `json:"role,omitempty"`
}
