package models

import "time"

type UserRole string

const (
	RoleAgent      UserRole = "Agent"
	RoleExpert     UserRole = "Expert"
	RoleManagement UserRole = "Management"
	RoleAdmin      UserRole = "Admin"
)

// AllRoles - rolurile acceptate, în ordinea nivelului de acces
var AllRoles = []UserRole{RoleAgent, RoleExpert, RoleManagement, RoleAdmin}

func (r UserRole) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	Telefon      string   `gorm:"size:20"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
