package models

import (
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleManager  UserRole = "MANAGER"
	RoleConsumer UserRole = "CONSUMER"
)

// User is an administrative account (survey managers and read-only
// consumers). Kiosks authenticate separately with their device key.
type User struct {
	gorm.Model
	Email    string   `gorm:"uniqueIndex;not null"`
	Password string   `gorm:"not null"`
	FullName string
	Role     UserRole `gorm:"size:16;default:'CONSUMER'"`
}
