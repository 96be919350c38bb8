package models

import "time"

type PendingDeviceStatus string

const (
	PendingDeviceWaiting  PendingDeviceStatus = "PENDING"
	PendingDeviceApproved PendingDeviceStatus = "APPROVED"
	PendingDeviceRejected PendingDeviceStatus = "REJECTED"
	PendingDeviceClaimed  PendingDeviceStatus = "CLAIMED"
)

// PendingDevice is an enrollment request from a kiosk that has not been
// approved yet.
type PendingDevice struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	SerialNumber    string              `gorm:"size:64;uniqueIndex;not null" json:"serial_number"`
	Name            string              `gorm:"size:128" json:"name"`
	EnrollmentToken string              `gorm:"size:64" json:"enrollment_token"`
	Status          PendingDeviceStatus `gorm:"size:16;default:'PENDING'" json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
