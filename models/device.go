package models

import "time"

type DeviceStatus string

const (
	DeviceOnline  DeviceStatus = "ONLINE"
	DeviceOffline DeviceStatus = "OFFLINE"
)

// Device is an approved kiosk. Only the public half of its key pair is
// stored; the private key is handed out once at approval time.
type Device struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	SerialNumber string       `gorm:"size:64;uniqueIndex;not null" json:"serial_number"`
	Name         string       `gorm:"size:128" json:"name"`
	PublicKey    []byte       `gorm:"not null" json:"-"`
	Status       DeviceStatus `gorm:"size:16;default:'OFFLINE'" json:"status"`
	EndpointARN  string       `gorm:"size:256" json:"-"`
	LastSeenAt   *time.Time   `json:"last_seen_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
