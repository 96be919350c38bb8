package models

import "time"

type SurveyStatus string

const (
	SurveyDraft    SurveyStatus = "DRAFT"
	SurveyApproved SurveyStatus = "APPROVED"
)

// Survey is a multi-page questionnaire. It must be APPROVED before it can be
// assigned to a device.
type Survey struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Title          string       `gorm:"size:255;not null" json:"title"`
	Status         SurveyStatus `gorm:"size:16;default:'DRAFT'" json:"status"`
	TimeoutSeconds int          `json:"timeout_seconds"`
	Pages          []Page       `gorm:"constraint:OnDelete:CASCADE" json:"pages,omitempty"`
	CreatedBy      string       `gorm:"size:128" json:"created_by"`
	ModifiedBy     string       `gorm:"size:128" json:"modified_by"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
