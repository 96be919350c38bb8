package models

import "time"

type DeviceSurveyStatus string

const (
	DeviceSurveyPublished DeviceSurveyStatus = "PUBLISHED"
	DeviceSurveyScheduled DeviceSurveyStatus = "SCHEDULED"
)

// DeviceSurvey assigns one survey to one device. The partial unique index on
// device_id keeps at most one PUBLISHED row per device; application code that
// hits it retries after clearing the competing row.
type DeviceSurvey struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	DeviceID         uint               `gorm:"index;uniqueIndex:uniq_device_published,where:status = 'PUBLISHED';not null" json:"device_id"`
	SurveyID         uint               `gorm:"index;not null" json:"survey_id"`
	Status           DeviceSurveyStatus `gorm:"size:16;not null" json:"status"`
	PublishStartTime *time.Time         `json:"publish_start_time,omitempty"`
	PublishEndTime   *time.Time         `json:"publish_end_time,omitempty"`
	CreatedBy        string             `gorm:"size:128" json:"created_by"`
	ModifiedBy       string             `gorm:"size:128" json:"modified_by"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
