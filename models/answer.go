package models

import "time"

// PageAnswer is one submitted answer for a page question. The Type column
// discriminates the payload: SINGLE_SELECT uses SelectedOptionID,
// MULTI_SELECT uses the AnswerOption join rows, FREETEXT uses Text.
//
// DeviceID is nullable: when a device is deleted its answers survive with
// the reference cleared. SubmissionKey, when present, is unique and makes
// retransmitted submissions resolve to the existing row.
type PageAnswer struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	PageID           uint           `gorm:"index;not null" json:"page_id"`
	DeviceID         *uint          `gorm:"index" json:"device_id,omitempty"`
	SubmissionKey    *string        `gorm:"size:128;uniqueIndex" json:"submission_key,omitempty"`
	Type             QuestionType   `gorm:"size:16;not null" json:"type"`
	SelectedOptionID *uint          `json:"selected_option_id,omitempty"`
	Text             *string        `gorm:"type:text" json:"text,omitempty"`
	Options          []AnswerOption `gorm:"foreignKey:AnswerID" json:"options,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// AnswerOption links a MULTI_SELECT answer to one selected option.
type AnswerOption struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	AnswerID uint `gorm:"index;not null" json:"answer_id"`
	OptionID uint `gorm:"not null" json:"option_id"`
	Position int  `json:"position"`
}
