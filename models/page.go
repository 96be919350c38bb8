package models

import "time"

type QuestionType string

const (
	QuestionSingleSelect QuestionType = "SINGLE_SELECT"
	QuestionMultiSelect  QuestionType = "MULTI_SELECT"
	QuestionFreetext     QuestionType = "FREETEXT"
)

// Page is one ordered screen of a survey, optionally carrying a question.
type Page struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	SurveyID  uint          `gorm:"index;not null" json:"survey_id"`
	Position  int           `json:"position"`
	Title     string        `gorm:"size:255" json:"title"`
	Question  *PageQuestion `gorm:"constraint:OnDelete:CASCADE" json:"question,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type PageQuestion struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	PageID    uint             `gorm:"uniqueIndex;not null" json:"page_id"`
	Type      QuestionType     `gorm:"size:16;not null" json:"type"`
	Text      string           `gorm:"size:512" json:"text"`
	Options   []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type QuestionOption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	Position   int       `json:"position"`
	Label      string    `gorm:"size:255;not null" json:"label"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
