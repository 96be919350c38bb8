package services

import (
	"context"
	"errors"

	"signage/models"

	"gorm.io/gorm"
)

type SurveyService struct {
	db *gorm.DB
}

func NewSurveyService(db *gorm.DB) *SurveyService {
	return &SurveyService{db: db}
}

func (s *SurveyService) Create(survey *models.Survey, actor string) error {
	if survey.Title == "" {
		return validationf("survey title is required")
	}
	survey.Status = models.SurveyDraft
	survey.CreatedBy = actor
	survey.ModifiedBy = actor
	return s.db.Create(survey).Error
}

// Approve moves a survey from DRAFT to APPROVED, after which it may be
// assigned to devices.
func (s *SurveyService) Approve(id uint, actor string) (*models.Survey, error) {
	survey, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if survey.Status == models.SurveyApproved {
		return survey, nil
	}
	survey.Status = models.SurveyApproved
	survey.ModifiedBy = actor
	if err := s.db.Save(survey).Error; err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *SurveyService) Find(id uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.
		Preload("Pages", func(db *gorm.DB) *gorm.DB { return db.Order("pages.position") }).
		Preload("Pages.Question.Options", func(db *gorm.DB) *gorm.DB { return db.Order("question_options.position") }).
		First(&survey, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("survey %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// PublishedSurveyForDevice is the device-facing read: the one survey the
// kiosk should be showing right now.
func (s *SurveyService) PublishedSurveyForDevice(ctx context.Context, deviceID uint) (*models.Survey, error) {
	var ds models.DeviceSurvey
	err := s.db.WithContext(ctx).
		Where("device_id = ? AND status = ?", deviceID, models.DeviceSurveyPublished).
		First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("no published survey for device %d", deviceID)
	}
	if err != nil {
		return nil, err
	}
	return s.Find(ds.SurveyID)
}

// OptionCount is one row of a page's answer statistics.
type OptionCount struct {
	OptionID uint  `json:"option_id"`
	Count    int64 `json:"count"`
}

// PageStats aggregates ingested answers for one page: total answers plus
// per-option selection counts (single and multi select combined).
func (s *SurveyService) PageStats(pageID uint) (total int64, counts []OptionCount, err error) {
	err = s.db.Model(&models.PageAnswer{}).Where("page_id = ?", pageID).Count(&total).Error
	if err != nil {
		return 0, nil, err
	}

	err = s.db.Raw(`
		SELECT option_id, COUNT(*) AS count FROM (
			SELECT selected_option_id AS option_id
			FROM page_answers
			WHERE page_id = ? AND selected_option_id IS NOT NULL
			UNION ALL
			SELECT ao.option_id
			FROM answer_options ao
			JOIN page_answers pa ON pa.id = ao.answer_id
			WHERE pa.page_id = ?
		) picks
		GROUP BY option_id
		ORDER BY option_id`, pageID, pageID).
		Scan(&counts).Error
	return total, counts, err
}
