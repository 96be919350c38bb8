package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"signage/models"

	"gorm.io/gorm"
)

// AnswerService records device answers exactly once per logical submission
// and dispatches on the owning question's type for the payload shape.
type AnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

type AnswerSubmission struct {
	// Answer carries the raw payload: an option id for SINGLE_SELECT, a
	// comma-separated list of option ids for MULTI_SELECT, verbatim text
	// for FREETEXT.
	Answer string
	// SubmissionID, when set, makes the submission idempotent.
	SubmissionID string
	// ClientTimestamp is epoch seconds from the kiosk clock.
	ClientTimestamp *int64
}

// Submit stores one answer for a page. Retransmissions with the same
// submission id return the already stored answer without touching it.
func (s *AnswerService) Submit(ctx context.Context, deviceID, pageID uint, sub AnswerSubmission) (*models.PageAnswer, error) {
	var key *string
	if sub.SubmissionID != "" {
		k := submissionKey(deviceID, pageID, sub.SubmissionID)
		key = &k
		if existing, err := s.findByKey(ctx, k); err != nil {
			return nil, err
		} else if existing != nil {
			return existing, nil
		}
	}

	var page models.Page
	if err := s.db.WithContext(ctx).First(&page, pageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("page %d", pageID)
		}
		return nil, err
	}

	var question models.PageQuestion
	err := s.db.WithContext(ctx).Preload("Options").Where("page_id = ?", pageID).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationf("page %d has no question", pageID)
	}
	if err != nil {
		return nil, err
	}

	answer := models.PageAnswer{
		PageID:        pageID,
		DeviceID:      &deviceID,
		SubmissionKey: key,
		Type:          question.Type,
	}
	if sub.ClientTimestamp != nil {
		answer.CreatedAt = time.Unix(*sub.ClientTimestamp, 0)
	}

	switch question.Type {
	case models.QuestionSingleSelect:
		option, err := resolveOption(&question, sub.Answer)
		if err != nil {
			return nil, err
		}
		answer.SelectedOptionID = &option.ID

	case models.QuestionMultiSelect:
		// Any invalid id fails the whole submission; no partial row.
		for i, raw := range strings.Split(sub.Answer, ",") {
			option, err := resolveOption(&question, strings.TrimSpace(raw))
			if err != nil {
				return nil, err
			}
			answer.Options = append(answer.Options, models.AnswerOption{
				OptionID: option.ID,
				Position: i,
			})
		}

	case models.QuestionFreetext:
		text := sub.Answer
		answer.Text = &text

	default:
		return nil, validationf("unsupported question type %q", question.Type)
	}

	err = s.db.WithContext(ctx).Create(&answer).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && key != nil {
		// A concurrent retransmission won the insert; its row is the answer.
		existing, ferr := s.findByKey(ctx, *key)
		if ferr != nil {
			return nil, ferr
		}
		if existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// Delete removes an answer, clearing multi-select option rows first so no
// orphaned join rows remain.
func (s *AnswerService) Delete(ctx context.Context, id uint) error {
	var answer models.PageAnswer
	err := s.db.WithContext(ctx).First(&answer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundf("answer %d", id)
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", answer.ID).Delete(&models.AnswerOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&answer).Error
	})
}

// ListByPage returns a page's answers, newest first.
func (s *AnswerService) ListByPage(ctx context.Context, pageID uint) ([]models.PageAnswer, error) {
	var out []models.PageAnswer
	err := s.db.WithContext(ctx).
		Preload("Options").
		Where("page_id = ?", pageID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// UnlinkDevice clears the device reference on every answer the device
// submitted. Answers themselves are survey-response data and stay.
func (s *AnswerService) UnlinkDevice(tx *gorm.DB, deviceID uint) error {
	return tx.Model(&models.PageAnswer{}).
		Where("device_id = ?", deviceID).
		Update("device_id", nil).Error
}

func (s *AnswerService) findByKey(ctx context.Context, key string) (*models.PageAnswer, error) {
	var existing models.PageAnswer
	err := s.db.WithContext(ctx).Preload("Options").Where("submission_key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func submissionKey(deviceID, pageID uint, submissionID string) string {
	return fmt.Sprintf("%d-%d-%s", deviceID, pageID, submissionID)
}

func resolveOption(q *models.PageQuestion, raw string) (*models.QuestionOption, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, validationf("malformed option id %q", raw)
	}
	for i := range q.Options {
		if q.Options[i].ID == uint(id) {
			return &q.Options[i], nil
		}
	}
	return nil, validationf("option %d does not belong to question %d", id, q.ID)
}
