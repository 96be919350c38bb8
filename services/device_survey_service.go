package services

import (
	"errors"
	"time"

	"signage/models"

	"gorm.io/gorm"
)

// DeviceSurveyService owns the per-device publication state machine:
// {no survey} ⇄ SCHEDULED ⇄ PUBLISHED. A device has at most one PUBLISHED
// assignment at any time.
type DeviceSurveyService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewDeviceSurveyService(db *gorm.DB, notifier Notifier) *DeviceSurveyService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &DeviceSurveyService{db: db, notifier: notifier}
}

type DeviceSurveyInput struct {
	SurveyID         uint
	Status           models.DeviceSurveyStatus
	PublishStartTime *time.Time
	PublishEndTime   *time.Time
}

func (s *DeviceSurveyService) Create(deviceID uint, in DeviceSurveyInput, actor string) (*models.DeviceSurvey, error) {
	if err := s.validate(deviceID, in); err != nil {
		return nil, err
	}

	ds := &models.DeviceSurvey{
		DeviceID:         deviceID,
		SurveyID:         in.SurveyID,
		Status:           in.Status,
		PublishStartTime: in.PublishStartTime,
		PublishEndTime:   in.PublishEndTime,
		CreatedBy:        actor,
		ModifiedBy:       actor,
	}
	if err := s.persist(ds); err != nil {
		return nil, err
	}

	s.notifier.SurveyChanged(deviceID)
	return ds, nil
}

func (s *DeviceSurveyService) Update(deviceID, id uint, in DeviceSurveyInput, actor string) (*models.DeviceSurvey, error) {
	ds, err := s.Find(deviceID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(deviceID, in); err != nil {
		return nil, err
	}

	ds.SurveyID = in.SurveyID
	ds.Status = in.Status
	ds.PublishStartTime = in.PublishStartTime
	ds.PublishEndTime = in.PublishEndTime
	ds.ModifiedBy = actor
	if err := s.persist(ds); err != nil {
		return nil, err
	}

	s.notifier.SurveyChanged(deviceID)
	return ds, nil
}

func (s *DeviceSurveyService) List(deviceID uint, status string) ([]models.DeviceSurvey, error) {
	q := s.db.Where("device_id = ?", deviceID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.DeviceSurvey
	err := q.Order("id").Find(&out).Error
	return out, err
}

func (s *DeviceSurveyService) Find(deviceID, id uint) (*models.DeviceSurvey, error) {
	var ds models.DeviceSurvey
	err := s.db.First(&ds, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("device survey %d", id)
	}
	if err != nil {
		return nil, err
	}
	if ds.DeviceID != deviceID {
		return nil, notFoundf("device survey %d for device %d", id, deviceID)
	}
	return &ds, nil
}

// Delete removes one assignment. No side effects on the device's other
// assignments.
func (s *DeviceSurveyService) Delete(deviceID, id uint) error {
	ds, err := s.Find(deviceID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(ds).Error; err != nil {
		return err
	}
	s.notifier.SurveyChanged(deviceID)
	return nil
}

func (s *DeviceSurveyService) validate(deviceID uint, in DeviceSurveyInput) error {
	var device models.Device
	if err := s.db.First(&device, deviceID).Error; err != nil {
		return notFoundf("device %d", deviceID)
	}

	var survey models.Survey
	if err := s.db.First(&survey, in.SurveyID).Error; err != nil {
		return notFoundf("survey %d", in.SurveyID)
	}
	if survey.Status != models.SurveyApproved {
		return validationf("survey %d is not approved", in.SurveyID)
	}

	switch in.Status {
	case models.DeviceSurveyPublished:
		return nil
	case models.DeviceSurveyScheduled:
		if in.PublishStartTime == nil || in.PublishEndTime == nil {
			return validationf("scheduled device survey needs both publish start and end times")
		}
		if !in.PublishEndTime.After(*in.PublishStartTime) {
			return validationf("publish end time must be after start time")
		}
		if in.PublishStartTime.Before(time.Now()) {
			return validationf("publish start time cannot be in the past")
		}
		return nil
	default:
		return validationf("unknown device survey status %q", in.Status)
	}
}

// persist writes the assignment. Publishing first removes every other
// PUBLISHED row for the device inside the same transaction; the partial
// unique index backs this up, and a duplicate-key error from a concurrent
// publisher gets one retry after the competing row is gone.
func (s *DeviceSurveyService) persist(ds *models.DeviceSurvey) error {
	save := func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if ds.Status == models.DeviceSurveyPublished {
				err := tx.
					Where("device_id = ? AND status = ? AND id <> ?", ds.DeviceID, models.DeviceSurveyPublished, ds.ID).
					Delete(&models.DeviceSurvey{}).Error
				if err != nil {
					return err
				}
			}
			return tx.Save(ds).Error
		})
	}

	err := save()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = save()
	}
	return err
}
