package services

import (
	"errors"
	"time"

	"signage/models"
	"signage/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceService handles kiosk enrollment and lifecycle.
type DeviceService struct {
	db      *gorm.DB
	answers *AnswerService
}

func NewDeviceService(db *gorm.DB, answers *AnswerService) *DeviceService {
	return &DeviceService{db: db, answers: answers}
}

// RequestEnrollment files a pending request for a new kiosk.
func (s *DeviceService) RequestEnrollment(serialNumber, name string) (*models.PendingDevice, error) {
	if serialNumber == "" {
		return nil, validationf("serial number is required")
	}
	pending := &models.PendingDevice{
		SerialNumber:    serialNumber,
		Name:            name,
		EnrollmentToken: uuid.NewString(),
		Status:          models.PendingDeviceWaiting,
	}
	if err := s.db.Create(pending).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validationf("serial number %q already requested", serialNumber)
		}
		return nil, err
	}
	return pending, nil
}

// Approve clears a pending request for enrollment. The device itself is not
// created yet; the kiosk creates it by claiming with its enrollment token.
func (s *DeviceService) Approve(pendingID uint) (*models.PendingDevice, error) {
	var pending models.PendingDevice
	if err := s.db.First(&pending, pendingID).Error; err != nil {
		return nil, notFoundf("pending device %d", pendingID)
	}
	if pending.Status != models.PendingDeviceWaiting {
		return nil, validationf("device request %d already resolved", pendingID)
	}
	pending.Status = models.PendingDeviceApproved
	if err := s.db.Save(&pending).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

// Claim finishes enrollment for an approved kiosk. Only the holder of the
// enrollment token handed out at intake can claim; the generated private key
// is returned exactly once and never stored.
func (s *DeviceService) Claim(serialNumber, token string) (*models.Device, string, error) {
	var pending models.PendingDevice
	err := s.db.Where("serial_number = ?", serialNumber).First(&pending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", notFoundf("device request for serial %q", serialNumber)
	}
	if err != nil {
		return nil, "", err
	}
	if token == "" || pending.EnrollmentToken != token {
		return nil, "", forbiddenf("enrollment token does not match")
	}
	switch pending.Status {
	case models.PendingDeviceApproved:
	case models.PendingDeviceWaiting:
		return nil, "", forbiddenf("device request %d not yet approved", pending.ID)
	default:
		return nil, "", forbiddenf("device request %d already resolved", pending.ID)
	}

	priv, err := utils.GenerateDeviceKeyPair()
	if err != nil {
		return nil, "", err
	}
	pubDER, err := utils.MarshalPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, "", err
	}
	privEncoded, err := utils.EncodePrivateKey(priv)
	if err != nil {
		return nil, "", err
	}

	device := &models.Device{
		SerialNumber: pending.SerialNumber,
		Name:         pending.Name,
		PublicKey:    pubDER,
		Status:       models.DeviceOffline,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(device).Error; err != nil {
			return err
		}
		pending.Status = models.PendingDeviceClaimed
		return tx.Save(&pending).Error
	})
	if err != nil {
		return nil, "", err
	}
	return device, privEncoded, nil
}

func (s *DeviceService) Reject(pendingID uint) error {
	var pending models.PendingDevice
	if err := s.db.First(&pending, pendingID).Error; err != nil {
		return notFoundf("pending device %d", pendingID)
	}
	if pending.Status != models.PendingDeviceWaiting {
		return validationf("device request %d already resolved", pendingID)
	}
	pending.Status = models.PendingDeviceRejected
	return s.db.Save(&pending).Error
}

func (s *DeviceService) List() ([]models.Device, error) {
	var out []models.Device
	err := s.db.Order("id").Find(&out).Error
	return out, err
}

func (s *DeviceService) Find(id uint) (*models.Device, error) {
	var device models.Device
	err := s.db.First(&device, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("device %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// Delete removes a device, its survey assignments and its pending record.
// Submitted answers stay with their device reference cleared.
func (s *DeviceService) Delete(id uint) error {
	device, err := s.Find(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.answers.UnlinkDevice(tx, device.ID); err != nil {
			return err
		}
		if err := tx.Where("device_id = ?", device.ID).Delete(&models.DeviceSurvey{}).Error; err != nil {
			return err
		}
		return tx.Delete(device).Error
	})
}

// TouchLastSeen marks the device online with a fresh last-seen timestamp.
// Called on every authenticated device request.
func (s *DeviceService) TouchLastSeen(id uint) {
	now := time.Now()
	_ = s.db.Model(&models.Device{}).Where("id = ?", id).
		Updates(map[string]any{"status": models.DeviceOnline, "last_seen_at": now}).Error
}
