package services

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"

	"signage/models"
	"signage/utils"

	"gorm.io/gorm"
)

type DeviceAuthService struct {
	db *gorm.DB
}

func NewDeviceAuthService(db *gorm.DB) *DeviceAuthService {
	return &DeviceAuthService{db: db}
}

// IsAuthorizedDevice checks that the presented key is the private half of
// the key pair issued to the device: it signs the device's fixed 16-byte
// challenge with the presented key and verifies the signature against the
// stored public key. Every failure collapses to false; no crypto detail
// leaks to the caller.
//
// The challenge is static (the device's own id), so a captured signature is
// replayable. This proves key possession, nothing more.
func (s *DeviceAuthService) IsAuthorizedDevice(ctx context.Context, deviceID uint, presentedKey string) bool {
	priv, err := utils.DecodePrivateKey(presentedKey)
	if err != nil {
		return false
	}

	var device models.Device
	if err := s.db.WithContext(ctx).First(&device, deviceID).Error; err != nil {
		return false
	}

	pub, err := utils.ParsePublicKey(device.PublicKey)
	if err != nil {
		return false
	}

	digest := sha256.Sum256(utils.DeviceChallenge(deviceID))
	signature, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	if err != nil {
		return false
	}

	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], signature) == nil
}
