package services

import (
	"errors"

	"signage/models"
	"signage/utils"

	"gorm.io/gorm"
)

// AdminAuthService authenticates survey managers and consumers.
type AdminAuthService struct {
	db *gorm.DB
}

func NewAdminAuthService(db *gorm.DB) *AdminAuthService {
	return &AdminAuthService{db: db}
}

func (s *AdminAuthService) Register(email, password, fullName string, role models.UserRole) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		FullName: fullName,
		Role:     role,
	}
	err = s.db.Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return validationf("email %q already registered", email)
	}
	return err
}

func (s *AdminAuthService) Authenticate(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("user not found")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}

	return utils.GenerateJWT(user.Email, string(user.Role))
}
