package services

import (
	"testing"

	"signage/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Device{},
		&models.PendingDevice{},
		&models.Survey{},
		&models.Page{},
		&models.PageQuestion{},
		&models.QuestionOption{},
		&models.DeviceSurvey{},
		&models.PageAnswer{},
		&models.AnswerOption{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// provisionDevice runs the real enrollment flow and returns the device with
// the one-time private key.
func provisionDevice(t *testing.T, db *gorm.DB, serial string) (*models.Device, string) {
	t.Helper()

	svc := NewDeviceService(db, NewAnswerService(db))
	pending, err := svc.RequestEnrollment(serial, "test kiosk")
	if err != nil {
		t.Fatalf("request enrollment: %v", err)
	}
	if _, err := svc.Approve(pending.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	device, key, err := svc.Claim(serial, pending.EnrollmentToken)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	return device, key
}

func createApprovedSurvey(t *testing.T, db *gorm.DB, title string) *models.Survey {
	t.Helper()

	survey := &models.Survey{Title: title, Status: models.SurveyApproved}
	if err := db.Create(survey).Error; err != nil {
		t.Fatalf("create survey: %v", err)
	}
	return survey
}

// createQuestionPage adds one page with a question to a survey and returns
// the page and its persisted options.
func createQuestionPage(t *testing.T, db *gorm.DB, surveyID uint, qtype models.QuestionType, optionLabels ...string) (*models.Page, []models.QuestionOption) {
	t.Helper()

	question := &models.PageQuestion{Type: qtype, Text: "pick one"}
	for i, label := range optionLabels {
		question.Options = append(question.Options, models.QuestionOption{Position: i, Label: label})
	}
	page := &models.Page{SurveyID: surveyID, Title: "page", Question: question}
	if err := db.Create(page).Error; err != nil {
		t.Fatalf("create page: %v", err)
	}
	return page, page.Question.Options
}

type recordingNotifier struct {
	changed []uint
}

func (n *recordingNotifier) SurveyChanged(deviceID uint) {
	n.changed = append(n.changed, deviceID)
}
