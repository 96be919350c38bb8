package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"signage/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("no .env file, using environment as-is")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// TranslateError lets services catch unique-index violations as
	// gorm.ErrDuplicatedKey (publish and submission-key races).
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
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
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// SchedulerConfig holds the background publish sweep knobs.
type SchedulerConfig struct {
	SweepInterval time.Duration
	StartupDelay  time.Duration
}

func LoadSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		SweepInterval: durationEnv("PUBLISH_SWEEP_INTERVAL", time.Minute),
		StartupDelay:  durationEnv("PUBLISH_SWEEP_DELAY", 10*time.Second),
	}
}

// DeviceCallTimeout bounds device-facing requests so kiosks get a definite
// failure instead of hanging.
func DeviceCallTimeout() time.Duration {
	return durationEnv("DEVICE_CALL_TIMEOUT", 10*time.Second)
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return d
}
