package services

import (
	"context"
	"errors"
	"log"
	"time"

	"signage/config"
	"signage/models"

	"gorm.io/gorm"
)

// PublishScheduler runs the background sweep that flips due SCHEDULED
// device surveys to PUBLISHED.
type PublishScheduler struct {
	db           *gorm.DB
	notifier     Notifier
	interval     time.Duration
	startupDelay time.Duration
}

func NewPublishScheduler(db *gorm.DB, notifier Notifier, cfg config.SchedulerConfig) *PublishScheduler {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &PublishScheduler{
		db:           db,
		notifier:     notifier,
		interval:     cfg.SweepInterval,
		startupDelay: cfg.StartupDelay,
	}
}

// Start runs sweeps on the configured interval after the startup delay,
// until ctx is cancelled. A long sweep simply delays the next tick.
func (s *PublishScheduler) Start(ctx context.Context) {
	go func() {
		select {
		case <-time.After(s.startupDelay):
		case <-ctx.Done():
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			s.Sweep()
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Sweep promotes every SCHEDULED device survey whose start time has passed.
// Candidates are ordered by start time then id, so when several rows for one
// device are due in the same sweep the latest-starting one deterministically
// ends up as the single PUBLISHED row. A failed candidate is logged and
// skipped, never aborting the rest of the sweep.
func (s *PublishScheduler) Sweep() {
	var due []models.DeviceSurvey
	err := s.db.
		Where("status = ? AND publish_start_time IS NOT NULL AND publish_start_time <= ?",
			models.DeviceSurveyScheduled, time.Now()).
		Order("publish_start_time, id").
		Find(&due).Error
	if err != nil {
		log.Printf("publish sweep: listing due device surveys: %v", err)
		return
	}

	for _, ds := range due {
		if err := s.promote(ds); err != nil {
			log.Printf("publish sweep: device survey %d: %v", ds.ID, err)
			continue
		}
		s.notifier.SurveyChanged(ds.DeviceID)
	}
}

func (s *PublishScheduler) promote(ds models.DeviceSurvey) error {
	flip := func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			err := tx.
				Where("device_id = ? AND status = ? AND id <> ?", ds.DeviceID, models.DeviceSurveyPublished, ds.ID).
				Delete(&models.DeviceSurvey{}).Error
			if err != nil {
				return err
			}
			return tx.Model(&models.DeviceSurvey{}).
				Where("id = ? AND status = ?", ds.ID, models.DeviceSurveyScheduled).
				Update("status", models.DeviceSurveyPublished).Error
		})
	}

	err := flip()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = flip()
	}
	return err
}
