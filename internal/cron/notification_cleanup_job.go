package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
	"gorm.io/gorm"
)

// Seen notifications older than this are purged.
const notificationRetentionDays = 30

type notificationPurgeRepo interface {
	DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type NotificationCleanupJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository notificationPurgeRepo
	Retention  int
}

// NewNotificationCleanupJob builds the job that deletes seen notifications
// past the retention window.
func NewNotificationCleanupJob(params NotificationCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	job := &notificationCleanupJob{
		logg:          params.Logger,
		db:            params.DB,
		repo:          params.Repository,
		retentionDays: params.Retention,
		clock:         time.Now,
	}
	if job.retentionDays <= 0 {
		job.retentionDays = notificationRetentionDays
	}
	return job, nil
}

type notificationCleanupJob struct {
	logg          *logger.Logger
	db            txRunner
	repo          notificationPurgeRepo
	retentionDays int
	clock         func() time.Time
}

func (j *notificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *notificationCleanupJob) Run(ctx context.Context) error {
	cutoff := j.clock().UTC().AddDate(0, 0, -j.retentionDays)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteOlderThan(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("notification cleanup: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retentionDays,
		"rows_deleted":   deleted,
	}), "notification cleanup complete")
	return nil
}
