package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
	"gorm.io/gorm"
)

const cartRetentionDays = 14

// CartCleanupJobParams configure the abandoned cart janitor.
type CartCleanupJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository cartCleanupRepo
	Retention  int
}

type cartCleanupRepo interface {
	DeleteAbandonedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// NewCartCleanupJob builds the job that purges cart items untouched past the
// retention window. Carts never converted to orders accumulate otherwise.
func NewCartCleanupJob(params CartCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = cartRetentionDays
	}
	return &cartCleanupJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type cartCleanupJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      cartCleanupRepo
	retention int
	now       func() time.Time
}

func (j *cartCleanupJob) Name() string { return "cart-cleanup" }

func (j *cartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteAbandonedBefore(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("cart cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "cart cleanup complete")
	return nil
}
