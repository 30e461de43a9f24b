package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
	"gorm.io/gorm"
)

func TestCartCleanupJobDeletesAbandonedItems(t *testing.T) {
	now := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeCartCleanupRepo{deletedRows: 7}
	job := newCartCleanupJob(t, repo)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	expectedCutoff := now.UTC().Add(-cartRetentionDays * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestCartCleanupJobPropagatesErrors(t *testing.T) {
	repo := &fakeCartCleanupRepo{err: errors.New("boom")}
	job := newCartCleanupJob(t, repo)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newCartCleanupJob(t *testing.T, repo *fakeCartCleanupRepo) *cartCleanupJob {
	t.Helper()
	jobIface, err := NewCartCleanupJob(CartCleanupJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         cartFakeTxRunner{},
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewCartCleanupJob: %v", err)
	}
	job, ok := jobIface.(*cartCleanupJob)
	if !ok {
		t.Fatalf("expected cartCleanupJob, got %T", jobIface)
	}
	return job
}

type fakeCartCleanupRepo struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeCartCleanupRepo) DeleteAbandonedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

type cartFakeTxRunner struct{}

func (cartFakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
