package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/pagination"
)

// Audience scopes notification queries to either a user or a vendor inbox.
type Audience struct {
	UserID   *uuid.UUID
	VendorID *uuid.UUID
}

// Repository exposes persistence helpers for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, params listParams) ([]models.Notification, *pagination.Cursor, error)
	MarkSeen(ctx context.Context, audience Audience, notificationID uuid.UUID, now time.Time) (markResult, error)
	MarkAllSeen(ctx context.Context, audience Audience, now time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listParams struct {
	Audience   Audience
	Limit      int
	Cursor     *pagination.Cursor
	UnseenOnly bool
}

type markResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func scoped(query *gorm.DB, audience Audience) *gorm.DB {
	if audience.UserID != nil {
		return query.Where("user_id = ?", *audience.UserID)
	}
	return query.Where("vendor_id = ?", *audience.VendorID)
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) List(ctx context.Context, params listParams) ([]models.Notification, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := scoped(r.db.WithContext(ctx).Model(&models.Notification{}), params.Audience)
	if params.UnseenOnly {
		query = query.Where("seen = false")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, nil, err
	}

	if len(notifications) > normalized {
		next := notifications[normalized]
		notifications = notifications[:normalized]
		return notifications, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return notifications, nil, nil
}

func (r *repositoryImpl) MarkSeen(ctx context.Context, audience Audience, notificationID uuid.UUID, now time.Time) (markResult, error) {
	result := scoped(r.db.WithContext(ctx).Model(&models.Notification{}), audience).
		Where("id = ? AND seen = false", notificationID).
		UpdateColumns(map[string]any{"seen": true, "seen_at": now})
	if result.Error != nil {
		return markResult{}, result.Error
	}

	mark := markResult{Updated: result.RowsAffected > 0}
	if result.RowsAffected > 0 {
		mark.Found = true
		return mark, nil
	}

	var count int64
	if err := scoped(r.db.WithContext(ctx).Model(&models.Notification{}), audience).
		Where("id = ?", notificationID).
		Count(&count).Error; err != nil {
		return markResult{}, err
	}
	mark.Found = count > 0
	return mark, nil
}

func (r *repositoryImpl) MarkAllSeen(ctx context.Context, audience Audience, now time.Time) (int64, error) {
	result := scoped(r.db.WithContext(ctx).Model(&models.Notification{}), audience).
		Where("seen = false").
		UpdateColumns(map[string]any{"seen": true, "seen_at": now})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteOlderThan removes seen notifications created before the cutoff. The
// cron worker passes its own transaction handle.
func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Where("seen = true AND created_at < ?", cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
