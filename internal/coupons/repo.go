package coupons

import (
	"context"

	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
)

// Repository reads coupon rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a coupons repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = LOWER(?) AND active = ?", code, true).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
