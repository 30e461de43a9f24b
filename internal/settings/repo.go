package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
)

// Repository reads pricing configuration rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindConfigSettings(ctx context.Context) (*models.ConfigSettings, error)
	FindTaxRateByCountry(ctx context.Context, country string) (*models.TaxRate, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindConfigSettings(ctx context.Context) (*models.ConfigSettings, error) {
	var settings models.ConfigSettings
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) FindTaxRateByCountry(ctx context.Context, country string) (*models.TaxRate, error) {
	var rate models.TaxRate
	err := r.db.WithContext(ctx).
		Where("LOWER(country) = LOWER(?) AND active = ?", country, true).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
