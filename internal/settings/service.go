package settings

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/pricing"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
)

// Service loads the pricing configuration for a single operation. Values are
// read fresh every call; there is no cache to invalidate.
type Service interface {
	ServiceFeePolicy(ctx context.Context) (pricing.ServiceFeePolicy, error)
	TaxRateFor(ctx context.Context, country *string) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

// NewService wires the settings dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "settings repository required")
	}
	return &service{repo: repo}, nil
}

// ServiceFeePolicy returns the platform fee policy. A missing or malformed
// config_settings row is a deployment fault, not a pricing default.
func (s *service) ServiceFeePolicy(ctx context.Context) (pricing.ServiceFeePolicy, error) {
	row, err := s.repo.FindConfigSettings(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.ServiceFeePolicy{}, pkgerrors.New(pkgerrors.CodeIntegrity, "config settings row missing")
		}
		return pricing.ServiceFeePolicy{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load config settings")
	}
	if !row.ServiceFeeChargeType.IsValid() {
		return pricing.ServiceFeePolicy{}, pkgerrors.New(pkgerrors.CodeIntegrity, "config settings charge type invalid")
	}
	return pricing.ServiceFeePolicy{
		ChargeType: row.ServiceFeeChargeType,
		Percentage: row.ServiceFeePercentage,
		FlatRate:   row.ServiceFeeFlatRate,
	}, nil
}

// TaxRateFor resolves the percentage tax rate for a shipping country.
// Unknown or absent countries are untaxed.
func (s *service) TaxRateFor(ctx context.Context, country *string) (decimal.Decimal, error) {
	if country == nil || strings.TrimSpace(*country) == "" {
		return decimal.Zero, nil
	}
	rate, err := s.repo.FindTaxRateByCountry(ctx, strings.TrimSpace(*country))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tax rate")
	}
	return rate.Rate, nil
}
