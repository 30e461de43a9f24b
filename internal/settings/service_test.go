package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
)

type stubRepo struct {
	settings    *models.ConfigSettings
	settingsErr error
	taxRate     *models.TaxRate
	taxRateErr  error

	lastCountry string
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindConfigSettings(ctx context.Context) (*models.ConfigSettings, error) {
	if s.settingsErr != nil {
		return nil, s.settingsErr
	}
	return s.settings, nil
}

func (s *stubRepo) FindTaxRateByCountry(ctx context.Context, country string) (*models.TaxRate, error) {
	s.lastCountry = country
	if s.taxRateErr != nil {
		return nil, s.taxRateErr
	}
	return s.taxRate, nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestServiceFeePolicy(t *testing.T) {
	repo := &stubRepo{settings: &models.ConfigSettings{
		ServiceFeeChargeType: enums.ServiceFeeTypePercentage,
		ServiceFeePercentage: decimal.RequireFromString("10"),
		ServiceFeeFlatRate:   decimal.Zero,
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	policy, err := svc.ServiceFeePolicy(context.Background())
	if err != nil {
		t.Fatalf("ServiceFeePolicy: %v", err)
	}
	if policy.ChargeType != enums.ServiceFeeTypePercentage {
		t.Fatalf("charge type = %q", policy.ChargeType)
	}
	if !policy.Percentage.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("percentage = %s", policy.Percentage)
	}
}

func TestServiceFeePolicyMissingRow(t *testing.T) {
	repo := &stubRepo{settingsErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	_, err := svc.ServiceFeePolicy(context.Background())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeIntegrity {
		t.Fatalf("error = %v, want code %q", err, pkgerrors.CodeIntegrity)
	}
}

func TestServiceFeePolicyInvalidChargeType(t *testing.T) {
	repo := &stubRepo{settings: &models.ConfigSettings{ServiceFeeChargeType: "loyalty_points"}}
	svc, _ := NewService(repo)

	_, err := svc.ServiceFeePolicy(context.Background())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeIntegrity {
		t.Fatalf("error = %v, want code %q", err, pkgerrors.CodeIntegrity)
	}
}

func TestTaxRateFor(t *testing.T) {
	repo := &stubRepo{taxRate: &models.TaxRate{Country: "Albania", Rate: decimal.RequireFromString("5.00")}}
	svc, _ := NewService(repo)

	country := "  Albania "
	rate, err := svc.TaxRateFor(context.Background(), &country)
	if err != nil {
		t.Fatalf("TaxRateFor: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("rate = %s", rate)
	}
	if repo.lastCountry != "Albania" {
		t.Fatalf("country passed to repo = %q", repo.lastCountry)
	}
}

func TestTaxRateForAbsentCountry(t *testing.T) {
	svc, _ := NewService(&stubRepo{})

	rate, err := svc.TaxRateFor(context.Background(), nil)
	if err != nil {
		t.Fatalf("TaxRateFor: %v", err)
	}
	if !rate.IsZero() {
		t.Fatalf("rate = %s, want 0", rate)
	}
}

func TestTaxRateForUnknownCountry(t *testing.T) {
	repo := &stubRepo{taxRateErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	country := "Atlantis"
	rate, err := svc.TaxRateFor(context.Background(), &country)
	if err != nil {
		t.Fatalf("TaxRateFor: %v", err)
	}
	if !rate.IsZero() {
		t.Fatalf("rate = %s, want 0", rate)
	}
}
