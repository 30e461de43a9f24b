package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/pricing"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/products"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/settings"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UpsertOutcome reports whether an upsert created a new line or replaced one.
type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "created"
	OutcomeUpdated UpsertOutcome = "updated"
)

// UpsertInput is one add-to-cart request. Qty and the variant fields replace
// whatever the cart line held before.
type UpsertInput struct {
	CartID    string
	ProductID uuid.UUID
	UserID    *uuid.UUID
	Qty       int
	Size      *string
	Color     *string
	Country   *string
}

// Totals aggregates the priced components across a cart.
type Totals struct {
	SubTotal       decimal.Decimal `json:"sub_total"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	TaxFee         decimal.Decimal `json:"tax_fee"`
	ServiceFee     decimal.Decimal `json:"service_fee"`
	Total          decimal.Decimal `json:"total"`
}

// Service exposes cart operations. Every mutation reprices the affected line
// from current product and settings data.
type Service interface {
	Upsert(ctx context.Context, input UpsertInput) (*models.CartItem, UpsertOutcome, error)
	List(ctx context.Context, cartID string, userID *uuid.UUID) ([]models.CartItem, error)
	Totals(ctx context.Context, cartID string, userID *uuid.UUID) (Totals, error)
	DeleteItem(ctx context.Context, cartID string, itemID uuid.UUID, userID *uuid.UUID) error
}

type service struct {
	repo     Repository
	products products.Repository
	settings settings.Service
	tx       txRunner
	logg     *logger.Logger
}

// NewService wires the cart dependencies.
func NewService(repo Repository, productRepo products.Repository, settingsSvc settings.Service, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	}
	if productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "products repository required")
	}
	if settingsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "settings service required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{repo: repo, products: productRepo, settings: settingsSvc, tx: tx, logg: logg}, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.CartItem, UpsertOutcome, error) {
	if strings.TrimSpace(input.CartID) == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "cart_id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.Purchasable() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "product is not available for purchase")
	}

	feePolicy, err := s.settings.ServiceFeePolicy(ctx)
	if err != nil {
		return nil, "", err
	}
	taxRate, err := s.settings.TaxRateFor(ctx, input.Country)
	if err != nil {
		return nil, "", err
	}

	quote, err := pricing.Quote(pricing.QuoteInput{
		Price:        product.Price,
		Qty:          input.Qty,
		ShippingRate: product.ShippingAmount,
		TaxRate:      taxRate,
		Fee:          feePolicy,
	})
	if err != nil {
		return nil, "", err
	}

	var (
		item    *models.CartItem
		outcome UpsertOutcome
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByCartAndProduct(ctx, input.CartID, input.ProductID)
		switch {
		case err == nil:
			applyQuote(existing, input, quote)
			if err := repo.Update(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
			item, outcome = existing, OutcomeUpdated
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := &models.CartItem{
				CartID:    input.CartID,
				ProductID: input.ProductID,
				Price:     product.Price,
			}
			applyQuote(created, input, quote)
			if err := repo.Create(ctx, created); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
			item, outcome = created, OutcomeCreated
			return nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
	})
	if err != nil {
		return nil, "", err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"cart_id":    input.CartID,
		"product_id": input.ProductID.String(),
		"outcome":    string(outcome),
	})
	s.logg.Info(ctx, "cart item upserted")
	return item, outcome, nil
}

func applyQuote(item *models.CartItem, input UpsertInput, quote pricing.QuoteBreakdown) {
	item.UserID = input.UserID
	item.Qty = input.Qty
	item.Size = input.Size
	item.Color = input.Color
	item.Country = input.Country
	item.SubTotal = quote.SubTotal
	item.ShippingAmount = quote.ShippingAmount
	item.TaxFee = quote.TaxFee
	item.ServiceFee = quote.ServiceFee
	item.Total = quote.Total
}

func (s *service) List(ctx context.Context, cartID string, userID *uuid.UUID) ([]models.CartItem, error) {
	if strings.TrimSpace(cartID) == "" && userID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart_id is required")
	}
	rows, err := s.repo.List(ctx, cartID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	return rows, nil
}

func (s *service) Totals(ctx context.Context, cartID string, userID *uuid.UUID) (Totals, error) {
	rows, err := s.List(ctx, cartID, userID)
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{
		SubTotal:       decimal.Zero,
		ShippingAmount: decimal.Zero,
		TaxFee:         decimal.Zero,
		ServiceFee:     decimal.Zero,
		Total:          decimal.Zero,
	}
	for _, row := range rows {
		totals.SubTotal = totals.SubTotal.Add(row.SubTotal)
		totals.ShippingAmount = totals.ShippingAmount.Add(row.ShippingAmount)
		totals.TaxFee = totals.TaxFee.Add(row.TaxFee)
		totals.ServiceFee = totals.ServiceFee.Add(row.ServiceFee)
		totals.Total = totals.Total.Add(row.Total)
	}
	return totals, nil
}

// DeleteItem removes one cart line. An authenticated caller's id scopes the
// lookup, so a line owned by a different user reads as not found.
func (s *service) DeleteItem(ctx context.Context, cartID string, itemID uuid.UUID, userID *uuid.UUID) error {
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart_id is required")
	}
	item, err := s.repo.FindByCartAndID(ctx, cartID, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return nil
}
