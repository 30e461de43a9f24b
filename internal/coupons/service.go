package coupons

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

var oneHundred = decimal.NewFromInt(100)

// Outcome is the caller-visible result of an apply attempt. Negative results
// are ordinary outcomes, not errors.
type Outcome string

const (
	OutcomeActivated        Outcome = "activated"
	OutcomeAlreadyActivated Outcome = "already_activated"
	OutcomeNoMatchingItems  Outcome = "no_matching_items"
	OutcomeNotFound         Outcome = "not_found"
)

// Result reports what an apply attempt did.
type Result struct {
	Outcome  Outcome
	Discount decimal.Decimal
	Order    *models.Order
}

// Service applies vendor-scoped coupons to orders.
type Service interface {
	Apply(ctx context.Context, orderOID, code string) (Result, error)
}

type service struct {
	repo       Repository
	ordersRepo orders.Repository
	tx         txRunner
	logg       *logger.Logger
}

// NewService wires the coupon dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupons repository required")
	}
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{repo: repo, ordersRepo: ordersRepo, tx: tx, logg: logg}, nil
}

// Apply discounts the first line item in the coupon's vendor scope that does
// not already bear the coupon. One line per call; callers re-invoke to cover
// further items. The order row stays locked for the whole mutation so two
// concurrent applies of the same coupon serialize into one activation and one
// already-activated response.
func (s *service) Apply(ctx context.Context, orderOID, code string) (Result, error) {
	if strings.TrimSpace(orderOID) == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "order oid is required")
	}
	if strings.TrimSpace(code) == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	var result Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		coupon, err := repo.FindActiveByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = Result{Outcome: OutcomeNotFound}
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
		}

		order, err := ordersRepo.FindByOIDForUpdate(ctx, orderOID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		var (
			matched bool
			target  *models.OrderItem
		)
		for i := range order.Items {
			if order.Items[i].VendorID != coupon.VendorID {
				continue
			}
			matched = true
			if order.Items[i].CouponIDs.Contains(coupon.ID) {
				continue
			}
			target = &order.Items[i]
			break
		}
		if !matched {
			result = Result{Outcome: OutcomeNoMatchingItems}
			return nil
		}
		if target == nil {
			result = Result{Outcome: OutcomeAlreadyActivated}
			return nil
		}

		discount := target.Total.Mul(coupon.Discount).Div(oneHundred).Round(2)

		target.SubTotal = target.SubTotal.Sub(discount)
		target.Total = target.Total.Sub(discount)
		target.Saved = target.Saved.Add(discount)
		target.AppliedCoupon = true
		target.CouponIDs = target.CouponIDs.Append(coupon.ID)
		if err := ordersRepo.UpdateItem(ctx, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
		}

		order.SubTotal = order.SubTotal.Sub(discount)
		order.Total = order.Total.Sub(discount)
		order.Saved = order.Saved.Add(discount)
		if err := ordersRepo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		result = Result{Outcome: OutcomeActivated, Discount: discount, Order: order}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_oid": orderOID,
		"outcome":   string(result.Outcome),
	})
	s.logg.Info(ctx, "coupon apply attempted")
	return result, nil
}
