package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/cart"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	dbtypes "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/types"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput carries the checkout contact fields alongside the cart to
// snapshot.
type CreateInput struct {
	CartID   string
	BuyerID  *uuid.UUID
	FullName string
	Email    string
	Mobile   *string
	Address  *string
	City     *string
	State    *string
	Country  *string
}

// Service materializes orders from cart snapshots and serves order reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	GetByOID(ctx context.Context, oid string) (*models.Order, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
}

type service struct {
	repo     Repository
	cartRepo cart.Repository
	tx       txRunner
	logg     *logger.Logger
}

// NewService wires the order dependencies.
func NewService(repo Repository, cartRepo cart.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if cartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{repo: repo, cartRepo: cartRepo, tx: tx, logg: logg}, nil
}

// Create snapshots every cart line into an order inside one transaction. The
// cart rows survive the checkout; a separate cleanup owns their removal. An
// empty cart still produces a zero-total order.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if strings.TrimSpace(input.CartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart_id is required")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	oid, err := NewOID()
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		repo := s.repo.WithTx(tx)

		lines, err := cartRepo.ListByCart(ctx, input.CartID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
		}

		draft := &models.Order{
			OID:       oid,
			BuyerID:   input.BuyerID,
			FullName:  input.FullName,
			Email:     input.Email,
			Mobile:    input.Mobile,
			Address:   input.Address,
			City:      input.City,
			State:     input.State,
			Country:   input.Country,
			VendorIDs: dbtypes.UUIDArray{},
			SubTotal:  decimal.Zero, ShippingAmount: decimal.Zero,
			TaxFee: decimal.Zero, ServiceFee: decimal.Zero,
			Total: decimal.Zero, InitialTotal: decimal.Zero,
			Saved: decimal.Zero,
		}

		for _, line := range lines {
			if line.Product == nil {
				return pkgerrors.New(pkgerrors.CodeIntegrity, "cart item references missing product")
			}
			item := models.OrderItem{
				ProductID:      line.ProductID,
				VendorID:       line.Product.VendorID,
				Qty:            line.Qty,
				Price:          line.Price,
				SubTotal:       line.SubTotal,
				ShippingAmount: line.ShippingAmount,
				TaxFee:         line.TaxFee,
				ServiceFee:     line.ServiceFee,
				Total:          line.Total,
				InitialTotal:   line.Total,
				Saved:          decimal.Zero,
				CouponIDs:      dbtypes.UUIDArray{},
				Size:           line.Size,
				Color:          line.Color,
				Country:        line.Country,
			}
			draft.Items = append(draft.Items, item)

			draft.SubTotal = draft.SubTotal.Add(item.SubTotal)
			draft.ShippingAmount = draft.ShippingAmount.Add(item.ShippingAmount)
			draft.TaxFee = draft.TaxFee.Add(item.TaxFee)
			draft.ServiceFee = draft.ServiceFee.Add(item.ServiceFee)
			draft.Total = draft.Total.Add(item.Total)
			draft.InitialTotal = draft.InitialTotal.Add(item.InitialTotal)
			draft.VendorIDs = draft.VendorIDs.Append(item.VendorID)
		}

		if err := repo.Create(ctx, draft); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		order = draft
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_oid": order.OID,
		"cart_id":   input.CartID,
		"items":     len(order.Items),
		"total":     order.Total.String(),
	})
	s.logg.Info(ctx, "order created")
	return order, nil
}

func (s *service) GetByOID(ctx context.Context, oid string) (*models.Order, error) {
	if strings.TrimSpace(oid) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "oid is required")
	}
	order, err := s.repo.FindByOID(ctx, oid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}
