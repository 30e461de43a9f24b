package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/notifications"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/products"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/config"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/email"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CheckoutSession is the caller-facing result of session creation.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// FinalizeResult reports whether a finalize call changed state or observed a
// previously paid order.
type FinalizeResult struct {
	AlreadyPaid bool
	Order       *models.Order
}

// Service drives the payment lifecycle: session creation, the
// processing-to-paid transition, and the buyer-facing success confirmation.
type Service interface {
	CreateCheckoutSession(ctx context.Context, oid string) (*CheckoutSession, error)
	Finalize(ctx context.Context, oid string) (*FinalizeResult, error)
	ConfirmSuccess(ctx context.Context, oid, sessionID string) (*FinalizeResult, error)
}

type service struct {
	ordersRepo   orders.Repository
	productsRepo products.Repository
	notifier     notifications.Service
	emailer      email.Sender
	stripeClient StripeCheckoutClient
	tx           txRunner
	logg         *logger.Logger
	checkoutCfg  config.CheckoutConfig
}

// NewService wires the payment dependencies. The emailer may be nil when
// transactional email is not configured; sends are skipped.
func NewService(
	ordersRepo orders.Repository,
	productsRepo products.Repository,
	notifier notifications.Service,
	emailer email.Sender,
	stripeClient StripeCheckoutClient,
	tx txRunner,
	logg *logger.Logger,
	checkoutCfg config.CheckoutConfig,
) (Service, error) {
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if productsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "products repository required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications service required")
	}
	if stripeClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		ordersRepo:   ordersRepo,
		productsRepo: productsRepo,
		notifier:     notifier,
		emailer:      emailer,
		stripeClient: stripeClient,
		tx:           tx,
		logg:         logg,
		checkoutCfg:  checkoutCfg,
	}, nil
}

// CreateCheckoutSession opens a Stripe checkout session for the order total
// and records the session id for webhook correlation.
func (s *service) CreateCheckoutSession(ctx context.Context, oid string) (*CheckoutSession, error) {
	order, err := s.loadOrder(ctx, oid)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != enums.PaymentStatusProcessing {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}
	if order.Total.IsZero() || order.Total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}

	// Stripe wants the amount in minor units; totals carry exactly two
	// decimal places so the shift is lossless.
	unitAmount := order.Total.Shift(2).IntPart()

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(order.OID),
		CustomerEmail:     stripe.String(order.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.checkoutCfg.Currency),
				UnitAmount: stripe.Int64(unitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("Order %s", order.OID)),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Metadata: map[string]string{"order_oid": order.OID},
	}
	if s.checkoutCfg.SuccessURL != "" {
		params.SuccessURL = stripe.String(s.checkoutCfg.SuccessURL)
	}
	if s.checkoutCfg.CancelURL != "" {
		params.CancelURL = stripe.String(s.checkoutCfg.CancelURL)
	}

	session, err := s.stripeClient.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe checkout session")
	}

	order.StripeSessionID = &session.ID
	if err := s.ordersRepo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store stripe session id")
	}

	ctx = s.logg.WithOrderOID(ctx, order.OID)
	s.logg.Info(ctx, "stripe checkout session created")
	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

// Finalize moves the order from processing to paid exactly once. The order
// row stays locked while the status flips and stock is decremented; a
// concurrent caller observes paid and no-ops. Notifications and email run
// after commit and never fail the transition.
func (s *service) Finalize(ctx context.Context, oid string) (*FinalizeResult, error) {
	if strings.TrimSpace(oid) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order oid is required")
	}

	var result FinalizeResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		productsRepo := s.productsRepo.WithTx(tx)

		order, err := ordersRepo.FindByOIDForUpdate(ctx, oid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		switch order.PaymentStatus {
		case enums.PaymentStatusPaid:
			result = FinalizeResult{AlreadyPaid: true, Order: order}
			return nil
		case enums.PaymentStatusProcessing:
		default:
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order payment status %q cannot transition to paid", order.PaymentStatus))
		}

		order.PaymentStatus = enums.PaymentStatusPaid
		if err := ordersRepo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}

		for _, item := range order.Items {
			if err := productsRepo.DecrementStock(ctx, item.ProductID, item.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
		}

		result = FinalizeResult{Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderOID(ctx, oid)
	if result.AlreadyPaid {
		s.logg.Info(ctx, "order already paid, finalize no-op")
		return &result, nil
	}

	s.logg.Info(ctx, "order payment finalized")
	s.dispatchPostPayment(ctx, result.Order)
	return &result, nil
}

// ConfirmSuccess is the buyer-facing success confirmation. It checks the
// session the buyer returned with against the one recorded at checkout, then
// runs the same finalization the webhook would.
func (s *service) ConfirmSuccess(ctx context.Context, oid, sessionID string) (*FinalizeResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	order, err := s.loadOrder(ctx, oid)
	if err != nil {
		return nil, err
	}
	if order.StripeSessionID == nil || *order.StripeSessionID != sessionID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session does not match order")
	}
	return s.Finalize(ctx, oid)
}

// dispatchPostPayment runs the best-effort fanout. Failures are logged in
// aggregate and never surfaced to the payment provider.
func (s *service) dispatchPostPayment(ctx context.Context, order *models.Order) {
	var errs error

	if err := s.notifier.NotifyOrderPaid(ctx, order); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("notifications: %w", err))
	}

	if s.emailer != nil && order.Email != "" {
		msg := email.Message{
			To:        order.Email,
			ToName:    order.FullName,
			Subject:   fmt.Sprintf("Order %s confirmed", order.OID),
			PlainBody: fmt.Sprintf("Thanks %s! Your payment for order %s (%s) was received.", order.FullName, order.OID, order.Total.StringFixed(2)),
		}
		if err := s.emailer.Send(ctx, msg); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("email: %w", err))
		}
	}

	if errs != nil {
		s.logg.Warn(ctx, fmt.Sprintf("post-payment fanout incomplete: %v", errs))
	}
}

func (s *service) loadOrder(ctx context.Context, oid string) (*models.Order, error) {
	if strings.TrimSpace(oid) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order oid is required")
	}
	order, err := s.ordersRepo.FindByOID(ctx, oid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
