package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/payments"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type finalizer interface {
	Finalize(ctx context.Context, oid string) (*payments.FinalizeResult, error)
}

type ServiceParams struct {
	OrdersRepo orders.Repository
	Finalizer  finalizer
	Logger     *logger.Logger
}

// Service turns verified Stripe events into payment finalizations. Events the
// platform does not care about are acknowledged and dropped.
type Service struct {
	ordersRepo orders.Repository
	finalizer  finalizer
	logg       *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.Finalizer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment finalizer required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		ordersRepo: params.OrdersRepo,
		finalizer:  params.Finalizer,
		logg:       params.Logger,
	}, nil
}

// HandleEvent processes one verified event. Delivery is at-least-once; the
// finalizer's own processing check makes replays harmless even when the
// event-id guard has expired.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session event")
		}
		return s.handleSessionCompleted(ctx, &session)
	default:
		return nil
	}
}

func (s *Service) handleSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		ctx = s.logg.WithField(ctx, "session_payment_status", string(session.PaymentStatus))
		s.logg.Info(ctx, "checkout session completed without payment, skipping")
		return nil
	}

	oid, err := s.resolveOrderOID(ctx, session)
	if err != nil {
		return err
	}

	ctx = s.logg.WithOrderOID(ctx, oid)
	result, err := s.finalizer.Finalize(ctx, oid)
	if err != nil {
		return err
	}
	if result.AlreadyPaid {
		s.logg.Info(ctx, "stripe event replayed for paid order")
	}
	return nil
}

// resolveOrderOID correlates the session with an order: session metadata
// first, then the client reference, then the session id recorded at checkout.
func (s *Service) resolveOrderOID(ctx context.Context, session *stripe.CheckoutSession) (string, error) {
	if oid := session.Metadata["order_oid"]; oid != "" {
		return oid, nil
	}
	if session.ClientReferenceID != "" {
		return session.ClientReferenceID, nil
	}
	if session.ID != "" {
		order, err := s.ordersRepo.FindByStripeSessionID(ctx, session.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", pkgerrors.New(pkgerrors.CodeNotFound, "no order matches stripe session")
			}
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order by stripe session")
		}
		return order.OID, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "stripe session carries no order correlation")
}
