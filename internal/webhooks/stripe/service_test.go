package stripewebhook

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/payments"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type stubOrdersRepo struct {
	bySession map[string]*models.Order
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error { return nil }
func (s *stubOrdersRepo) Update(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrdersRepo) FindByOID(ctx context.Context, oid string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByOIDForUpdate(ctx context.Context, oid string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByStripeSessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	if order, ok := s.bySession[sessionID]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) UpdateItem(ctx context.Context, item *models.OrderItem) error { return nil }

func (s *stubOrdersRepo) UpdateItemsDeliveryStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	return nil
}

type stubFinalizer struct {
	finalized []string
	result    *payments.FinalizeResult
}

func (s *stubFinalizer) Finalize(ctx context.Context, oid string) (*payments.FinalizeResult, error) {
	s.finalized = append(s.finalized, oid)
	if s.result != nil {
		return s.result, nil
	}
	return &payments.FinalizeResult{}, nil
}

func newTestService(t *testing.T, repo orders.Repository, fin *stubFinalizer) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		OrdersRepo: repo,
		Finalizer:  fin,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func sessionEvent(t *testing.T, session stripe.CheckoutSession) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	return &stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleEventFinalizesByMetadata(t *testing.T) {
	fin := &stubFinalizer{}
	svc := newTestService(t, &stubOrdersRepo{}, fin)

	event := sessionEvent(t, stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:      map[string]string{"order_oid": "ORDER1"},
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(fin.finalized) != 1 || fin.finalized[0] != "ORDER1" {
		t.Fatalf("finalized = %v", fin.finalized)
	}
}

func TestHandleEventFallsBackToSessionLookup(t *testing.T) {
	fin := &stubFinalizer{}
	repo := &stubOrdersRepo{bySession: map[string]*models.Order{
		"cs_test_1": {OID: "ORDER2"},
	}}
	svc := newTestService(t, repo, fin)

	event := sessionEvent(t, stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(fin.finalized) != 1 || fin.finalized[0] != "ORDER2" {
		t.Fatalf("finalized = %v", fin.finalized)
	}
}

func TestHandleEventSkipsUnpaidSession(t *testing.T) {
	fin := &stubFinalizer{}
	svc := newTestService(t, &stubOrdersRepo{}, fin)

	event := sessionEvent(t, stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
		Metadata:      map[string]string{"order_oid": "ORDER1"},
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(fin.finalized) != 0 {
		t.Fatalf("finalized = %v, want none", fin.finalized)
	}
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	fin := &stubFinalizer{}
	svc := newTestService(t, &stubOrdersRepo{}, fin)

	event := &stripe.Event{
		Type: stripe.EventTypeInvoicePaid,
		Data: &stripe.EventData{Raw: []byte(`{}`)},
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(fin.finalized) != 0 {
		t.Fatalf("finalized = %v, want none", fin.finalized)
	}
}

func TestHandleEventUnresolvableSession(t *testing.T) {
	fin := &stubFinalizer{}
	svc := newTestService(t, &stubOrdersRepo{}, fin)

	event := sessionEvent(t, stripe.CheckoutSession{
		ID:            "cs_unknown",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
	})
	err := svc.HandleEvent(context.Background(), event)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v, want not found", err)
	}
}
