package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	stripewebhook "github.com/eduardalidini-ux/multivendor-ecommerce/internal/webhooks/stripe"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
)

const testSigningSecret = "whsec_test"

type webhookHarness struct {
	service *fakeStripeWebhookService
	handler http.HandlerFunc
}

func newWebhookHarness(t *testing.T, failures int) *webhookHarness {
	t.Helper()
	service := &fakeStripeWebhookService{failures: failures}
	guard, err := stripewebhook.NewIdempotencyGuard(newMemStore(), time.Minute, "stripe-webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	return &webhookHarness{
		service: service,
		handler: StripeWebhook(service, &fakeSigningClient{secret: testSigningSecret}, guard, nil),
	}
}

func (h *webhookHarness) post(payload []byte, sigHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	if sigHeader != "" {
		req.Header.Set("Stripe-Signature", sigHeader)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func TestStripeWebhookProcessesEventOnce(t *testing.T) {
	payload, header := signedCheckoutEvent(t)
	h := newWebhookHarness(t, 0)

	if rec := h.post(payload, header); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if h.service.calls != 1 {
		t.Fatalf("expected one handler invocation, got %d", h.service.calls)
	}

	// Stripe redelivers; the reservation must absorb the duplicate.
	if rec := h.post(payload, header); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d (%s)", rec.Code, rec.Body.String())
	}
	if h.service.calls != 1 {
		t.Fatalf("duplicate reached the handler, calls=%d", h.service.calls)
	}
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	payload, _ := signedCheckoutEvent(t)
	h := newWebhookHarness(t, 0)

	if rec := h.post(payload, "t=1,v1=invalid"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid signature, got %d", rec.Code)
	}
	if rec := h.post(payload, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing signature, got %d", rec.Code)
	}
	if h.service.calls != 0 {
		t.Fatal("unverified payloads must never reach the handler")
	}
}

func TestStripeWebhookFailedEventCanBeRetried(t *testing.T) {
	payload, header := signedCheckoutEvent(t)
	h := newWebhookHarness(t, 1)

	if rec := h.post(payload, header); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on handler failure, got %d", rec.Code)
	}

	// the reservation was released on failure, so the redelivery processes
	if rec := h.post(payload, header); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on retry, got %d (%s)", rec.Code, rec.Body.String())
	}
	if h.service.calls != 2 {
		t.Fatalf("expected two handler invocations, got %d", h.service.calls)
	}
}

// signedCheckoutEvent returns a checkout.session.completed payload with a
// valid signature header for the test secret.
func signedCheckoutEvent(t *testing.T) ([]byte, string) {
	t.Helper()
	session := &stripe.CheckoutSession{
		ID:            "cs_" + uuid.NewString(),
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: map[string]string{
			"order_oid": "ORDER1",
		},
	}
	rawSession, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal checkout session: %v", err)
	}
	payload, err := json.Marshal(&stripe.Event{
		ID:         "evt_" + uuid.NewString(),
		Type:       stripe.EventTypeCheckoutSessionCompleted,
		Object:     "event",
		APIVersion: stripe.APIVersion,
		Data:       &stripe.EventData{Raw: rawSession},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testSigningSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	header := fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
	return payload, header
}

type fakeStripeWebhookService struct {
	calls    int
	failures int
}

func (f *fakeStripeWebhookService) HandleEvent(ctx context.Context, event *stripe.Event) error {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return fmt.Errorf("transient handler failure")
	}
	return nil
}

type fakeSigningClient struct {
	secret string
}

func (c *fakeSigningClient) SigningSecret() string {
	return c.secret
}

// memStore is an in-process stand-in for the redis idempotency store.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key] = fmt.Sprint(value)
	return true, nil
}

func (s *memStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("mve:idempotency:%s:%s", scope, id)
}

func (s *memStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
