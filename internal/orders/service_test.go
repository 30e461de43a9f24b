package orders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/cart"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type stubOrderRepo struct {
	created []*models.Order
	byOID   map[string]*models.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byOID: map[string]*models.Order{}}
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = uuid.New()
	s.created = append(s.created, order)
	s.byOID[order.OID] = order
	return nil
}

func (s *stubOrderRepo) Update(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrderRepo) FindByOID(ctx context.Context, oid string) (*models.Order, error) {
	if order, ok := s.byOID[oid]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindByOIDForUpdate(ctx context.Context, oid string) (*models.Order, error) {
	return s.FindByOID(ctx, oid)
}

func (s *stubOrderRepo) FindByStripeSessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateItem(ctx context.Context, item *models.OrderItem) error { return nil }

func (s *stubOrderRepo) UpdateItemsDeliveryStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	return nil
}

type stubCartRepo struct {
	lines []models.CartItem
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) FindByCartAndProduct(ctx context.Context, cartID string, productID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindByCartAndID(ctx context.Context, cartID string, itemID uuid.UUID, userID *uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) List(ctx context.Context, cartID string, userID *uuid.UUID) ([]models.CartItem, error) {
	return s.lines, nil
}

func (s *stubCartRepo) ListByCart(ctx context.Context, cartID string) ([]models.CartItem, error) {
	return s.lines, nil
}

func (s *stubCartRepo) Create(ctx context.Context, item *models.CartItem) error { return nil }
func (s *stubCartRepo) Update(ctx context.Context, item *models.CartItem) error { return nil }
func (s *stubCartRepo) Delete(ctx context.Context, itemID uuid.UUID) error      { return nil }
func (s *stubCartRepo) DeleteByCart(ctx context.Context, cartID string) error   { return nil }
func (s *stubCartRepo) DeleteAbandonedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return 0, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testService(t *testing.T, repo Repository, cartRepo cart.Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, cartRepo, stubTx{}, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func cartLine(vendorID uuid.UUID, subTotal, shipping, tax, fee string) models.CartItem {
	productID := uuid.New()
	total := decimal.RequireFromString(subTotal).
		Add(decimal.RequireFromString(shipping)).
		Add(decimal.RequireFromString(tax)).
		Add(decimal.RequireFromString(fee))
	return models.CartItem{
		ID:        uuid.New(),
		CartID:    "cart-1",
		ProductID: productID,
		Product:   &models.Product{ID: productID, VendorID: vendorID},
		Qty:       1,
		Price:     decimal.RequireFromString(subTotal),

		SubTotal:       decimal.RequireFromString(subTotal),
		ShippingAmount: decimal.RequireFromString(shipping),
		TaxFee:         decimal.RequireFromString(tax),
		ServiceFee:     decimal.RequireFromString(fee),
		Total:          total,
	}
}

func TestCreateAggregatesCart(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()
	cartRepo := &stubCartRepo{lines: []models.CartItem{
		cartLine(vendorA, "20.00", "3.00", "0.10", "2.00"),
		cartLine(vendorB, "5.00", "1.00", "0.05", "0.50"),
		cartLine(vendorA, "10.00", "0.00", "0.00", "1.00"),
	}}
	repo := newStubOrderRepo()
	svc := testService(t, repo, cartRepo)

	order, err := svc.Create(context.Background(), CreateInput{
		CartID:   "cart-1",
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.OID == "" {
		t.Fatal("expected a generated oid")
	}
	if len(order.Items) != 3 {
		t.Fatalf("items = %d", len(order.Items))
	}
	if !order.SubTotal.Equal(decimal.RequireFromString("35.00")) {
		t.Fatalf("sub_total = %s", order.SubTotal)
	}
	if !order.Total.Equal(decimal.RequireFromString("42.65")) {
		t.Fatalf("total = %s", order.Total)
	}
	if !order.InitialTotal.Equal(order.Total) {
		t.Fatalf("initial_total %s != total %s", order.InitialTotal, order.Total)
	}
	if len(order.VendorIDs) != 2 {
		t.Fatalf("vendor set size = %d, want 2", len(order.VendorIDs))
	}
	if !order.VendorIDs.Contains(vendorA) || !order.VendorIDs.Contains(vendorB) {
		t.Fatalf("vendor set = %v", order.VendorIDs)
	}
	for _, item := range order.Items {
		if !item.InitialTotal.Equal(item.Total) {
			t.Fatalf("item initial_total %s != total %s", item.InitialTotal, item.Total)
		}
	}
}

func TestCreateEmptyCartZeroTotal(t *testing.T) {
	repo := newStubOrderRepo()
	svc := testService(t, repo, &stubCartRepo{})

	order, err := svc.Create(context.Background(), CreateInput{
		CartID:   "empty-cart",
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(order.Items) != 0 {
		t.Fatalf("items = %d", len(order.Items))
	}
	if !order.Total.IsZero() {
		t.Fatalf("total = %s, want 0", order.Total)
	}
}

func TestCreateRollsBackOnBrokenLine(t *testing.T) {
	line := cartLine(uuid.New(), "10.00", "0.00", "0.00", "0.00")
	line.Product = nil
	repo := newStubOrderRepo()
	svc := testService(t, repo, &stubCartRepo{lines: []models.CartItem{line}})

	_, err := svc.Create(context.Background(), CreateInput{
		CartID:   "cart-1",
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeIntegrity {
		t.Fatalf("error = %v, want code %q", err, pkgerrors.CodeIntegrity)
	}
	if len(repo.created) != 0 {
		t.Fatalf("orders created = %d, want 0", len(repo.created))
	}
}

func TestCreateValidatesContactFields(t *testing.T) {
	svc := testService(t, newStubOrderRepo(), &stubCartRepo{})

	cases := []CreateInput{
		{FullName: "Ada", Email: "ada@example.com"},
		{CartID: "cart-1", Email: "ada@example.com"},
		{CartID: "cart-1", FullName: "Ada"},
	}
	for _, input := range cases {
		_, err := svc.Create(context.Background(), input)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("input %+v: error = %v, want validation", input, err)
		}
	}
}

func TestGetByOIDNotFound(t *testing.T) {
	svc := testService(t, newStubOrderRepo(), &stubCartRepo{})

	_, err := svc.GetByOID(context.Background(), "MISSING")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v, want code %q", err, pkgerrors.CodeNotFound)
	}
}
