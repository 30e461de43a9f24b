package shipments

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	dbtypes "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/types"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type stubShipmentRepo struct {
	shipment          *models.Shipment
	events            []models.ShipmentEvent
	couriers          map[uuid.UUID]*models.CourierProfile
	warehouseManagers map[uuid.UUID]*models.WarehouseManagerProfile
}

func newStubShipmentRepo() *stubShipmentRepo {
	return &stubShipmentRepo{
		couriers:          map[uuid.UUID]*models.CourierProfile{},
		warehouseManagers: map[uuid.UUID]*models.WarehouseManagerProfile{},
	}
}

func (s *stubShipmentRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubShipmentRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error) {
	if s.shipment != nil && s.shipment.OrderID == orderID {
		return s.shipment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShipmentRepo) FindByOrderIDForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error) {
	return s.FindByOrderID(ctx, orderID)
}

func (s *stubShipmentRepo) Create(ctx context.Context, shipment *models.Shipment) error {
	shipment.ID = uuid.New()
	s.shipment = shipment
	return nil
}

func (s *stubShipmentRepo) Update(ctx context.Context, shipment *models.Shipment) error {
	s.shipment = shipment
	return nil
}

func (s *stubShipmentRepo) AppendEvent(ctx context.Context, event *models.ShipmentEvent) error {
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	s.events = append(s.events, *event)
	return nil
}

func (s *stubShipmentRepo) ListEvents(ctx context.Context, shipmentID uuid.UUID) ([]models.ShipmentEvent, error) {
	return s.events, nil
}

func (s *stubShipmentRepo) ListByCourier(ctx context.Context, courierID uuid.UUID) ([]models.Shipment, error) {
	if s.shipment != nil && s.shipment.CourierID != nil && *s.shipment.CourierID == courierID {
		return []models.Shipment{*s.shipment}, nil
	}
	return nil, nil
}

func (s *stubShipmentRepo) ListByStatus(ctx context.Context, status enums.ShipmentStatus) ([]models.Shipment, error) {
	if s.shipment != nil && s.shipment.Status == status {
		return []models.Shipment{*s.shipment}, nil
	}
	return nil, nil
}

func (s *stubShipmentRepo) ListUnassignedPaidOrders(ctx context.Context) ([]models.Order, error) {
	return nil, nil
}

func (s *stubShipmentRepo) ListActiveCouriers(ctx context.Context) ([]models.CourierProfile, error) {
	var out []models.CourierProfile
	for _, p := range s.couriers {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubShipmentRepo) FindCourierProfile(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error) {
	if profile, ok := s.couriers[userID]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShipmentRepo) FindWarehouseManagerProfile(ctx context.Context, userID uuid.UUID) (*models.WarehouseManagerProfile, error) {
	if profile, ok := s.warehouseManagers[userID]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubOrderRepo struct {
	order *models.Order

	itemCascades []string
	updates      int
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrderRepo) Update(ctx context.Context, order *models.Order) error {
	s.order = order
	s.updates++
	return nil
}

func (s *stubOrderRepo) FindByOID(ctx context.Context, oid string) (*models.Order, error) {
	if s.order != nil && s.order.OID == oid {
		return s.order, nil
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
	s.itemCascades = append(s.itemCascades, status)
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository, ordersRepo orders.Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, ordersRepo, stubTx{}, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func paidOrder() *models.Order {
	buyerID := uuid.New()
	return &models.Order{
		ID:            uuid.New(),
		OID:           "ORDER1",
		BuyerID:       &buyerID,
		PaymentStatus: enums.PaymentStatusPaid,
		OrderStatus:   enums.OrderStatusPending,
		VendorIDs:     dbtypes.UUIDArray{uuid.New()},
	}
}

func manager() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleWarehouseManager, WarehouseManager: true}
}

func TestAssignCreatesShipment(t *testing.T) {
	order := paidOrder()
	courierID := uuid.New()
	repo := newStubShipmentRepo()
	repo.couriers[courierID] = &models.CourierProfile{UserID: courierID, Active: true}
	svc := newTestService(t, repo, &stubOrderRepo{order: order})

	shipment, err := svc.Assign(context.Background(), "ORDER1", courierID, manager())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if shipment.Status != enums.ShipmentStatusAssigned {
		t.Fatalf("status = %q", shipment.Status)
	}
	if shipment.CourierID == nil || *shipment.CourierID != courierID {
		t.Fatalf("courier = %v", shipment.CourierID)
	}
	if shipment.AssignedAt == nil {
		t.Fatal("assigned_at not set")
	}
	if len(repo.events) != 2 {
		t.Fatalf("events = %d, want created + assigned", len(repo.events))
	}
	if repo.events[0].EventType != enums.ShipmentEventCreated || repo.events[1].EventType != enums.ShipmentEventAssigned {
		t.Fatalf("event types = %v, %v", repo.events[0].EventType, repo.events[1].EventType)
	}
}

func TestAssignRequiresActiveCourier(t *testing.T) {
	order := paidOrder()
	courierID := uuid.New()
	repo := newStubShipmentRepo()
	repo.couriers[courierID] = &models.CourierProfile{UserID: courierID, Active: false}
	svc := newTestService(t, repo, &stubOrderRepo{order: order})

	_, err := svc.Assign(context.Background(), "ORDER1", courierID, manager())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v, want validation", err)
	}
}

func TestAssignRequiresPaidOrder(t *testing.T) {
	order := paidOrder()
	order.PaymentStatus = enums.PaymentStatusProcessing
	courierID := uuid.New()
	repo := newStubShipmentRepo()
	repo.couriers[courierID] = &models.CourierProfile{UserID: courierID, Active: true}
	svc := newTestService(t, repo, &stubOrderRepo{order: order})

	_, err := svc.Assign(context.Background(), "ORDER1", courierID, manager())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("error = %v, want state conflict", err)
	}
}

func TestAssignRequiresManagerRole(t *testing.T) {
	order := paidOrder()
	repo := newStubShipmentRepo()
	svc := newTestService(t, repo, &stubOrderRepo{order: order})

	_, err := svc.Assign(context.Background(), "ORDER1", uuid.New(), Actor{UserID: uuid.New()})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
}

func assignedShipment(order *models.Order, courierID uuid.UUID) *models.Shipment {
	now := time.Now()
	return &models.Shipment{
		ID:         uuid.New(),
		OrderID:    order.ID,
		CourierID:  &courierID,
		Status:     enums.ShipmentStatusAssigned,
		AssignedAt: &now,
	}
}

func TestUpdateStatusRestrictedToAssignedCourier(t *testing.T) {
	order := paidOrder()
	courierID := uuid.New()
	repo := newStubShipmentRepo()
	repo.shipment = assignedShipment(order, courierID)
	svc := newTestService(t, repo, &stubOrderRepo{order: order})

	_, err := svc.UpdateStatus(context.Background(), "ORDER1", enums.ShipmentStatusPickedUp, Actor{UserID: uuid.New()})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	order := paidOrder()
	courierID := uuid.New()
	repo := newStubShipmentRepo()
	repo.shipment = assignedShipment(order, courierID)
	svc := newTestService(t, repo, &stubOrderRepo{order: order})

	_, err := svc.UpdateStatus(context.Background(), "ORDER1", enums.ShipmentStatus("teleported"), Actor{UserID: courierID})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v, want validation", err)
	}
}

// Couriers may report any status in the vocabulary, including the
// assignment-owned ones; those land in the audit trail as their own event
// type or as a note when no dedicated type exists.
func TestUpdateStatusAcceptsFullVocabulary(t *testing.T) {
	order := paidOrder()
	courierID := uuid.New()
	repo := newStubShipmentRepo()
	repo.shipment = assignedShipment(order, courierID)
	svc := newTestService(t, repo, &stubOrderRepo{order: order})
	courier := Actor{UserID: courierID, Role: enums.UserRoleCourier, CourierActive: true}

	shipment, err := svc.UpdateStatus(context.Background(), "ORDER1", enums.ShipmentStatusAssigned, courier)
	if err != nil {
		t.Fatalf("UpdateStatus(assigned): %v", err)
	}
	if shipment.Status != enums.ShipmentStatusAssigned {
		t.Fatalf("status = %q", shipment.Status)
	}
	if got := repo.events[len(repo.events)-1].EventType; got != enums.ShipmentEventAssigned {
		t.Fatalf("event type = %q, want assigned", got)
	}

	shipment, err = svc.UpdateStatus(context.Background(), "ORDER1", enums.ShipmentStatusPendingAssignment, courier)
	if err != nil {
		t.Fatalf("UpdateStatus(pending_assignment): %v", err)
	}
	if shipment.Status != enums.ShipmentStatusPendingAssignment {
		t.Fatalf("status = %q", shipment.Status)
	}
	if got := repo.events[len(repo.events)-1].EventType; got != enums.ShipmentEventNote {
		t.Fatalf("event type = %q, want note fallback", got)
	}
	if shipment.PickedUpAt != nil || shipment.DeliveredAt != nil {
		t.Fatal("assignment states must not stamp courier timestamps")
	}
}

func TestUpdateStatusTimestampsAreFirstWriteWins(t *testing.T) {
	order := paidOrder()
	courierID := uuid.New()
	repo := newStubShipmentRepo()
	repo.shipment = assignedShipment(order, courierID)
	svc := newTestService(t, repo, &stubOrderRepo{order: order})
	courier := Actor{UserID: courierID, Role: enums.UserRoleCourier, CourierActive: true}

	shipment, err := svc.UpdateStatus(context.Background(), "ORDER1", enums.ShipmentStatusPickedUp, courier)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if shipment.PickedUpAt == nil {
		t.Fatal("picked_up_at not set")
	}
	first := *shipment.PickedUpAt

	shipment, err = svc.UpdateStatus(context.Background(), "ORDER1", enums.ShipmentStatusPickedUp, courier)
	if err != nil {
		t.Fatalf("second UpdateStatus: %v", err)
	}
	if !shipment.PickedUpAt.Equal(first) {
		t.Fatalf("picked_up_at overwritten: %v -> %v", first, shipment.PickedUpAt)
	}
	if len(repo.events) != 2 {
		t.Fatalf("events = %d, want one per transition", len(repo.events))
	}
}

func TestUpdateStatusDeliveredCascades(t *testing.T) {
	order := paidOrder()
	courierID := uuid.New()
	repo := newStubShipmentRepo()
	repo.shipment = assignedShipment(order, courierID)
	ordersRepo := &stubOrderRepo{order: order}
	svc := newTestService(t, repo, ordersRepo)
	courier := Actor{UserID: courierID, Role: enums.UserRoleCourier, CourierActive: true}

	shipment, err := svc.UpdateStatus(context.Background(), "ORDER1", enums.ShipmentStatusDelivered, courier)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if shipment.DeliveredAt == nil {
		t.Fatal("delivered_at not set")
	}
	if len(ordersRepo.itemCascades) != 1 || ordersRepo.itemCascades[0] != enums.DeliveryStatusDelivered.String() {
		t.Fatalf("item cascades = %v", ordersRepo.itemCascades)
	}
	if ordersRepo.order.OrderStatus != enums.OrderStatusFulfilled {
		t.Fatalf("order status = %q", ordersRepo.order.OrderStatus)
	}
	if repo.events[len(repo.events)-1].EventType != enums.ShipmentEventDelivered {
		t.Fatalf("last event = %q", repo.events[len(repo.events)-1].EventType)
	}
}

func TestTrackAuthorizationLadder(t *testing.T) {
	order := paidOrder()
	courierID := uuid.New()
	vendorID := order.VendorIDs[0]
	otherVendor := uuid.New()
	repo := newStubShipmentRepo()
	repo.shipment = assignedShipment(order, courierID)
	svc := newTestService(t, repo, &stubOrderRepo{order: order})

	allowed := []Actor{
		{UserID: uuid.New(), IsStaff: true},
		{UserID: *order.BuyerID},
		{UserID: courierID},
		{UserID: uuid.New(), WarehouseManager: true},
		{UserID: uuid.New(), VendorID: &vendorID},
	}
	for _, actor := range allowed {
		if _, err := svc.Track(context.Background(), "ORDER1", actor); err != nil {
			t.Fatalf("actor %+v: unexpected track error: %v", actor, err)
		}
	}

	denied := []Actor{
		{UserID: uuid.New()},
		{UserID: uuid.New(), VendorID: &otherVendor},
	}
	for _, actor := range denied {
		_, err := svc.Track(context.Background(), "ORDER1", actor)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("actor %+v: error = %v, want forbidden", actor, err)
		}
	}
}
