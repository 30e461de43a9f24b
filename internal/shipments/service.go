package shipments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies the caller for shipment authorization decisions. It is a
// projection of the access-token claims.
type Actor struct {
	UserID           uuid.UUID
	Role             enums.UserRole
	VendorID         *uuid.UUID
	IsStaff          bool
	CourierActive    bool
	WarehouseManager bool
}

// TrackResult bundles the shipment with its full audit trail.
type TrackResult struct {
	Shipment *models.Shipment       `json:"shipment"`
	Events   []models.ShipmentEvent `json:"events"`
}

// Service drives courier assignment and delivery tracking.
type Service interface {
	Assign(ctx context.Context, orderOID string, courierID uuid.UUID, actor Actor) (*models.Shipment, error)
	UpdateStatus(ctx context.Context, orderOID string, status enums.ShipmentStatus, actor Actor) (*models.Shipment, error)
	Track(ctx context.Context, orderOID string, actor Actor) (*TrackResult, error)
	ListForCourier(ctx context.Context, courierID uuid.UUID) ([]models.Shipment, error)
	ListByStatus(ctx context.Context, status enums.ShipmentStatus) ([]models.Shipment, error)
	ListUnassignedOrders(ctx context.Context) ([]models.Order, error)
	ListActiveCouriers(ctx context.Context) ([]models.CourierProfile, error)
}

type service struct {
	repo       Repository
	ordersRepo orders.Repository
	tx         txRunner
	logg       *logger.Logger
	now        func() time.Time
}

// NewService wires the shipment dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shipments repository required")
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
	return &service{
		repo:       repo,
		ordersRepo: ordersRepo,
		tx:         tx,
		logg:       logg,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// Assign puts a courier on the order's shipment, creating the shipment on
// first assignment. The order row stays locked for the whole operation so two
// managers racing on the same order serialize.
func (s *service) Assign(ctx context.Context, orderOID string, courierID uuid.UUID, actor Actor) (*models.Shipment, error) {
	if strings.TrimSpace(orderOID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order oid is required")
	}
	if courierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier id is required")
	}
	if !actor.IsStaff && !actor.WarehouseManager {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "courier assignment requires a warehouse manager")
	}

	var shipment *models.Shipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		order, err := ordersRepo.FindByOIDForUpdate(ctx, orderOID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.PaymentStatus != enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not paid")
		}

		courier, err := repo.FindCourierProfile(ctx, courierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "courier profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load courier profile")
		}
		if !courier.Active {
			return pkgerrors.New(pkgerrors.CodeValidation, "courier is not active")
		}

		now := s.now()
		assignedBy := actor.UserID

		existing, err := repo.FindByOrderID(ctx, order.ID)
		switch {
		case err == nil:
			existing.CourierID = &courier.UserID
			existing.AssignedByID = &assignedBy
			existing.Status = enums.ShipmentStatusAssigned
			existing.AssignedAt = &now
			if err := repo.Update(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipment")
			}
			shipment = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := &models.Shipment{
				OrderID:      order.ID,
				CourierID:    &courier.UserID,
				AssignedByID: &assignedBy,
				Status:       enums.ShipmentStatusAssigned,
				AssignedAt:   &now,
			}
			if err := repo.Create(ctx, created); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipment")
			}
			if err := repo.AppendEvent(ctx, &models.ShipmentEvent{
				ShipmentID:  created.ID,
				EventType:   enums.ShipmentEventCreated,
				Message:     "shipment created",
				CreatedByID: &assignedBy,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append shipment event")
			}
			shipment = created
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
		}

		if err := repo.AppendEvent(ctx, &models.ShipmentEvent{
			ShipmentID:  shipment.ID,
			EventType:   enums.ShipmentEventAssigned,
			Message:     fmt.Sprintf("courier %s assigned", courier.UserID),
			CreatedByID: &assignedBy,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append shipment event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_oid":  orderOID,
		"courier_id": courierID.String(),
	})
	s.logg.Info(ctx, "courier assigned")
	return shipment, nil
}

// UpdateStatus applies a courier-reported transition. picked_up_at and
// delivered_at are set on the first transition into those statuses only;
// reaching delivered cascades onto the order's line items and fulfillment
// status.
func (s *service) UpdateStatus(ctx context.Context, orderOID string, status enums.ShipmentStatus, actor Actor) (*models.Shipment, error) {
	if strings.TrimSpace(orderOID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order oid is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid shipment status %q", status))
	}

	var shipment *models.Shipment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		order, err := ordersRepo.FindByOID(ctx, orderOID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		locked, err := repo.FindByOrderIDForUpdate(ctx, order.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
		}
		if locked.CourierID == nil || *locked.CourierID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "shipment belongs to another courier")
		}

		now := s.now()
		locked.Status = status
		if status == enums.ShipmentStatusPickedUp && locked.PickedUpAt == nil {
			locked.PickedUpAt = &now
		}
		if status == enums.ShipmentStatusDelivered && locked.DeliveredAt == nil {
			locked.DeliveredAt = &now
		}
		if err := repo.Update(ctx, locked); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipment")
		}

		actorID := actor.UserID
		if err := repo.AppendEvent(ctx, &models.ShipmentEvent{
			ShipmentID:  locked.ID,
			EventType:   enums.EventTypeForStatus(status),
			Message:     fmt.Sprintf("status set to %s", status),
			CreatedByID: &actorID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append shipment event")
		}

		if status == enums.ShipmentStatusDelivered {
			if err := ordersRepo.UpdateItemsDeliveryStatus(ctx, order.ID, enums.DeliveryStatusDelivered.String()); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade delivery status")
			}
			order.OrderStatus = enums.OrderStatusFulfilled
			if err := ordersRepo.Update(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order fulfilled")
			}
		}

		shipment = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_oid": orderOID,
		"status":    status.String(),
	})
	s.logg.Info(ctx, "shipment status updated")
	return shipment, nil
}

// Track returns the shipment and its events to any party with a stake in the
// order: staff, the buyer, the assigned courier, an active warehouse manager,
// or a vendor with a line item on the order.
func (s *service) Track(ctx context.Context, orderOID string, actor Actor) (*TrackResult, error) {
	if strings.TrimSpace(orderOID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order oid is required")
	}

	order, err := s.ordersRepo.FindByOID(ctx, orderOID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	shipment, err := s.repo.FindByOrderID(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
	}

	if !s.mayTrack(order, shipment, actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to track this shipment")
	}

	events, err := s.repo.ListEvents(ctx, shipment.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipment events")
	}
	return &TrackResult{Shipment: shipment, Events: events}, nil
}

func (s *service) mayTrack(order *models.Order, shipment *models.Shipment, actor Actor) bool {
	if actor.IsStaff {
		return true
	}
	if order.BuyerID != nil && *order.BuyerID == actor.UserID {
		return true
	}
	if shipment.CourierID != nil && *shipment.CourierID == actor.UserID {
		return true
	}
	if actor.WarehouseManager {
		return true
	}
	if actor.VendorID != nil && order.VendorIDs.Contains(*actor.VendorID) {
		return true
	}
	return false
}

func (s *service) ListForCourier(ctx context.Context, courierID uuid.UUID) ([]models.Shipment, error) {
	if courierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier id is required")
	}
	rows, err := s.repo.ListByCourier(ctx, courierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipments")
	}
	return rows, nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.ShipmentStatus) ([]models.Shipment, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipment status")
	}
	rows, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipments")
	}
	return rows, nil
}

func (s *service) ListUnassignedOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.repo.ListUnassignedPaidOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unassigned orders")
	}
	return rows, nil
}

func (s *service) ListActiveCouriers(ctx context.Context) ([]models.CourierProfile, error) {
	rows, err := s.repo.ListActiveCouriers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list couriers")
	}
	return rows, nil
}
