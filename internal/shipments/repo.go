package shipments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

// Repository persists shipments, their append-only event trail, and the
// courier/manager profiles consulted during assignment.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error)
	// FindByOrderIDForUpdate loads the shipment under a row lock; call
	// inside a transaction.
	FindByOrderIDForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error)
	Create(ctx context.Context, shipment *models.Shipment) error
	Update(ctx context.Context, shipment *models.Shipment) error
	AppendEvent(ctx context.Context, event *models.ShipmentEvent) error
	ListEvents(ctx context.Context, shipmentID uuid.UUID) ([]models.ShipmentEvent, error)
	ListByCourier(ctx context.Context, courierID uuid.UUID) ([]models.Shipment, error)
	ListByStatus(ctx context.Context, status enums.ShipmentStatus) ([]models.Shipment, error)
	ListUnassignedPaidOrders(ctx context.Context) ([]models.Order, error)
	ListActiveCouriers(ctx context.Context) ([]models.CourierProfile, error)
	FindCourierProfile(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error)
	FindWarehouseManagerProfile(ctx context.Context, userID uuid.UUID) (*models.WarehouseManagerProfile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shipments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		First(&shipment, "order_id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) FindByOrderIDForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&shipment, "order_id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *repository) Create(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *repository) Update(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Save(shipment).Error
}

func (r *repository) AppendEvent(ctx context.Context, event *models.ShipmentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListEvents(ctx context.Context, shipmentID uuid.UUID) ([]models.ShipmentEvent, error) {
	var events []models.ShipmentEvent
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListByCourier(ctx context.Context, courierID uuid.UUID) ([]models.Shipment, error) {
	var rows []models.Shipment
	err := r.db.WithContext(ctx).
		Preload("Order").
		Where("courier_id = ?", courierID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.ShipmentStatus) ([]models.Shipment, error) {
	var rows []models.Shipment
	err := r.db.WithContext(ctx).
		Preload("Order").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListUnassignedPaidOrders(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("payment_status = ?", enums.PaymentStatusPaid).
		Where("id NOT IN (?)", r.db.Model(&models.Shipment{}).Select("order_id")).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListActiveCouriers(ctx context.Context) ([]models.CourierProfile, error) {
	var rows []models.CourierProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindCourierProfile(ctx context.Context, userID uuid.UUID) (*models.CourierProfile, error) {
	var profile models.CourierProfile
	err := r.db.WithContext(ctx).
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindWarehouseManagerProfile(ctx context.Context, userID uuid.UUID) (*models.WarehouseManagerProfile, error) {
	var profile models.WarehouseManagerProfile
	err := r.db.WithContext(ctx).
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
