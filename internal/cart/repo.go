package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
)

// Repository persists cart items keyed by the client cart identifier.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCartAndProduct(ctx context.Context, cartID string, productID uuid.UUID) (*models.CartItem, error)
	FindByCartAndID(ctx context.Context, cartID string, itemID uuid.UUID, userID *uuid.UUID) (*models.CartItem, error)
	List(ctx context.Context, cartID string, userID *uuid.UUID) ([]models.CartItem, error)
	ListByCart(ctx context.Context, cartID string) ([]models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	Update(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, itemID uuid.UUID) error
	DeleteByCart(ctx context.Context, cartID string) error
	DeleteAbandonedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByCartAndProduct(ctx context.Context, cartID string, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByCartAndID looks up one cart line. With a user id the lookup also
// requires ownership, so a signed-in user's line is invisible to callers who
// only hold the cart and item identifiers.
func (r *repository) FindByCartAndID(ctx context.Context, cartID string, itemID uuid.UUID, userID *uuid.UUID) (*models.CartItem, error) {
	query := r.db.WithContext(ctx).Where("cart_id = ? AND id = ?", cartID, itemID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var item models.CartItem
	if err := query.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns the union of the identified cart and any items the signed-in
// user left behind under older cart identifiers.
func (r *repository) List(ctx context.Context, cartID string, userID *uuid.UUID) ([]models.CartItem, error) {
	query := r.db.WithContext(ctx).Preload("Product")
	if userID != nil {
		query = query.Where("(cart_id = ? AND user_id = ?) OR user_id = ?", cartID, *userID, *userID)
	} else {
		query = query.Where("cart_id = ?", cartID)
	}

	var rows []models.CartItem
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByCart(ctx context.Context, cartID string) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Update(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) Delete(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.CartItem{}, "id = ?", itemID).Error
}

func (r *repository) DeleteByCart(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.CartItem{}, "cart_id = ?", cartID).Error
}

// DeleteAbandonedBefore purges cart items not touched since the cutoff. The
// cron worker passes its own transaction handle.
func (r *repository) DeleteAbandonedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
