package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

const featuredLimit = 3

// Repository exposes catalog reads plus the stock decrement used during
// payment finalization.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListPublished(ctx context.Context, search string) ([]models.Product, error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	ListActiveBrands(ctx context.Context) ([]models.Brand, error)
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListPublished(ctx context.Context, search string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", enums.ProductStatusPublished)
	if term := strings.TrimSpace(search); term != "" {
		query = query.Where("title ILIKE ?", "%"+term+"%")
	}

	var rows []models.Product
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("status = ? AND featured = ?", enums.ProductStatusPublished, true).
		Order("created_at DESC").
		Limit(featuredLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("title ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListActiveBrands(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("title ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DecrementStock runs the stored procedure that floors stock at zero. The
// in_stock flag is refreshed by the product trigger on the same update.
func (r *repository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Exec("CALL store_decrement_stock(?, ?)", productID, qty).Error
}
