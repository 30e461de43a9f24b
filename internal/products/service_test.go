package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
)

type stubRepo struct {
	published  []models.Product
	featured   []models.Product
	bySlug     map[string]*models.Product
	categories []models.Category
	brands     []models.Brand

	lastSearch string
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if p, ok := s.bySlug[slug]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListPublished(ctx context.Context, search string) ([]models.Product, error) {
	s.lastSearch = search
	return s.published, nil
}

func (s *stubRepo) ListFeatured(ctx context.Context) ([]models.Product, error) {
	return s.featured, nil
}

func (s *stubRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (s *stubRepo) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *stubRepo) ListActiveBrands(ctx context.Context) ([]models.Brand, error) {
	return s.brands, nil
}

func (s *stubRepo) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return nil
}

func TestListPublishedPassesSearch(t *testing.T) {
	repo := &stubRepo{published: []models.Product{{Title: "Desk Lamp"}}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	rows, err := svc.ListPublished(context.Background(), "lamp")
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Desk Lamp" {
		t.Fatalf("rows = %+v", rows)
	}
	if repo.lastSearch != "lamp" {
		t.Fatalf("search = %q", repo.lastSearch)
	}
}

func TestListCategoriesAndBrands(t *testing.T) {
	repo := &stubRepo{
		categories: []models.Category{{Title: "Lighting", Slug: "lighting", Active: true}},
		brands:     []models.Brand{{Title: "Lumina", Active: true}},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	categories, err := svc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 1 || categories[0].Slug != "lighting" {
		t.Fatalf("categories = %+v", categories)
	}

	brands, err := svc.ListBrands(context.Background())
	if err != nil {
		t.Fatalf("ListBrands: %v", err)
	}
	if len(brands) != 1 || brands[0].Title != "Lumina" {
		t.Fatalf("brands = %+v", brands)
	}
}

func TestGetBySlug(t *testing.T) {
	slug := "desk-lamp"
	repo := &stubRepo{bySlug: map[string]*models.Product{
		slug: {Slug: slug, Title: "Desk Lamp"},
	}}
	svc, _ := NewService(repo)

	product, err := svc.GetBySlug(context.Background(), "  desk-lamp ")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if product.Title != "Desk Lamp" {
		t.Fatalf("title = %q", product.Title)
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	svc, _ := NewService(&stubRepo{})

	_, err := svc.GetBySlug(context.Background(), "missing")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v, want code %q", err, pkgerrors.CodeNotFound)
	}
}

func TestGetBySlugRequiresSlug(t *testing.T) {
	svc, _ := NewService(&stubRepo{})

	_, err := svc.GetBySlug(context.Background(), "  ")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v, want code %q", err, pkgerrors.CodeValidation)
	}
}
