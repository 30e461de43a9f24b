package products

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db/models"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
)

// Service covers the public catalog surface.
type Service interface {
	ListPublished(ctx context.Context, search string) ([]models.Product, error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
}

type service struct {
	repo Repository
}

// NewService wires the catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPublished(ctx context.Context, search string) ([]models.Product, error) {
	rows, err := s.repo.ListPublished(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func (s *service) ListFeatured(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	return rows, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	rows, err := s.repo.ListActiveBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return rows, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
