package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/bricklane/storefront/internal/domain/errors"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
)

// CatalogUseCase manages the product catalog.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// Create adds a new catalog entry.
func (u *CatalogUseCase) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	return u.products.Create(ctx, product)
}

// Update replaces mutable product fields.
func (u *CatalogUseCase) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product.ID == 0 {
		return nil, fmt.Errorf("product id is required: %w", domainErrors.ErrValidation)
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	return u.products.Update(ctx, product)
}

// Get returns a single product.
func (u *CatalogUseCase) Get(ctx context.Context, id int64) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// List returns a catalog page.
func (u *CatalogUseCase) List(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	return u.products.List(ctx, normalizePage(page))
}

func validateProduct(product *model.Product) error {
	if product.Name == "" {
		return fmt.Errorf("product name is required: %w", domainErrors.ErrValidation)
	}
	if product.Price < 0 {
		return fmt.Errorf("product price must not be negative: %w", domainErrors.ErrValidation)
	}
	if product.Quantity < 0 {
		return fmt.Errorf("product quantity must not be negative: %w", domainErrors.ErrValidation)
	}
	return nil
}
