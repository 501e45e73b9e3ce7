package repository

import (
	"context"

	"github.com/bricklane/storefront/internal/domain/model"
)

// ProductRepository describes catalog persistence. AdjustStock is the atomic
// increment/decrement contract used by the order lifecycle; a negative delta
// that would overdraw stock fails with InsufficientStockError and leaves the
// row untouched.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, page Page) ([]model.Product, int, error)
	AdjustStock(ctx context.Context, id int64, delta int) error
}
