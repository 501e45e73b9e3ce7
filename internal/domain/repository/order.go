package repository

import (
	"context"
	"time"

	"github.com/bricklane/storefront/internal/domain/model"
)

// Page describes pagination bounds.
type Page struct {
	Number int
	Size   int
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// OrderFilter narrows order listings. Zero values mean "no constraint".
type OrderFilter struct {
	UserID int64
	Status model.OrderStatus
	From   *time.Time
	To     *time.Time
	Search string
	Page   Page
}

// OrderRepository describes persistence operations with orders.
//
// Create persists the order and decrements stock for every line item within a
// single transaction; a conditional decrement failing on any line rolls the
// whole order back. UpdateStatus and Cancel enforce transition legality under
// the same row lock that applies their effects, append exactly one history
// entry and never mutate prior entries.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, number string, target model.OrderStatus, note, updatedBy string, tracking *model.TrackingUpdate) (*model.Order, error)
	Cancel(ctx context.Context, number, reason, cancelledBy string) (*model.Order, error)
	Stats(ctx context.Context, since time.Time, topN int) (*model.OrderStats, error)
}
