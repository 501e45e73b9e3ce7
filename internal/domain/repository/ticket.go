package repository

import (
	"context"

	"github.com/bricklane/storefront/internal/domain/model"
)

// TicketFilter narrows ticket listings. Zero values mean "no constraint".
type TicketFilter struct {
	UserID int64
	Status model.TicketStatus
	Page   Page
}

// TicketRepository describes persistence operations with support tickets.
// Messages are append-only; UpdateStatus enforces transition legality and
// records the satisfaction rating only together with closing.
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket, firstMessage string) (*model.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*model.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]model.Ticket, int, error)
	AddMessage(ctx context.Context, number string, message model.TicketMessage) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, number string, target model.TicketStatus, satisfaction *int) (*model.Ticket, error)
}
