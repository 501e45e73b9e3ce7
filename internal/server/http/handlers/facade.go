package handlers

import (
	"context"
	"time"

	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
	"github.com/bricklane/storefront/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, name, email, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	ParseToken(token string) (int64, int, error)
}

// CatalogFacade exposes product catalog operations.
type CatalogFacade interface {
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	Products(ctx context.Context, page repository.Page) ([]model.Product, int, error)
}

// OrderFacade exposes order lifecycle operations.
type OrderFacade interface {
	CreateOrder(ctx context.Context, userID int64, in usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, userID int64, admin bool, number string) (*model.Order, error)
	UserOrders(ctx context.Context, userID int64, status model.OrderStatus, page repository.Page) ([]model.Order, int, error)
	AllOrders(ctx context.Context, status model.OrderStatus, from, to *time.Time, search string, page repository.Page) ([]model.Order, int, error)
	CancelOrder(ctx context.Context, userID int64, admin bool, number, reason string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, number string, in usecase.StatusUpdateInput) (*model.Order, error)
	OrderStats(ctx context.Context, period string, topN int) (*model.OrderStats, error)
}

// TicketFacade exposes support ticket operations.
type TicketFacade interface {
	CreateTicket(ctx context.Context, userID int64, in usecase.CreateTicketInput) (*model.Ticket, error)
	Ticket(ctx context.Context, userID int64, admin bool, number string) (*model.Ticket, error)
	UserTickets(ctx context.Context, userID int64, status model.TicketStatus, page repository.Page) ([]model.Ticket, int, error)
	AllTickets(ctx context.Context, status model.TicketStatus, page repository.Page) ([]model.Ticket, int, error)
	AddTicketMessage(ctx context.Context, userID int64, admin bool, number, body string) (*model.Ticket, error)
	UpdateTicketStatus(ctx context.Context, number string, in usecase.TicketStatusUpdateInput) (*model.Ticket, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CatalogFacade
	OrderFacade
	TicketFacade
}
