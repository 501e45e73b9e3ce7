package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bricklane/storefront/internal/adapter/cache"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
	"github.com/bricklane/storefront/internal/usecase"
)

// StorefrontFacade aggregates the use cases behind a single surface for the
// HTTP layer.
type StorefrontFacade struct {
	auth    *usecase.AuthUseCase
	orders  *usecase.OrderUseCase
	catalog *usecase.CatalogUseCase
	tickets *usecase.TicketUseCase

	statsCache cache.Cache
	statsTTL   time.Duration
	logger     *slog.Logger
}

// NewStorefrontFacade constructs the facade.
func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	catalog *usecase.CatalogUseCase,
	tickets *usecase.TicketUseCase,
	statsCache cache.Cache,
	statsTTL time.Duration,
	logger *slog.Logger,
) *StorefrontFacade {
	return &StorefrontFacade{
		auth:       auth,
		orders:     orders,
		catalog:    catalog,
		tickets:    tickets,
		statsCache: statsCache,
		statsTTL:   statsTTL,
		logger:     logger,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, login, name, email, password string) (*model.User, string, error) {
	return f.auth.Register(ctx, login, name, email, password)
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *StorefrontFacade) ParseToken(token string) (int64, int, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return f.auth.GetByID(ctx, id)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	return f.catalog.Create(ctx, product)
}

func (f *StorefrontFacade) UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	return f.catalog.Update(ctx, product)
}

func (f *StorefrontFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Get(ctx, id)
}

func (f *StorefrontFacade) Products(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	return f.catalog.List(ctx, page)
}

func (f *StorefrontFacade) CreateOrder(ctx context.Context, userID int64, in usecase.CreateOrderInput) (*model.Order, error) {
	order, err := f.orders.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	f.invalidateStats(ctx)
	return order, nil
}

func (f *StorefrontFacade) Order(ctx context.Context, userID int64, admin bool, number string) (*model.Order, error) {
	return f.orders.Get(ctx, userID, admin, number)
}

func (f *StorefrontFacade) UserOrders(ctx context.Context, userID int64, status model.OrderStatus, page repository.Page) ([]model.Order, int, error) {
	return f.orders.ListForUser(ctx, userID, status, page)
}

func (f *StorefrontFacade) AllOrders(ctx context.Context, status model.OrderStatus, from, to *time.Time, search string, page repository.Page) ([]model.Order, int, error) {
	return f.orders.ListAll(ctx, status, from, to, search, page)
}

func (f *StorefrontFacade) CancelOrder(ctx context.Context, userID int64, admin bool, number, reason string) (*model.Order, error) {
	order, err := f.orders.Cancel(ctx, userID, admin, number, reason)
	if err != nil {
		return nil, err
	}
	f.invalidateStats(ctx)
	return order, nil
}

func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, number string, in usecase.StatusUpdateInput) (*model.Order, error) {
	order, err := f.orders.UpdateStatus(ctx, number, in)
	if err != nil {
		return nil, err
	}
	f.invalidateStats(ctx)
	return order, nil
}

// OrderStats serves aggregates through a short-lived cache so admin dashboard
// refreshes do not hammer the database.
func (f *StorefrontFacade) OrderStats(ctx context.Context, period string, topN int) (*model.OrderStats, error) {
	key := statsKey(period)

	var cached model.OrderStats
	if err := f.statsCache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		f.logger.Warn("stats cache read failed", slog.String("error", err.Error()))
	}

	stats, err := f.orders.Stats(ctx, period, topN)
	if err != nil {
		return nil, err
	}
	if err := f.statsCache.SetJSON(ctx, key, stats, f.statsTTL); err != nil {
		f.logger.Warn("stats cache write failed", slog.String("error", err.Error()))
	}
	return stats, nil
}

func (f *StorefrontFacade) CreateTicket(ctx context.Context, userID int64, in usecase.CreateTicketInput) (*model.Ticket, error) {
	return f.tickets.Create(ctx, userID, in)
}

func (f *StorefrontFacade) Ticket(ctx context.Context, userID int64, admin bool, number string) (*model.Ticket, error) {
	return f.tickets.Get(ctx, userID, admin, number)
}

func (f *StorefrontFacade) UserTickets(ctx context.Context, userID int64, status model.TicketStatus, page repository.Page) ([]model.Ticket, int, error) {
	return f.tickets.ListForUser(ctx, userID, status, page)
}

func (f *StorefrontFacade) AllTickets(ctx context.Context, status model.TicketStatus, page repository.Page) ([]model.Ticket, int, error) {
	return f.tickets.ListAll(ctx, status, page)
}

func (f *StorefrontFacade) AddTicketMessage(ctx context.Context, userID int64, admin bool, number, body string) (*model.Ticket, error) {
	return f.tickets.AddMessage(ctx, userID, admin, number, body)
}

func (f *StorefrontFacade) UpdateTicketStatus(ctx context.Context, number string, in usecase.TicketStatusUpdateInput) (*model.Ticket, error) {
	return f.tickets.UpdateStatus(ctx, number, in)
}

func (f *StorefrontFacade) invalidateStats(ctx context.Context) {
	keys := make([]string, 0, 4)
	for _, period := range []string{"today", "week", "month", "year"} {
		keys = append(keys, statsKey(period))
	}
	if err := f.statsCache.Del(ctx, keys...); err != nil {
		f.logger.Warn("stats cache invalidation failed", slog.String("error", err.Error()))
	}
}

func statsKey(period string) string {
	if period == "" {
		period = "today"
	}
	return fmt.Sprintf("stats:%s", period)
}
