package test

import (
	"context"
	"sync"
	"time"

	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
	"github.com/bricklane/storefront/internal/usecase"
)

// NotificationDispatcherStub records enqueued notifications.
type NotificationDispatcherStub struct {
	mu            sync.Mutex
	CreatedOrders []string
	StatusOrders  []string
}

// OrderCreated records the order number.
func (s *NotificationDispatcherStub) OrderCreated(order *model.Order, _ *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreatedOrders = append(s.CreatedOrders, order.Number)
}

// OrderStatusChanged records the order number.
func (s *NotificationDispatcherStub) OrderStatusChanged(order *model.Order, _ *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StatusOrders = append(s.StatusOrders, order.Number)
}

// PaymentVerifierStub returns a configurable verification result.
type PaymentVerifierStub struct {
	Status   model.PaymentStatus
	Err      error
	VerifyFn func(context.Context, model.PaymentMethod, string) (model.PaymentStatus, error)
	Calls    []string
}

// Verify records the transaction and returns the configured outcome.
func (s *PaymentVerifierStub) Verify(ctx context.Context, method model.PaymentMethod, transactionID string) (model.PaymentStatus, error) {
	s.Calls = append(s.Calls, transactionID)
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, method, transactionID)
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.Status == "" {
		return model.PaymentStatusCompleted, nil
	}
	return s.Status, nil
}

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string, string) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (int64, int, error)
}

// Register returns a token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, name, email, password string) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, name, email, password)
	}
	return &model.User{ID: 1, Login: login, Name: name, Email: email}, "token", nil
}

// Authenticate returns a token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.User{ID: 1, Login: login}, "token", nil
}

// ParseToken returns the stored identifier for the authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (int64, int, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, 0, nil
}

// CatalogFacadeStub simulates catalog operations.
type CatalogFacadeStub struct {
	CreateFn func(context.Context, *model.Product) (*model.Product, error)
	UpdateFn func(context.Context, *model.Product) (*model.Product, error)
	GetFn    func(context.Context, int64) (*model.Product, error)
	ListFn   func(context.Context, repository.Page) ([]model.Product, int, error)
}

func (s CatalogFacadeStub) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, product)
	}
	created := *product
	created.ID = 1
	return &created, nil
}

func (s CatalogFacadeStub) UpdateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, product)
	}
	return product, nil
}

func (s CatalogFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "product", Price: 100, Quantity: 10}, nil
}

func (s CatalogFacadeStub) Products(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, page)
	}
	return []model.Product{{ID: 1, Name: "product"}}, 1, nil
}

// OrderFacadeStub simulates order lifecycle operations.
type OrderFacadeStub struct {
	CreateFn       func(context.Context, int64, usecase.CreateOrderInput) (*model.Order, error)
	GetFn          func(context.Context, int64, bool, string) (*model.Order, error)
	UserOrdersFn   func(context.Context, int64, model.OrderStatus, repository.Page) ([]model.Order, int, error)
	AllOrdersFn    func(context.Context, model.OrderStatus, *time.Time, *time.Time, string, repository.Page) ([]model.Order, int, error)
	CancelFn       func(context.Context, int64, bool, string, string) (*model.Order, error)
	UpdateStatusFn func(context.Context, string, usecase.StatusUpdateInput) (*model.Order, error)
	StatsFn        func(context.Context, string, int) (*model.OrderStats, error)
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, userID int64, in usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, in)
	}
	return &model.Order{Number: "ORD-1", UserID: userID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, userID int64, admin bool, number string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID, admin, number)
	}
	return &model.Order{Number: number, UserID: userID}, nil
}

func (s OrderFacadeStub) UserOrders(ctx context.Context, userID int64, status model.OrderStatus, page repository.Page) ([]model.Order, int, error) {
	if s.UserOrdersFn != nil {
		return s.UserOrdersFn(ctx, userID, status, page)
	}
	return []model.Order{{Number: "ORD-1", UserID: userID}}, 1, nil
}

func (s OrderFacadeStub) AllOrders(ctx context.Context, status model.OrderStatus, from, to *time.Time, search string, page repository.Page) ([]model.Order, int, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, status, from, to, search, page)
	}
	return []model.Order{{Number: "ORD-1"}}, 1, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, userID int64, admin bool, number, reason string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, userID, admin, number, reason)
	}
	return &model.Order{Number: number, UserID: userID, Status: model.OrderStatusCancelled}, nil
}

func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, number string, in usecase.StatusUpdateInput) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, number, in)
	}
	return &model.Order{Number: number, Status: in.Status}, nil
}

func (s OrderFacadeStub) OrderStats(ctx context.Context, period string, topN int) (*model.OrderStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx, period, topN)
	}
	return &model.OrderStats{ByStatus: map[model.OrderStatus]int{}}, nil
}

// TicketFacadeStub simulates support ticket operations.
type TicketFacadeStub struct {
	CreateFn       func(context.Context, int64, usecase.CreateTicketInput) (*model.Ticket, error)
	GetFn          func(context.Context, int64, bool, string) (*model.Ticket, error)
	UserTicketsFn  func(context.Context, int64, model.TicketStatus, repository.Page) ([]model.Ticket, int, error)
	AllTicketsFn   func(context.Context, model.TicketStatus, repository.Page) ([]model.Ticket, int, error)
	AddMessageFn   func(context.Context, int64, bool, string, string) (*model.Ticket, error)
	UpdateStatusFn func(context.Context, string, usecase.TicketStatusUpdateInput) (*model.Ticket, error)
}

func (s TicketFacadeStub) CreateTicket(ctx context.Context, userID int64, in usecase.CreateTicketInput) (*model.Ticket, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, in)
	}
	return &model.Ticket{Number: "TKT-1", UserID: userID, Subject: in.Subject, Status: model.TicketStatusOpen}, nil
}

func (s TicketFacadeStub) Ticket(ctx context.Context, userID int64, admin bool, number string) (*model.Ticket, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID, admin, number)
	}
	return &model.Ticket{Number: number, UserID: userID}, nil
}

func (s TicketFacadeStub) UserTickets(ctx context.Context, userID int64, status model.TicketStatus, page repository.Page) ([]model.Ticket, int, error) {
	if s.UserTicketsFn != nil {
		return s.UserTicketsFn(ctx, userID, status, page)
	}
	return []model.Ticket{{Number: "TKT-1", UserID: userID}}, 1, nil
}

func (s TicketFacadeStub) AllTickets(ctx context.Context, status model.TicketStatus, page repository.Page) ([]model.Ticket, int, error) {
	if s.AllTicketsFn != nil {
		return s.AllTicketsFn(ctx, status, page)
	}
	return []model.Ticket{{Number: "TKT-1"}}, 1, nil
}

func (s TicketFacadeStub) AddTicketMessage(ctx context.Context, userID int64, admin bool, number, body string) (*model.Ticket, error) {
	if s.AddMessageFn != nil {
		return s.AddMessageFn(ctx, userID, admin, number, body)
	}
	return &model.Ticket{Number: number, UserID: userID}, nil
}

func (s TicketFacadeStub) UpdateTicketStatus(ctx context.Context, number string, in usecase.TicketStatusUpdateInput) (*model.Ticket, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, number, in)
	}
	return &model.Ticket{Number: number, Status: in.Status}, nil
}

// StorefrontFacadeStub aggregates facade stubs for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
	TicketFacadeStub
}
