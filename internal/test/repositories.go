package test

import (
	"context"
	"time"

	domainErrors "github.com/bricklane/storefront/internal/domain/errors"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, name, email, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, Name: name, Email: email, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Add seeds a user into both indexes.
func (s *UserRepositoryStub) Add(user *model.User) {
	s.Users[user.Login] = user
	s.ByID[user.ID] = user
}

// ProductRepositoryStub stores products in-memory for tests.
type ProductRepositoryStub struct {
	Products map[int64]*model.Product
	Next     int64
	Err      error

	AdjustCalls []StockAdjustment
}

// StockAdjustment records one AdjustStock invocation.
type StockAdjustment struct {
	ProductID int64
	Delta     int
}

// NewProductRepositoryStub constructs stub repository with initialized map.
func NewProductRepositoryStub(products ...*model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[int64]*model.Product), Next: 1}
	for _, p := range products {
		if p.ID == 0 {
			p.ID = s.Next
		}
		if p.ID >= s.Next {
			s.Next = p.ID + 1
		}
		s.Products[p.ID] = p
	}
	return s
}

// Create stores a new product.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	stored := *product
	stored.ID = s.Next
	s.Next++
	s.Products[stored.ID] = &stored
	return &stored, nil
}

// Update replaces a stored product.
func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.Products[product.ID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	stored := *product
	s.Products[product.ID] = &stored
	return &stored, nil
}

// GetByID fetches a product or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns every stored product.
func (s *ProductRepositoryStub) List(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	items := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		items = append(items, *p)
	}
	return items, len(items), nil
}

// AdjustStock applies the delta, rejecting overdrafts like the real storage.
func (s *ProductRepositoryStub) AdjustStock(ctx context.Context, id int64, delta int) error {
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return &domainErrors.InsufficientStockError{
			ProductID: id,
			Name:      p.Name,
			Requested: -delta,
			Available: p.Quantity,
		}
	}
	p.Quantity += delta
	s.AdjustCalls = append(s.AdjustCalls, StockAdjustment{ProductID: id, Delta: delta})
	return nil
}

// OrderStatusCall records one UpdateStatus invocation.
type OrderStatusCall struct {
	Number    string
	Status    model.OrderStatus
	Note      string
	UpdatedBy string
	Tracking  *model.TrackingUpdate
}

// OrderCancelCall records one Cancel invocation.
type OrderCancelCall struct {
	Number      string
	Reason      string
	CancelledBy string
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, *model.Order) (*model.Order, error)
	GetByNumberFn  func(context.Context, string) (*model.Order, error)
	ListFn         func(context.Context, repository.OrderFilter) ([]model.Order, int, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus, string, string, *model.TrackingUpdate) (*model.Order, error)
	CancelFn       func(context.Context, string, string, string) (*model.Order, error)
	StatsFn        func(context.Context, time.Time, int) (*model.OrderStats, error)

	Orders      []model.Order
	Created     []*model.Order
	StatusCalls []OrderStatusCall
	CancelCalls []OrderCancelCall
	ListFilters []repository.OrderFilter
}

// Create tracks invocations and returns the order with an assigned id.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.Created = append(s.Created, order)
	stored := *order
	stored.ID = int64(len(s.Created))
	return &stored, nil
}

// GetByNumber returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, number)
	}
	for _, o := range s.Orders {
		if o.Number == number {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List records the filter and returns configured orders.
func (s *OrderRepositoryStub) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int, error) {
	s.ListFilters = append(s.ListFilters, filter)
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return s.Orders, len(s.Orders), nil
}

// UpdateStatus records the transition and applies it to the stored order.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, number string, target model.OrderStatus, note, updatedBy string, tracking *model.TrackingUpdate) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, number, target, note, updatedBy, tracking)
	}
	s.StatusCalls = append(s.StatusCalls, OrderStatusCall{Number: number, Status: target, Note: note, UpdatedBy: updatedBy, Tracking: tracking})
	order, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	order.Status = target
	return order, nil
}

// Cancel records the cancellation and flips the stored order.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, number, reason, cancelledBy string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, number, reason, cancelledBy)
	}
	s.CancelCalls = append(s.CancelCalls, OrderCancelCall{Number: number, Reason: reason, CancelledBy: cancelledBy})
	order, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	order.Status = model.OrderStatusCancelled
	order.Cancellation = &model.Cancellation{Reason: reason, CancelledBy: cancelledBy, CancelledAt: time.Now()}
	return order, nil
}

// Stats returns configured aggregates.
func (s *OrderRepositoryStub) Stats(ctx context.Context, since time.Time, topN int) (*model.OrderStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx, since, topN)
	}
	return &model.OrderStats{ByStatus: map[model.OrderStatus]int{}}, nil
}

// TicketRepositoryStub allows tests to customize ticket behaviour.
type TicketRepositoryStub struct {
	CreateFn       func(context.Context, *model.Ticket, string) (*model.Ticket, error)
	GetByNumberFn  func(context.Context, string) (*model.Ticket, error)
	ListFn         func(context.Context, repository.TicketFilter) ([]model.Ticket, int, error)
	AddMessageFn   func(context.Context, string, model.TicketMessage) (*model.Ticket, error)
	UpdateStatusFn func(context.Context, string, model.TicketStatus, *int) (*model.Ticket, error)

	Tickets  []model.Ticket
	Messages []model.TicketMessage
}

// Create returns the ticket with the first message attached.
func (s *TicketRepositoryStub) Create(ctx context.Context, ticket *model.Ticket, firstMessage string) (*model.Ticket, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, ticket, firstMessage)
	}
	stored := *ticket
	stored.ID = int64(len(s.Tickets) + 1)
	stored.Messages = []model.TicketMessage{{AuthorID: ticket.UserID, Body: firstMessage}}
	s.Tickets = append(s.Tickets, stored)
	return &stored, nil
}

// GetByNumber returns matched ticket or not found.
func (s *TicketRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Ticket, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, number)
	}
	for _, t := range s.Tickets {
		if t.Number == number {
			ticket := t
			return &ticket, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns configured tickets.
func (s *TicketRepositoryStub) List(ctx context.Context, filter repository.TicketFilter) ([]model.Ticket, int, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return s.Tickets, len(s.Tickets), nil
}

// AddMessage records the message and returns the ticket.
func (s *TicketRepositoryStub) AddMessage(ctx context.Context, number string, message model.TicketMessage) (*model.Ticket, error) {
	if s.AddMessageFn != nil {
		return s.AddMessageFn(ctx, number, message)
	}
	ticket, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	s.Messages = append(s.Messages, message)
	ticket.Messages = append(ticket.Messages, message)
	return ticket, nil
}

// UpdateStatus applies the transition to the stored ticket.
func (s *TicketRepositoryStub) UpdateStatus(ctx context.Context, number string, target model.TicketStatus, satisfaction *int) (*model.Ticket, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, number, target, satisfaction)
	}
	ticket, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	ticket.Status = target
	if satisfaction != nil {
		ticket.Satisfaction = satisfaction
	}
	return ticket, nil
}
