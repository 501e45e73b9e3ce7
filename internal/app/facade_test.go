package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bricklane/storefront/internal/adapter/cache"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
	testhelpers "github.com/bricklane/storefront/internal/test"
	"github.com/bricklane/storefront/internal/usecase"
)

// cacheStub records cache interactions and serves a configurable value.
type cacheStub struct {
	values  map[string][]byte
	sets    []string
	gets    []string
	deleted []string
	getErr  error
}

func newCacheStub() *cacheStub {
	return &cacheStub{values: make(map[string][]byte)}
}

func (s *cacheStub) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.sets = append(s.sets, key)
	return nil
}

func (s *cacheStub) GetJSON(_ context.Context, key string, dest interface{}) error {
	s.gets = append(s.gets, key)
	if s.getErr != nil {
		return s.getErr
	}
	return cache.ErrMiss
}

func (s *cacheStub) Del(_ context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	return nil
}

func (s *cacheStub) Close() error { return nil }

type facadeFixture struct {
	facade   *StorefrontFacade
	users    *testhelpers.UserRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	products *testhelpers.ProductRepositoryStub
	tickets  *testhelpers.TicketRepositoryStub
	cache    *cacheStub
	notify   *testhelpers.NotificationDispatcherStub
}

func newFacadeFixture() *facadeFixture {
	f := &facadeFixture{
		users:    testhelpers.NewUserRepositoryStub(),
		orders:   &testhelpers.OrderRepositoryStub{},
		products: testhelpers.NewProductRepositoryStub(&model.Product{ID: 1, Name: "mug", Price: 100, Quantity: 10}),
		tickets:  &testhelpers.TicketRepositoryStub{},
		cache:    newCacheStub(),
		notify:   &testhelpers.NotificationDispatcherStub{},
	}
	f.users.Add(&model.User{ID: 1, Login: "buyer", Name: "Buyer", Email: "buyer@example.com"})

	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, int, error) { return 99, model.RoleAdmin, nil }}
	authUC := usecase.NewAuthUseCase(f.users, testhelpers.HasherStub{}, strategy)
	orderUC := usecase.NewOrderUseCase(f.orders, f.products, f.users, &testhelpers.PaymentVerifierStub{}, f.notify)
	catalogUC := usecase.NewCatalogUseCase(f.products)
	ticketUC := usecase.NewTicketUseCase(f.tickets, f.users)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	f.facade = NewStorefrontFacade(authUC, orderUC, catalogUC, ticketUC, f.cache, time.Minute, logger)
	return f
}

func TestFacadeAuth(t *testing.T) {
	f := newFacadeFixture()

	user, token, err := f.facade.Register(context.Background(), "newbie", "Newbie", "n@example.com", "pass")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" || user.Login != "newbie" {
		t.Fatalf("unexpected register result: %v %q", user, token)
	}

	id, role, err := f.facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != 99 || role != model.RoleAdmin {
		t.Fatalf("expected id 99 admin, got %d %d", id, role)
	}
}

func TestFacadeOrderStatsCaching(t *testing.T) {
	f := newFacadeFixture()
	calls := 0
	f.orders.StatsFn = func(context.Context, time.Time, int) (*model.OrderStats, error) {
		calls++
		return &model.OrderStats{TotalOrders: 3}, nil
	}

	stats, err := f.facade.OrderStats(context.Background(), "week", 5)
	if err != nil {
		t.Fatalf("stats returned error: %v", err)
	}
	if stats.TotalOrders != 3 || calls != 1 {
		t.Fatalf("unexpected stats result: %+v calls=%d", stats, calls)
	}
	if len(f.cache.sets) != 1 || f.cache.sets[0] != "stats:week" {
		t.Fatalf("expected cache write for stats:week, got %v", f.cache.sets)
	}
}

func TestFacadeStatsCacheFailureDegrades(t *testing.T) {
	f := newFacadeFixture()
	f.cache.getErr = errors.New("redis down")
	f.orders.StatsFn = func(context.Context, time.Time, int) (*model.OrderStats, error) {
		return &model.OrderStats{TotalOrders: 1}, nil
	}

	stats, err := f.facade.OrderStats(context.Background(), "today", 5)
	if err != nil {
		t.Fatalf("expected fallback to repository, got %v", err)
	}
	if stats.TotalOrders != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestFacadeCreateOrderInvalidatesStats(t *testing.T) {
	f := newFacadeFixture()

	in := usecase.CreateOrderInput{
		Lines: []usecase.OrderLine{{ProductID: 1, Quantity: 2}},
		ShippingAddress: model.ShippingAddress{
			FullName: "Buyer", Phone: "555", Line1: "1 Main St", City: "Pune", PostalCode: "411001",
		},
		PaymentMethod:   model.PaymentMethodCOD,
		DeclaredSummary: model.OrderSummary{Total: 286},
	}
	if _, err := f.facade.CreateOrder(context.Background(), 1, in); err != nil {
		t.Fatalf("create order returned error: %v", err)
	}
	if len(f.cache.deleted) == 0 {
		t.Fatal("expected stats cache invalidation after order creation")
	}
}

func TestFacadeTickets(t *testing.T) {
	f := newFacadeFixture()

	ticket, err := f.facade.CreateTicket(context.Background(), 1, usecase.CreateTicketInput{
		Subject: "damaged item", Message: "cracked mug",
	})
	if err != nil {
		t.Fatalf("create ticket returned error: %v", err)
	}

	listed, total, err := f.facade.UserTickets(context.Background(), 1, "", repository.Page{})
	if err != nil || total != 1 || len(listed) != 1 {
		t.Fatalf("unexpected listing: %v total=%d err=%v", listed, total, err)
	}

	if _, err := f.facade.AddTicketMessage(context.Background(), 1, false, ticket.Number, "any update?"); err != nil {
		t.Fatalf("add message returned error: %v", err)
	}
}

func TestFacadeCatalog(t *testing.T) {
	f := newFacadeFixture()

	product, err := f.facade.CreateProduct(context.Background(), &model.Product{Name: "lamp", Price: 300, Quantity: 5})
	if err != nil {
		t.Fatalf("create product returned error: %v", err)
	}
	fetched, err := f.facade.Product(context.Background(), product.ID)
	if err != nil || fetched.Name != "lamp" {
		t.Fatalf("unexpected fetch: %v err=%v", fetched, err)
	}

	_, total, err := f.facade.Products(context.Background(), repository.Page{})
	if err != nil || total != 2 {
		t.Fatalf("unexpected listing total=%d err=%v", total, err)
	}
}
