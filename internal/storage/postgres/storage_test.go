package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/bricklane/storefront/internal/domain/errors"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("parse error", func(t *testing.T) {
		if _, err := New(context.Background(), ":://bad", logger); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestUserCreateDuplicateLogin(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("buyer", "Buyer", "buyer@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := storage.Users().Create(context.Background(), "buyer", "Buyer", "buyer@example.com", "hash")
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUserGetByLoginNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, login, name, email, password_hash, role, created_at FROM users").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := storage.Users().GetByLogin(context.Background(), "ghost")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductAdjustStockOverdraw(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE products SET quantity").
		WithArgs(int64(7), -5).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT name, quantity FROM products").
		WithArgs(int64(7)).
		WillReturnRows(pgxmockv3.NewRows([]string{"name", "quantity"}).AddRow("mug", 2))

	err := storage.Products().AdjustStock(context.Background(), 7, -5)
	var stockErr *domainErrors.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if stockErr.Available != 2 || stockErr.Requested != 5 {
		t.Fatalf("unexpected detail: %+v", stockErr)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestProductAdjustStockUnknownProduct(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE products SET quantity").
		WithArgs(int64(99), 3).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT name, quantity FROM products").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	err := storage.Products().AdjustStock(context.Background(), 99, 3)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func sampleOrder() *model.Order {
	return &model.Order{
		Number: "ORD-20260829-000001",
		UserID: 3,
		Items: []model.OrderItem{
			{ProductID: 1, Name: "mug", UnitPrice: 100, Quantity: 2, LineTotal: 200},
		},
		ShippingAddress: model.ShippingAddress{
			FullName: "Buyer", Phone: "555", Line1: "1 Main St",
			City: "Pune", State: "MH", PostalCode: "411001", Country: "IN",
		},
		PaymentMethod: model.PaymentMethodCOD,
		PaymentStatus: model.PaymentStatusPending,
		Summary:       model.OrderSummary{Subtotal: 200, Tax: 36, Shipping: 50, Total: 286},
		Status:        model.OrderStatusPending,
		History: []model.StatusChange{
			{Status: model.OrderStatusPending, Note: "order placed", UpdatedBy: "customer"},
		},
	}
}

func TestOrderCreateDecrementsStockInTransaction(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET quantity").
		WithArgs(int64(1), 2).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_status_history").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	created, err := storage.Orders().Create(context.Background(), sampleOrder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 10 {
		t.Fatalf("expected assigned id 10, got %d", created.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOrderCreateInsufficientStockRollsBack(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET quantity").
		WithArgs(int64(1), 2).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT name, quantity FROM products").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"name", "quantity"}).AddRow("mug", 1))
	mock.ExpectRollback()

	_, err := storage.Orders().Create(context.Background(), sampleOrder())
	var stockErr *domainErrors.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func orderRow(t *testing.T, status model.OrderStatus, cancellation *model.Cancellation) *pgxmockv3.Rows {
	t.Helper()
	address, err := json.Marshal(model.ShippingAddress{FullName: "Buyer", Phone: "555", Line1: "1 Main St", City: "Pune", PostalCode: "411001"})
	if err != nil {
		t.Fatal(err)
	}
	var cancellationJSON []byte
	if cancellation != nil {
		cancellationJSON, err = json.Marshal(cancellation)
		if err != nil {
			t.Fatal(err)
		}
	}
	now := time.Now()
	return pgxmockv3.NewRows([]string{
		"id", "number", "user_id", "name", "email", "status",
		"payment_method", "payment_status",
		"subtotal", "shipping", "tax", "discount", "total",
		"shipping_address", "tracking", "cancellation", "created_at", "updated_at",
	}).AddRow(
		int64(10), "ORD-20260829-000001", int64(3), "Buyer", "buyer@example.com", status,
		model.PaymentMethodCOD, model.PaymentStatusPending,
		200.0, 50.0, 36.0, 0.0, 286.0,
		address, []byte(nil), cancellationJSON, now, now,
	)
}

func expectOrderFetch(t *testing.T, mock pgxmockv3.PgxPoolIface, status model.OrderStatus, cancellation *model.Cancellation) {
	t.Helper()
	mock.ExpectQuery("FROM orders o JOIN users u").
		WithArgs("ORD-20260829-000001").
		WillReturnRows(orderRow(t, status, cancellation))
	mock.ExpectQuery("FROM order_items").
		WillReturnRows(pgxmockv3.NewRows([]string{"order_id", "product_id", "name", "unit_price", "quantity", "line_total"}).
			AddRow(int64(10), int64(1), "mug", 100.0, 2, 200.0))
	mock.ExpectQuery("FROM order_status_history").
		WithArgs(int64(10)).
		WillReturnRows(pgxmockv3.NewRows([]string{"status", "note", "updated_by", "created_at"}).
			AddRow(model.OrderStatusPending, "order placed", "customer", time.Now()))
}

func TestOrderGetByNumber(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	expectOrderFetch(t, mock, model.OrderStatusPending, nil)

	order, err := storage.Orders().GetByNumber(context.Background(), "ORD-20260829-000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.UserName != "Buyer" || len(order.Items) != 1 || len(order.History) != 1 {
		t.Fatalf("order not fully loaded: %+v", order)
	}
	if order.ShippingAddress.City != "Pune" {
		t.Fatalf("shipping address not decoded: %+v", order.ShippingAddress)
	}
}

func TestOrderGetByNumberNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("FROM orders o JOIN users u").
		WithArgs("ORD-missing").
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}))

	_, err := storage.Orders().GetByNumber(context.Background(), "ORD-missing")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderCancelRestoresStock(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, status FROM orders").
		WithArgs("ORD-20260829-000001").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "status"}).AddRow(int64(10), model.OrderStatusPending))
	mock.ExpectQuery("SELECT product_id, quantity FROM order_items").
		WithArgs(int64(10)).
		WillReturnRows(pgxmockv3.NewRows([]string{"product_id", "quantity"}).AddRow(int64(1), 2))
	mock.ExpectExec("UPDATE products SET quantity").
		WithArgs(int64(1), 2).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE orders SET status").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO order_status_history").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	cancellation := &model.Cancellation{Reason: "changed my mind", CancelledBy: "customer", CancelledAt: time.Now()}
	expectOrderFetch(t, mock, model.OrderStatusCancelled, cancellation)

	order, err := storage.Orders().Cancel(context.Background(), "ORD-20260829-000001", "changed my mind", "customer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", order.Status)
	}
	if order.Cancellation == nil || order.Cancellation.Reason != "changed my mind" {
		t.Fatalf("cancellation not recorded: %+v", order.Cancellation)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOrderCancelRejectedAfterShipment(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, status FROM orders").
		WithArgs("ORD-20260829-000001").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "status"}).AddRow(int64(10), model.OrderStatusShipped))
	mock.ExpectRollback()

	_, err := storage.Orders().Cancel(context.Background(), "ORD-20260829-000001", "too late", "customer")
	var transitionErr *domainErrors.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
	if transitionErr.From != "shipped" {
		t.Fatalf("unexpected source state %q", transitionErr.From)
	}
	// No stock mutation may happen on the rejected path.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOrderUpdateStatusInvalidTransition(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, status, tracking FROM orders").
		WithArgs("ORD-20260829-000001").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "status", "tracking"}).AddRow(int64(10), model.OrderStatusDelivered, []byte(nil)))
	mock.ExpectRollback()

	_, err := storage.Orders().UpdateStatus(context.Background(), "ORD-20260829-000001", model.OrderStatusPending, "", "admin", nil)
	var transitionErr *domainErrors.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}

func TestOrderStats(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	since := time.Now().AddDate(0, 0, -7)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(since).
		WillReturnRows(pgxmockv3.NewRows([]string{"count", "revenue", "avg"}).AddRow(4, 1144.0, 286.0))
	mock.ExpectQuery("SELECT status, COUNT").
		WithArgs(since).
		WillReturnRows(pgxmockv3.NewRows([]string{"status", "count"}).
			AddRow(model.OrderStatusPending, 3).
			AddRow(model.OrderStatusCancelled, 1))
	mock.ExpectQuery("FROM order_items oi").
		WithArgs(since, 5).
		WillReturnRows(pgxmockv3.NewRows([]string{"product_id", "name", "units", "revenue"}).
			AddRow(int64(1), "mug", 8, 800.0))

	stats, err := storage.Orders().Stats(context.Background(), since, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalOrders != 4 || stats.Revenue != 1144 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.ByStatus[model.OrderStatusCancelled] != 1 {
		t.Fatalf("unexpected status breakdown: %+v", stats.ByStatus)
	}
	if len(stats.TopProducts) != 1 || stats.TopProducts[0].UnitsSold != 8 {
		t.Fatalf("unexpected top products: %+v", stats.TopProducts)
	}
}

func TestOrderListBuildsFilter(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(3), model.OrderStatusPending).
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM orders o JOIN users u").
		WithArgs(int64(3), model.OrderStatusPending, 10, 0).
		WillReturnRows(orderRow(t, model.OrderStatusPending, nil))
	mock.ExpectQuery("FROM order_items").
		WillReturnRows(pgxmockv3.NewRows([]string{"order_id", "product_id", "name", "unit_price", "quantity", "line_total"}).
			AddRow(int64(10), int64(1), "mug", 100.0, 2, 200.0))

	orders, total, err := storage.Orders().List(context.Background(), repository.OrderFilter{
		UserID: 3,
		Status: model.OrderStatusPending,
		Page:   repository.Page{Number: 1, Size: 10},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("unexpected listing: total=%d len=%d", total, len(orders))
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("items not attached to listing: %+v", orders[0])
	}
}

func TestTicketUpdateStatusGuardsTransition(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, status FROM tickets").
		WithArgs("TKT-20260829-000001").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "status"}).AddRow(int64(4), model.TicketStatusClosed))
	mock.ExpectRollback()

	_, err := storage.Tickets().UpdateStatus(context.Background(), "TKT-20260829-000001", model.TicketStatusOpen, nil)
	var transitionErr *domainErrors.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
}
