package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/bricklane/storefront/internal/domain/errors"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
)

// PgxPool is the subset of pgxpool.Pool the storage uses; tests substitute a
// mock implementation.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   PgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type ticketRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Tickets() repository.TicketRepository {
	return &ticketRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            role INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price DOUBLE PRECISION NOT NULL,
            quantity INT NOT NULL DEFAULT 0,
            category TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL REFERENCES users(id),
            status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            payment_status TEXT NOT NULL,
            subtotal DOUBLE PRECISION NOT NULL,
            shipping DOUBLE PRECISION NOT NULL,
            tax DOUBLE PRECISION NOT NULL,
            discount DOUBLE PRECISION NOT NULL DEFAULT 0,
            total DOUBLE PRECISION NOT NULL,
            shipping_address JSONB NOT NULL,
            tracking JSONB,
            cancellation JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id BIGINT NOT NULL REFERENCES products(id),
            name TEXT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL,
            quantity INT NOT NULL,
            line_total DOUBLE PRECISION NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_status_history (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            status TEXT NOT NULL,
            note TEXT NOT NULL DEFAULT '',
            updated_by TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS tickets (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL REFERENCES users(id),
            subject TEXT NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            priority TEXT NOT NULL,
            status TEXT NOT NULL,
            satisfaction INT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS ticket_messages (
            id SERIAL PRIMARY KEY,
            ticket_id BIGINT NOT NULL REFERENCES tickets(id),
            author_id BIGINT NOT NULL,
            author TEXT NOT NULL,
            from_staff BOOLEAN NOT NULL DEFAULT FALSE,
            body TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_history_order ON order_status_history(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_user ON tickets(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_ticket_messages_ticket ON ticket_messages(ticket_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, name, email, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, name, email, password_hash) VALUES ($1, $2, $3, $4)
                   RETURNING id, role, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, name, email, passwordHash).Scan(&u.ID, &u.Role, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.Name = name
	u.Email = email
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, name, email, password_hash, role, created_at FROM users WHERE login=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, name, email, password_hash, role, created_at FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (name, description, price, quantity, category)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at, updated_at`
	p := *product
	err := r.storage.pool.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.Quantity, p.Category).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	const query = `UPDATE products
                   SET name=$2, description=$3, price=$4, quantity=$5, category=$6, updated_at=NOW()
                   WHERE id=$1
                   RETURNING created_at, updated_at`
	p := *product
	err := r.storage.pool.QueryRow(ctx, query, p.ID, p.Name, p.Description, p.Price, p.Quantity, p.Category).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, description, price, quantity, category, created_at, updated_at
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `SELECT id, name, description, price, quantity, category, created_at, updated_at
                   FROM products ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.storage.pool.Query(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// AdjustStock applies the delta as a single conditional update so stock can
// never go negative, even under concurrent orders.
func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	const query = `UPDATE products SET quantity = quantity + $2, updated_at = NOW()
                   WHERE id=$1 AND quantity + $2 >= 0`
	tag, err := r.storage.pool.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return stockFailure(ctx, r.storage.pool, id, -delta)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// stockFailure distinguishes a missing product from an overdraw after a
// conditional stock update matched no rows.
func stockFailure(ctx context.Context, q rowQuerier, id int64, requested int) error {
	var name string
	var available int
	err := q.QueryRow(ctx, `SELECT name, quantity FROM products WHERE id=$1`, id).Scan(&name, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("product %d: %w", id, domainErrors.ErrNotFound)
		}
		return err
	}
	return &domainErrors.InsufficientStockError{ProductID: id, Name: name, Requested: requested, Available: available}
}

// --- OrderRepository implementation ---

// Create persists the order and decrements stock for every line item inside
// one transaction. A conditional decrement matching no rows aborts the whole
// order, so partial decrements cannot be observed.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	created := *order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const decrement = `UPDATE products SET quantity = quantity - $2, updated_at = NOW()
                           WHERE id=$1 AND quantity >= $2`
		for _, item := range created.Items {
			tag, err := tx.Exec(ctx, decrement, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return stockFailure(ctx, tx, item.ProductID, item.Quantity)
			}
		}

		address, err := json.Marshal(created.ShippingAddress)
		if err != nil {
			return err
		}

		const insertOrder = `INSERT INTO orders
                (number, user_id, status, payment_method, payment_status,
                 subtotal, shipping, tax, discount, total, shipping_address)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
             RETURNING id, created_at, updated_at`
		err = tx.QueryRow(ctx, insertOrder,
			created.Number, created.UserID, created.Status, created.PaymentMethod, created.PaymentStatus,
			created.Summary.Subtotal, created.Summary.Shipping, created.Summary.Tax,
			created.Summary.Discount, created.Summary.Total, address,
		).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, line_total)
                            VALUES ($1, $2, $3, $4, $5, $6)`
		for _, item := range created.Items {
			if _, err := tx.Exec(ctx, insertItem, created.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal); err != nil {
				return err
			}
		}

		const insertHistory = `INSERT INTO order_status_history (order_id, status, note, updated_by)
                               VALUES ($1, $2, $3, $4)`
		for _, change := range created.History {
			if _, err := tx.Exec(ctx, insertHistory, created.ID, change.Status, change.Note, change.UpdatedBy); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

const orderColumns = `o.id, o.number, o.user_id, u.name, u.email, o.status,
       o.payment_method, o.payment_status,
       o.subtotal, o.shipping, o.tax, o.discount, o.total,
       o.shipping_address, o.tracking, o.cancellation, o.created_at, o.updated_at`

func scanOrder(row pgx.Rows) (*model.Order, error) {
	var o model.Order
	var address, tracking, cancellation []byte
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.UserName, &o.UserEmail, &o.Status,
		&o.PaymentMethod, &o.PaymentStatus,
		&o.Summary.Subtotal, &o.Summary.Shipping, &o.Summary.Tax, &o.Summary.Discount, &o.Summary.Total,
		&address, &tracking, &cancellation, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, err
	}
	if len(tracking) > 0 {
		o.Tracking = &model.Tracking{}
		if err := json.Unmarshal(tracking, o.Tracking); err != nil {
			return nil, err
		}
	}
	if len(cancellation) > 0 {
		o.Cancellation = &model.Cancellation{}
		if err := json.Unmarshal(cancellation, o.Cancellation); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders o JOIN users u ON u.id = o.user_id
              WHERE o.number=$1`
	rows, err := r.storage.pool.Query(ctx, query, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domainErrors.ErrNotFound
	}
	order, err := scanOrder(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadItems(ctx, []*model.Order{order}); err != nil {
		return nil, err
	}
	if err := r.loadHistory(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int, error) {
	where, args := buildOrderFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o JOIN users u ON u.id = o.user_id` + where
	if err := r.storage.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + `
              FROM orders o JOIN users u ON u.id = o.user_id` + where +
		fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Page.Size, filter.Page.Offset())

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, 0, err
	}

	result := make([]model.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, *order)
	}
	return result, total, nil
}

func buildOrderFilter(filter repository.OrderFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.UserID != 0 {
		add("o.user_id = $%d", filter.UserID)
	}
	if filter.Status != "" {
		add("o.status = $%d", filter.Status)
	}
	if filter.From != nil {
		add("o.created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("o.created_at <= $%d", *filter.To)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(o.number ILIKE $%d OR u.name ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *orderRepository) loadItems(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*model.Order, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
		byID[order.ID] = order
	}

	const query = `SELECT order_id, product_id, name, unit_price, quantity, line_total
                   FROM order_items WHERE order_id = ANY($1) ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		var item model.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return err
		}
		if order, ok := byID[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return rows.Err()
}

func (r *orderRepository) loadHistory(ctx context.Context, order *model.Order) error {
	const query = `SELECT status, note, updated_by, created_at
                   FROM order_status_history WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var change model.StatusChange
		if err := rows.Scan(&change.Status, &change.Note, &change.UpdatedBy, &change.Timestamp); err != nil {
			return err
		}
		order.History = append(order.History, change)
	}
	return rows.Err()
}

// UpdateStatus moves the order along the lifecycle under a row lock. Tracking
// fields merge into what is already recorded; delivery stamps the actual
// delivery time and settles COD payments.
func (r *orderRepository) UpdateStatus(ctx context.Context, number string, target model.OrderStatus, note, updatedBy string, tracking *model.TrackingUpdate) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT id, status, tracking FROM orders WHERE number=$1 FOR UPDATE`
		var orderID int64
		var current model.OrderStatus
		var trackingRaw []byte
		if err := tx.QueryRow(ctx, lockQuery, number).Scan(&orderID, &current, &trackingRaw); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if !model.OrderLifecycle.CanTransition(current, target) {
			return &domainErrors.InvalidTransitionError{Entity: "order", From: string(current), To: string(target)}
		}

		merged := model.Tracking{}
		if len(trackingRaw) > 0 {
			if err := json.Unmarshal(trackingRaw, &merged); err != nil {
				return err
			}
		}
		if tracking != nil {
			if tracking.TrackingNumber != "" {
				merged.TrackingNumber = tracking.TrackingNumber
			}
			if tracking.Carrier != "" {
				merged.Carrier = tracking.Carrier
			}
			if tracking.EstimatedDelivery != nil {
				merged.EstimatedDelivery = tracking.EstimatedDelivery
			}
		}
		if target == model.OrderStatusDelivered {
			now := time.Now()
			merged.ActualDelivery = &now
		}

		trackingJSON, err := json.Marshal(merged)
		if err != nil {
			return err
		}

		if target == model.OrderStatusDelivered {
			const update = `UPDATE orders SET status=$2, tracking=$3, payment_status=$4, updated_at=NOW() WHERE id=$1`
			if _, err := tx.Exec(ctx, update, orderID, target, trackingJSON, model.PaymentStatusCompleted); err != nil {
				return err
			}
		} else {
			const update = `UPDATE orders SET status=$2, tracking=$3, updated_at=NOW() WHERE id=$1`
			if _, err := tx.Exec(ctx, update, orderID, target, trackingJSON); err != nil {
				return err
			}
		}

		const insertHistory = `INSERT INTO order_status_history (order_id, status, note, updated_by)
                               VALUES ($1, $2, $3, $4)`
		_, err = tx.Exec(ctx, insertHistory, orderID, target, note, updatedBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByNumber(ctx, number)
}

// Cancel flips the order to cancelled and restores stock for every line item
// in the same transaction. The status gate is checked under the row lock so a
// concurrent ship/cancel pair cannot both win.
func (r *orderRepository) Cancel(ctx context.Context, number, reason, cancelledBy string) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT id, status FROM orders WHERE number=$1 FOR UPDATE`
		var orderID int64
		var current model.OrderStatus
		if err := tx.QueryRow(ctx, lockQuery, number).Scan(&orderID, &current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if !model.Cancellable(current) {
			return &domainErrors.InvalidTransitionError{Entity: "order", From: string(current), To: string(model.OrderStatusCancelled)}
		}

		const itemsQuery = `SELECT product_id, quantity FROM order_items WHERE order_id=$1`
		rows, err := tx.Query(ctx, itemsQuery, orderID)
		if err != nil {
			return err
		}
		type restock struct {
			productID int64
			quantity  int
		}
		var restocks []restock
		for rows.Next() {
			var line restock
			if err := rows.Scan(&line.productID, &line.quantity); err != nil {
				rows.Close()
				return err
			}
			restocks = append(restocks, line)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		const restore = `UPDATE products SET quantity = quantity + $2, updated_at = NOW() WHERE id=$1`
		for _, line := range restocks {
			if _, err := tx.Exec(ctx, restore, line.productID, line.quantity); err != nil {
				return err
			}
		}

		cancellation, err := json.Marshal(model.Cancellation{
			Reason:      reason,
			CancelledBy: cancelledBy,
			CancelledAt: time.Now(),
		})
		if err != nil {
			return err
		}

		const update = `UPDATE orders SET status=$2, cancellation=$3, updated_at=NOW() WHERE id=$1`
		if _, err := tx.Exec(ctx, update, orderID, model.OrderStatusCancelled, cancellation); err != nil {
			return err
		}

		const insertHistory = `INSERT INTO order_status_history (order_id, status, note, updated_by)
                               VALUES ($1, $2, $3, $4)`
		_, err = tx.Exec(ctx, insertHistory, orderID, model.OrderStatusCancelled, reason, cancelledBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByNumber(ctx, number)
}

func (r *orderRepository) Stats(ctx context.Context, since time.Time, topN int) (*model.OrderStats, error) {
	stats := &model.OrderStats{ByStatus: make(map[model.OrderStatus]int)}

	const totalsQuery = `SELECT COUNT(*),
               COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0),
               COALESCE(AVG(total) FILTER (WHERE status <> 'cancelled'), 0)
        FROM orders WHERE created_at >= $1`
	err := r.storage.pool.QueryRow(ctx, totalsQuery, since).
		Scan(&stats.TotalOrders, &stats.Revenue, &stats.AverageOrderValue)
	if err != nil {
		return nil, err
	}

	const statusQuery = `SELECT status, COUNT(*) FROM orders WHERE created_at >= $1 GROUP BY status`
	rows, err := r.storage.pool.Query(ctx, statusQuery, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status model.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	const topQuery = `SELECT oi.product_id, oi.name, SUM(oi.quantity)::INT, SUM(oi.line_total)
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.created_at >= $1 AND o.status <> 'cancelled'
        GROUP BY oi.product_id, oi.name
        ORDER BY SUM(oi.quantity) DESC
        LIMIT $2`
	topRows, err := r.storage.pool.Query(ctx, topQuery, since, topN)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()
	for topRows.Next() {
		var sales model.ProductSales
		if err := topRows.Scan(&sales.ProductID, &sales.Name, &sales.UnitsSold, &sales.Revenue); err != nil {
			return nil, err
		}
		stats.TopProducts = append(stats.TopProducts, sales)
	}
	return stats, topRows.Err()
}

// --- TicketRepository implementation ---

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket, firstMessage string) (*model.Ticket, error) {
	created := *ticket
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var authorName string
		if err := tx.QueryRow(ctx, `SELECT name FROM users WHERE id=$1`, created.UserID).Scan(&authorName); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		created.UserName = authorName

		const insertTicket = `INSERT INTO tickets (number, user_id, subject, category, priority, status)
                              VALUES ($1, $2, $3, $4, $5, $6)
                              RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertTicket,
			created.Number, created.UserID, created.Subject, created.Category, created.Priority, created.Status,
		).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			return err
		}

		const insertMessage = `INSERT INTO ticket_messages (ticket_id, author_id, author, from_staff, body)
                               VALUES ($1, $2, $3, FALSE, $4)
                               RETURNING id, created_at`
		var msg model.TicketMessage
		msg.AuthorID = created.UserID
		msg.Author = authorName
		msg.Body = firstMessage
		if err := tx.QueryRow(ctx, insertMessage, created.ID, created.UserID, authorName, firstMessage).Scan(&msg.ID, &msg.CreatedAt); err != nil {
			return err
		}
		created.Messages = []model.TicketMessage{msg}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

const ticketColumns = `t.id, t.number, t.user_id, u.name, t.subject, t.category,
       t.priority, t.status, t.satisfaction, t.created_at, t.updated_at`

func scanTicket(rows pgx.Rows) (*model.Ticket, error) {
	var t model.Ticket
	err := rows.Scan(&t.ID, &t.Number, &t.UserID, &t.UserName, &t.Subject, &t.Category,
		&t.Priority, &t.Status, &t.Satisfaction, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
              FROM tickets t JOIN users u ON u.id = t.user_id
              WHERE t.number=$1`
	rows, err := r.storage.pool.Query(ctx, query, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domainErrors.ErrNotFound
	}
	ticket, err := scanTicket(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	const messagesQuery = `SELECT id, author_id, author, from_staff, body, created_at
                           FROM ticket_messages WHERE ticket_id=$1 ORDER BY id`
	msgRows, err := r.storage.pool.Query(ctx, messagesQuery, ticket.ID)
	if err != nil {
		return nil, err
	}
	defer msgRows.Close()
	for msgRows.Next() {
		var msg model.TicketMessage
		if err := msgRows.Scan(&msg.ID, &msg.AuthorID, &msg.Author, &msg.FromStaff, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, err
		}
		ticket.Messages = append(ticket.Messages, msg)
	}
	return ticket, msgRows.Err()
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]model.Ticket, int, error) {
	var conditions []string
	var args []any
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("t.user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM tickets t` + where
	if err := r.storage.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + ticketColumns + `
              FROM tickets t JOIN users u ON u.id = t.user_id` + where +
		fmt.Sprintf(` ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Page.Size, filter.Page.Offset())

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *ticketRepository) AddMessage(ctx context.Context, number string, message model.TicketMessage) (*model.Ticket, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT id FROM tickets WHERE number=$1 FOR UPDATE`
		var ticketID int64
		if err := tx.QueryRow(ctx, lockQuery, number).Scan(&ticketID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		const insertMessage = `INSERT INTO ticket_messages (ticket_id, author_id, author, from_staff, body)
                               VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, insertMessage, ticketID, message.AuthorID, message.Author, message.FromStaff, message.Body); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `UPDATE tickets SET updated_at=NOW() WHERE id=$1`, ticketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByNumber(ctx, number)
}

// UpdateStatus moves the ticket along its lifecycle. The satisfaction rating
// is persisted only together with closing; once set it is never overwritten.
func (r *ticketRepository) UpdateStatus(ctx context.Context, number string, target model.TicketStatus, satisfaction *int) (*model.Ticket, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT id, status FROM tickets WHERE number=$1 FOR UPDATE`
		var ticketID int64
		var current model.TicketStatus
		if err := tx.QueryRow(ctx, lockQuery, number).Scan(&ticketID, &current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if !model.TicketLifecycle.CanTransition(current, target) {
			return &domainErrors.InvalidTransitionError{Entity: "ticket", From: string(current), To: string(target)}
		}

		if target == model.TicketStatusClosed && satisfaction != nil {
			const update = `UPDATE tickets SET status=$2, satisfaction=COALESCE(satisfaction, $3), updated_at=NOW() WHERE id=$1`
			_, err := tx.Exec(ctx, update, ticketID, target, *satisfaction)
			return err
		}

		const update = `UPDATE tickets SET status=$2, updated_at=NOW() WHERE id=$1`
		_, err := tx.Exec(ctx, update, ticketID, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByNumber(ctx, number)
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Pool exposes raw connection pool for advanced use.
func (s *Storage) Pool() PgxPool {
	return s.pool
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
