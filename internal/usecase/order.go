package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	domainErrors "github.com/bricklane/storefront/internal/domain/errors"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
)

// NotificationDispatcher enqueues customer notifications. Calls must never
// block and delivery failures must never surface to the order flow.
type NotificationDispatcher interface {
	OrderCreated(order *model.Order, user *model.User)
	OrderStatusChanged(order *model.Order, user *model.User)
}

// PaymentVerifier confirms a payment with the external gateway.
type PaymentVerifier interface {
	Verify(ctx context.Context, method model.PaymentMethod, transactionID string) (model.PaymentStatus, error)
}

// OrderLine is a requested product/quantity pair.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// PaymentDetails carries client-declared payment information.
type PaymentDetails struct {
	CardNumber     string
	TransactionID  string
	DeclaredStatus model.PaymentStatus
}

// CreateOrderInput is the checkout payload. The declared summary is used only
// as a consistency check against the server-computed totals.
type CreateOrderInput struct {
	Lines           []OrderLine
	ShippingAddress model.ShippingAddress
	PaymentMethod   model.PaymentMethod
	Payment         PaymentDetails
	DeclaredSummary model.OrderSummary
}

// StatusUpdateInput is the admin status change payload.
type StatusUpdateInput struct {
	Status   model.OrderStatus
	Note     string
	Tracking *model.TrackingUpdate
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// OrderUseCase encapsulates the order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	payments PaymentVerifier
	notify   NotificationDispatcher
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	payments PaymentVerifier,
	notify NotificationDispatcher,
) *OrderUseCase {
	return &OrderUseCase{orders: orders, products: products, users: users, payments: payments, notify: notify}
}

// Create validates the checkout request, computes authoritative totals and
// persists the order together with the stock decrement. Validation fails
// before any stock mutation; the repository transaction guards the rest.
func (u *OrderUseCase) Create(ctx context.Context, userID int64, in CreateOrderInput) (*model.Order, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(in.Lines))
	for _, line := range in.Lines {
		product, err := u.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, err)
		}
		if line.Quantity > product.Quantity {
			return nil, &domainErrors.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: line.Quantity,
				Available: product.Quantity,
			}
		}
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			LineTotal: product.Price * float64(line.Quantity),
		})
	}

	summary := ComputeSummary(items, in.DeclaredSummary.Discount)
	if !TotalsMatch(summary.Total, in.DeclaredSummary.Total) {
		return nil, &domainErrors.TotalMismatchError{Computed: summary.Total, Declared: in.DeclaredSummary.Total}
	}

	paymentStatus, err := u.settlePayment(ctx, in.PaymentMethod, in.Payment)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &model.Order{
		Number:          newOrderNumber(now),
		UserID:          userID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Summary:         summary,
		Status:          model.OrderStatusPending,
		History: []model.StatusChange{{
			Status:    model.OrderStatusPending,
			Note:      "order placed",
			UpdatedBy: "customer",
			Timestamp: now,
		}},
	}

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	if user, err := u.users.GetByID(ctx, userID); err == nil {
		created.UserName = user.Name
		created.UserEmail = user.Email
		u.notify.OrderCreated(created, user)
	}

	return created, nil
}

// Get returns a single order; customers may only see their own.
func (u *OrderUseCase) Get(ctx context.Context, userID int64, admin bool, number string) (*model.Order, error) {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !admin && order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// ListForUser returns the user's own orders, newest first.
func (u *OrderUseCase) ListForUser(ctx context.Context, userID int64, status model.OrderStatus, page repository.Page) ([]model.Order, int, error) {
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q: %w", status, domainErrors.ErrValidation)
	}
	filter := repository.OrderFilter{UserID: userID, Status: status, Page: normalizePage(page)}
	return u.orders.List(ctx, filter)
}

// ListAll returns any user's orders with admin-only filters.
func (u *OrderUseCase) ListAll(ctx context.Context, status model.OrderStatus, from, to *time.Time, search string, page repository.Page) ([]model.Order, int, error) {
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q: %w", status, domainErrors.ErrValidation)
	}
	filter := repository.OrderFilter{Status: status, From: from, To: to, Search: search, Page: normalizePage(page)}
	return u.orders.List(ctx, filter)
}

// Cancel performs a customer-driven cancellation: status gate, reason
// required, stock restored for every line item.
func (u *OrderUseCase) Cancel(ctx context.Context, userID int64, admin bool, number, reason string) (*model.Order, error) {
	if reason == "" {
		return nil, fmt.Errorf("cancellation reason is required: %w", domainErrors.ErrValidation)
	}

	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !admin && order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}

	cancelledBy := "customer"
	if admin {
		cancelledBy = "admin"
	}

	cancelled, err := u.orders.Cancel(ctx, number, reason, cancelledBy)
	if err != nil {
		return nil, err
	}

	u.notifyStatusChange(ctx, cancelled)
	return cancelled, nil
}

// UpdateStatus applies an admin-driven transition. A cancelled target routes
// through the cancellation path so stock is restored.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, number string, in StatusUpdateInput) (*model.Order, error) {
	if !model.ValidOrderStatus(in.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", in.Status, domainErrors.ErrValidation)
	}

	var (
		order *model.Order
		err   error
	)
	if in.Status == model.OrderStatusCancelled {
		reason := in.Note
		if reason == "" {
			reason = "cancelled by store"
		}
		order, err = u.orders.Cancel(ctx, number, reason, "admin")
	} else {
		order, err = u.orders.UpdateStatus(ctx, number, in.Status, in.Note, "admin", in.Tracking)
	}
	if err != nil {
		return nil, err
	}

	u.notifyStatusChange(ctx, order)
	return order, nil
}

// Stats aggregates orders since the start of the named period.
func (u *OrderUseCase) Stats(ctx context.Context, period string, topN int) (*model.OrderStats, error) {
	since, err := periodStart(period, time.Now())
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = 5
	}
	return u.orders.Stats(ctx, since, topN)
}

func (u *OrderUseCase) settlePayment(ctx context.Context, method model.PaymentMethod, details PaymentDetails) (model.PaymentStatus, error) {
	if method == model.PaymentMethodCOD {
		return model.PaymentStatusPending, nil
	}

	if method == model.PaymentMethodCard && !ValidateCardNumber(details.CardNumber) {
		return "", fmt.Errorf("invalid card number: %w", domainErrors.ErrValidation)
	}

	status, err := u.payments.Verify(ctx, method, details.TransactionID)
	if err != nil {
		return "", err
	}
	if status == model.PaymentStatusFailed {
		return "", domainErrors.ErrPaymentRejected
	}
	return status, nil
}

func (u *OrderUseCase) notifyStatusChange(ctx context.Context, order *model.Order) {
	user, err := u.users.GetByID(ctx, order.UserID)
	if err != nil {
		return
	}
	order.UserName = user.Name
	order.UserEmail = user.Email
	u.notify.OrderStatusChanged(order, user)
}

func validateCreateInput(in CreateOrderInput) error {
	if len(in.Lines) == 0 {
		return fmt.Errorf("order must contain at least one item: %w", domainErrors.ErrValidation)
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("quantity for product %d must be positive: %w", line.ProductID, domainErrors.ErrValidation)
		}
	}
	if !model.ValidPaymentMethod(in.PaymentMethod) {
		return fmt.Errorf("unknown payment method %q: %w", in.PaymentMethod, domainErrors.ErrValidation)
	}
	addr := in.ShippingAddress
	if addr.FullName == "" || addr.Phone == "" || addr.Line1 == "" || addr.City == "" || addr.PostalCode == "" {
		return fmt.Errorf("shipping address is incomplete: %w", domainErrors.ErrValidation)
	}
	return nil
}

func normalizePage(page repository.Page) repository.Page {
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size <= 0 {
		page.Size = defaultPageSize
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}
	return page
}

func periodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "", "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown period %q: %w", period, domainErrors.ErrValidation)
}

func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%06d", now.Format("20060102"), rand.IntN(1000000))
}
