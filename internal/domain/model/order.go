package model

import "time"

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentMethod enumerates supported checkout payment options.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// PaymentStatus describes settlement state of an order payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// OrderItem is a product snapshot taken at order-creation time. Catalog price
// changes never alter historical orders.
type OrderItem struct {
	ProductID int64
	Name      string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

// ShippingAddress is a value object copied into the order at creation.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderSummary holds server-computed totals.
type OrderSummary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// StatusChange is a single entry of the append-only status history.
type StatusChange struct {
	Status    OrderStatus
	Note      string
	UpdatedBy string
	Timestamp time.Time
}

// Tracking holds shipment tracking details recorded when the order ships.
type Tracking struct {
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	Carrier           string     `json:"carrier,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	ActualDelivery    *time.Time `json:"actualDelivery,omitempty"`
}

// TrackingUpdate carries optional tracking fields for a status update. Absent
// fields never overwrite previously recorded ones.
type TrackingUpdate struct {
	TrackingNumber    string
	Carrier           string
	EstimatedDelivery *time.Time
}

// Cancellation records why, when and by whom the order was cancelled.
type Cancellation struct {
	Reason      string    `json:"reason"`
	CancelledBy string    `json:"cancelledBy"`
	CancelledAt time.Time `json:"cancelledAt"`
}

// Order is the central purchase entity. Mutated only through status
// transitions and cancellation; never deleted.
type Order struct {
	ID              int64
	Number          string
	UserID          int64
	UserName        string
	UserEmail       string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Summary         OrderSummary
	Status          OrderStatus
	History         []StatusChange
	Tracking        *Tracking
	Cancellation    *Cancellation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProductSales is a top-products aggregate row.
type ProductSales struct {
	ProductID int64
	Name      string
	UnitsSold int
	Revenue   float64
}

// OrderStats aggregates orders over a rolling period. Cancelled orders are
// excluded from revenue and top-product figures.
type OrderStats struct {
	TotalOrders       int
	Revenue           float64
	AverageOrderValue float64
	ByStatus          map[OrderStatus]int
	TopProducts       []ProductSales
}
