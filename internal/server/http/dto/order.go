package dto

import (
	"time"

	"github.com/bricklane/storefront/internal/domain/model"
)

// OrderLineRequest is a requested product/quantity pair.
type OrderLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// PaymentRequest carries client-declared payment information.
type PaymentRequest struct {
	CardNumber    string `json:"cardNumber,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Status        string `json:"status,omitempty"`
}

// SummaryRequest is the client-computed totals, checked against the server's.
type SummaryRequest struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items           []OrderLineRequest    `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	Payment         PaymentRequest        `json:"payment"`
	Summary         SummaryRequest        `json:"summary"`
}

// CancelOrderRequest carries the mandatory cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderStatusRequest is the admin status update payload.
type OrderStatusRequest struct {
	Status            string     `json:"status"`
	Note              string     `json:"note"`
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	Carrier           string     `json:"carrier,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

// OrderItemResponse is a line item snapshot.
type OrderItemResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// StatusChangeResponse is a history entry.
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	UpdatedBy string    `json:"updatedBy"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderResponse is the full order view.
type OrderResponse struct {
	Number          string                 `json:"orderNumber"`
	UserName        string                 `json:"userName,omitempty"`
	UserEmail       string                 `json:"userEmail,omitempty"`
	Items           []OrderItemResponse    `json:"items"`
	ShippingAddress model.ShippingAddress  `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentStatus   string                 `json:"paymentStatus"`
	Summary         model.OrderSummary     `json:"summary"`
	Status          string                 `json:"status"`
	History         []StatusChangeResponse `json:"statusHistory"`
	Tracking        *model.Tracking        `json:"tracking,omitempty"`
	Cancellation    *model.Cancellation    `json:"cancellation,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// OrderListResponse is a paginated order page.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Pagination Pagination      `json:"pagination"`
}

// ProductSalesResponse is a top-products aggregate row.
type ProductSalesResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	UnitsSold int     `json:"unitsSold"`
	Revenue   float64 `json:"revenue"`
}

// StatsResponse is the admin dashboard aggregate.
type StatsResponse struct {
	TotalOrders       int                    `json:"totalOrders"`
	Revenue           float64                `json:"revenue"`
	AverageOrderValue float64                `json:"averageOrderValue"`
	ByStatus          map[string]int         `json:"byStatus"`
	TopProducts       []ProductSalesResponse `json:"topProducts"`
}

// ToOrderResponse maps an order model.
func ToOrderResponse(o model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		})
	}
	history := make([]StatusChangeResponse, 0, len(o.History))
	for _, h := range o.History {
		history = append(history, StatusChangeResponse{
			Status:    string(h.Status),
			Note:      h.Note,
			UpdatedBy: h.UpdatedBy,
			Timestamp: h.Timestamp,
		})
	}
	return OrderResponse{
		Number:          o.Number,
		UserName:        o.UserName,
		UserEmail:       o.UserEmail,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		Summary:         o.Summary,
		Status:          string(o.Status),
		History:         history,
		Tracking:        o.Tracking,
		Cancellation:    o.Cancellation,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToStatsResponse maps the stats aggregate.
func ToStatsResponse(s model.OrderStats) StatsResponse {
	byStatus := make(map[string]int, len(s.ByStatus))
	for status, count := range s.ByStatus {
		byStatus[string(status)] = count
	}
	top := make([]ProductSalesResponse, 0, len(s.TopProducts))
	for _, p := range s.TopProducts {
		top = append(top, ProductSalesResponse{
			ProductID: p.ProductID,
			Name:      p.Name,
			UnitsSold: p.UnitsSold,
			Revenue:   p.Revenue,
		})
	}
	return StatsResponse{
		TotalOrders:       s.TotalOrders,
		Revenue:           s.Revenue,
		AverageOrderValue: s.AverageOrderValue,
		ByStatus:          byStatus,
		TopProducts:       top,
	}
}
