package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/server/http/dto"
	"github.com/bricklane/storefront/internal/usecase"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
	topN   int
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, topN int) *OrderHandler {
	return &OrderHandler{facade: facade, topN: topN}
}

// Create handles POST /orders/create.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	lines := make([]usecase.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, usecase.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	input := usecase.CreateOrderInput{
		Lines:           lines,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		Payment: usecase.PaymentDetails{
			CardNumber:     req.Payment.CardNumber,
			TransactionID:  req.Payment.TransactionID,
			DeclaredStatus: model.PaymentStatus(req.Payment.Status),
		},
		DeclaredSummary: model.OrderSummary{
			Subtotal: req.Summary.Subtotal,
			Shipping: req.Summary.Shipping,
			Tax:      req.Summary.Tax,
			Discount: req.Summary.Discount,
			Total:    req.Summary.Total,
		},
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "order placed", dto.ToOrderResponse(*order))
}

// Get handles GET /orders/:orderId.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), CurrentUserID(c), IsAdmin(c), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.ToOrderResponse(*order))
}

// ListOwn handles GET /orders/user-orders.
func (h *OrderHandler) ListOwn(c *gin.Context) {
	page := pageFromQuery(c)
	status := model.OrderStatus(c.Query("status"))

	orders, total, err := h.facade.UserOrders(c.Request.Context(), CurrentUserID(c), status, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orderList(orders, page.Number, page.Size, total))
}

// ListAll handles GET /orders/admin/all-orders.
func (h *OrderHandler) ListAll(c *gin.Context) {
	page := pageFromQuery(c)
	status := model.OrderStatus(c.Query("status"))

	from, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	orders, total, err := h.facade.AllOrders(c.Request.Context(), status, from, to, c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orderList(orders, page.Number, page.Size, total))
}

// Cancel handles PUT /orders/:orderId/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), CurrentUserID(c), IsAdmin(c), c.Param("orderId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "order cancelled", dto.ToOrderResponse(*order))
}

// UpdateStatus handles PUT /orders/admin/:orderId/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	input := usecase.StatusUpdateInput{
		Status: model.OrderStatus(req.Status),
		Note:   req.Note,
	}
	if req.TrackingNumber != "" || req.Carrier != "" || req.EstimatedDelivery != nil {
		input.Tracking = &model.TrackingUpdate{
			TrackingNumber:    req.TrackingNumber,
			Carrier:           req.Carrier,
			EstimatedDelivery: req.EstimatedDelivery,
		}
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "status updated", dto.ToOrderResponse(*order))
}

// Stats handles GET /orders/admin/stats.
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.facade.OrderStats(c.Request.Context(), c.DefaultQuery("period", "today"), h.topN)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.ToStatsResponse(*stats))
}

func orderList(orders []model.Order, page, limit, total int) dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, dto.ToOrderResponse(o))
	}
	return dto.OrderListResponse{Orders: items, Pagination: dto.NewPagination(page, limit, total)}
}

// parseDateQuery accepts both date-only and RFC 3339 timestamps.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	respondBadRequest(c, "invalid "+name)
	return nil, false
}
