package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/server/http/dto"
	"github.com/bricklane/storefront/internal/usecase"
)

// TicketHandler manages support ticket endpoints.
type TicketHandler struct {
	facade TicketFacade
}

// NewTicketHandler constructs TicketHandler.
func NewTicketHandler(facade TicketFacade) *TicketHandler {
	return &TicketHandler{facade: facade}
}

// Create handles POST /tickets/create.
func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ticket, err := h.facade.CreateTicket(c.Request.Context(), CurrentUserID(c), usecase.CreateTicketInput{
		Subject:  req.Subject,
		Category: req.Category,
		Priority: req.Priority,
		Message:  req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "ticket opened", dto.ToTicketResponse(*ticket))
}

// Get handles GET /tickets/:ticketId.
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.facade.Ticket(c.Request.Context(), CurrentUserID(c), IsAdmin(c), c.Param("ticketId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.ToTicketResponse(*ticket))
}

// ListOwn handles GET /tickets/user-tickets.
func (h *TicketHandler) ListOwn(c *gin.Context) {
	page := pageFromQuery(c)
	status := model.TicketStatus(c.Query("status"))

	tickets, total, err := h.facade.UserTickets(c.Request.Context(), CurrentUserID(c), status, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, ticketList(tickets, page.Number, page.Size, total))
}

// ListAll handles GET /tickets/admin/all-tickets.
func (h *TicketHandler) ListAll(c *gin.Context) {
	page := pageFromQuery(c)
	status := model.TicketStatus(c.Query("status"))

	tickets, total, err := h.facade.AllTickets(c.Request.Context(), status, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, ticketList(tickets, page.Number, page.Size, total))
}

// AddMessage handles POST /tickets/:ticketId/messages.
func (h *TicketHandler) AddMessage(c *gin.Context) {
	var req dto.TicketMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ticket, err := h.facade.AddTicketMessage(c.Request.Context(), CurrentUserID(c), IsAdmin(c), c.Param("ticketId"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "message added", dto.ToTicketResponse(*ticket))
}

// UpdateStatus handles PUT /tickets/admin/:ticketId/status.
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req dto.TicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ticket, err := h.facade.UpdateTicketStatus(c.Request.Context(), c.Param("ticketId"), usecase.TicketStatusUpdateInput{
		Status:       model.TicketStatus(req.Status),
		Satisfaction: req.Satisfaction,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "status updated", dto.ToTicketResponse(*ticket))
}

func ticketList(tickets []model.Ticket, page, limit, total int) dto.TicketListResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.ToTicketResponse(t))
	}
	return dto.TicketListResponse{Tickets: items, Pagination: dto.NewPagination(page, limit, total)}
}
