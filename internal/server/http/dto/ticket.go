package dto

import (
	"time"

	"github.com/bricklane/storefront/internal/domain/model"
)

// CreateTicketRequest is the payload for opening a support ticket.
type CreateTicketRequest struct {
	Subject  string `json:"subject"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// TicketMessageRequest appends one message to the conversation.
type TicketMessageRequest struct {
	Message string `json:"message"`
}

// TicketStatusRequest is the admin ticket transition payload.
type TicketStatusRequest struct {
	Status       string `json:"status"`
	Satisfaction *int   `json:"satisfaction,omitempty"`
}

// TicketMessageResponse is a conversation entry.
type TicketMessageResponse struct {
	Author    string    `json:"author"`
	FromStaff bool      `json:"fromStaff"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	Number       string                  `json:"ticketNumber"`
	UserName     string                  `json:"userName,omitempty"`
	Subject      string                  `json:"subject"`
	Category     string                  `json:"category,omitempty"`
	Priority     string                  `json:"priority"`
	Status       string                  `json:"status"`
	Messages     []TicketMessageResponse `json:"messages"`
	Satisfaction *int                    `json:"satisfaction,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

// TicketListResponse is a paginated ticket page.
type TicketListResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	Pagination Pagination       `json:"pagination"`
}

// ToTicketResponse maps a ticket model.
func ToTicketResponse(t model.Ticket) TicketResponse {
	messages := make([]TicketMessageResponse, 0, len(t.Messages))
	for _, m := range t.Messages {
		messages = append(messages, TicketMessageResponse{
			Author:    m.Author,
			FromStaff: m.FromStaff,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		})
	}
	return TicketResponse{
		Number:       t.Number,
		UserName:     t.UserName,
		Subject:      t.Subject,
		Category:     t.Category,
		Priority:     t.Priority,
		Status:       string(t.Status),
		Messages:     messages,
		Satisfaction: t.Satisfaction,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
