package model

import "time"

// TicketStatus describes support ticket lifecycle.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusInProgress      TicketStatus = "in-progress"
	TicketStatusWaitingResponse TicketStatus = "waiting-response"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
)

// ValidTicketStatus reports whether s is a known ticket status.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaitingResponse,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketMessage is a single entry of the append-only conversation.
type TicketMessage struct {
	ID        int64
	AuthorID  int64
	Author    string
	FromStaff bool
	Body      string
	CreatedAt time.Time
}

// Ticket is a support request with a lifecycle analogous to orders. The
// satisfaction rating is captured once, at closing.
type Ticket struct {
	ID           int64
	Number       string
	UserID       int64
	UserName     string
	Subject      string
	Category     string
	Priority     string
	Status       TicketStatus
	Messages     []TicketMessage
	Satisfaction *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
