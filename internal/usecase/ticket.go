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

// CreateTicketInput is the payload for opening a support ticket.
type CreateTicketInput struct {
	Subject  string
	Category string
	Priority string
	Message  string
}

// TicketStatusUpdateInput is the admin payload for moving a ticket. The
// satisfaction rating is accepted only together with closing.
type TicketStatusUpdateInput struct {
	Status       model.TicketStatus
	Satisfaction *int
}

// TicketUseCase encapsulates the support ticket lifecycle.
type TicketUseCase struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
}

// NewTicketUseCase constructs TicketUseCase.
func NewTicketUseCase(tickets repository.TicketRepository, users repository.UserRepository) *TicketUseCase {
	return &TicketUseCase{tickets: tickets, users: users}
}

// Create opens a ticket with its first message.
func (u *TicketUseCase) Create(ctx context.Context, userID int64, in CreateTicketInput) (*model.Ticket, error) {
	if in.Subject == "" || in.Message == "" {
		return nil, fmt.Errorf("subject and message are required: %w", domainErrors.ErrValidation)
	}
	priority := in.Priority
	switch priority {
	case "":
		priority = "medium"
	case "low", "medium", "high":
	default:
		return nil, fmt.Errorf("unknown priority %q: %w", priority, domainErrors.ErrValidation)
	}

	ticket := &model.Ticket{
		Number:   newTicketNumber(time.Now()),
		UserID:   userID,
		Subject:  in.Subject,
		Category: in.Category,
		Priority: priority,
		Status:   model.TicketStatusOpen,
	}
	return u.tickets.Create(ctx, ticket, in.Message)
}

// Get returns a single ticket; customers may only see their own.
func (u *TicketUseCase) Get(ctx context.Context, userID int64, admin bool, number string) (*model.Ticket, error) {
	ticket, err := u.tickets.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !admin && ticket.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	return ticket, nil
}

// ListForUser returns the user's own tickets.
func (u *TicketUseCase) ListForUser(ctx context.Context, userID int64, status model.TicketStatus, page repository.Page) ([]model.Ticket, int, error) {
	if status != "" && !model.ValidTicketStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q: %w", status, domainErrors.ErrValidation)
	}
	return u.tickets.List(ctx, repository.TicketFilter{UserID: userID, Status: status, Page: normalizePage(page)})
}

// ListAll returns every ticket for admins.
func (u *TicketUseCase) ListAll(ctx context.Context, status model.TicketStatus, page repository.Page) ([]model.Ticket, int, error) {
	if status != "" && !model.ValidTicketStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q: %w", status, domainErrors.ErrValidation)
	}
	return u.tickets.List(ctx, repository.TicketFilter{Status: status, Page: normalizePage(page)})
}

// AddMessage appends a message to the ticket conversation.
func (u *TicketUseCase) AddMessage(ctx context.Context, userID int64, admin bool, number, body string) (*model.Ticket, error) {
	if body == "" {
		return nil, fmt.Errorf("message body is required: %w", domainErrors.ErrValidation)
	}

	ticket, err := u.tickets.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !admin && ticket.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	if ticket.Status == model.TicketStatusClosed {
		return nil, fmt.Errorf("ticket is closed: %w", domainErrors.ErrValidation)
	}

	author := "support"
	if !admin {
		if user, err := u.users.GetByID(ctx, userID); err == nil {
			author = user.Name
		}
	}

	return u.tickets.AddMessage(ctx, number, model.TicketMessage{
		AuthorID:  userID,
		Author:    author,
		FromStaff: admin,
		Body:      body,
	})
}

// UpdateStatus applies an admin-driven ticket transition.
func (u *TicketUseCase) UpdateStatus(ctx context.Context, number string, in TicketStatusUpdateInput) (*model.Ticket, error) {
	if !model.ValidTicketStatus(in.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", in.Status, domainErrors.ErrValidation)
	}
	if in.Satisfaction != nil {
		if in.Status != model.TicketStatusClosed {
			return nil, fmt.Errorf("satisfaction rating is captured only at closing: %w", domainErrors.ErrValidation)
		}
		if *in.Satisfaction < 1 || *in.Satisfaction > 5 {
			return nil, fmt.Errorf("satisfaction rating must be between 1 and 5: %w", domainErrors.ErrValidation)
		}
	}
	return u.tickets.UpdateStatus(ctx, number, in.Status, in.Satisfaction)
}

func newTicketNumber(now time.Time) string {
	return fmt.Sprintf("TKT-%s-%06d", now.Format("20060102"), rand.IntN(1000000))
}
