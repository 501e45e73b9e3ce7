package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/bricklane/storefront/internal/domain/errors"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/test"
	"github.com/bricklane/storefront/internal/usecase"
)

type ticketFixture struct {
	tickets *test.TicketRepositoryStub
	users   *test.UserRepositoryStub
	uc      *usecase.TicketUseCase
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets: &test.TicketRepositoryStub{},
		users:   test.NewUserRepositoryStub(),
	}
	f.users.Add(&model.User{ID: 1, Login: "buyer", Name: "Buyer"})
	f.uc = usecase.NewTicketUseCase(f.tickets, f.users)
	return f
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture()

	ticket, err := f.uc.Create(context.Background(), 1, usecase.CreateTicketInput{
		Subject: "damaged item",
		Message: "the mug arrived cracked",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ticket.Number, "TKT-"))
	assert.Equal(t, model.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "medium", ticket.Priority)
	require.Len(t, ticket.Messages, 1)
	assert.Equal(t, "the mug arrived cracked", ticket.Messages[0].Body)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture()

	_, err := f.uc.Create(context.Background(), 1, usecase.CreateTicketInput{Message: "no subject"})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	_, err = f.uc.Create(context.Background(), 1, usecase.CreateTicketInput{Subject: "no message"})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	_, err = f.uc.Create(context.Background(), 1, usecase.CreateTicketInput{Subject: "s", Message: "m", Priority: "urgent"})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	ticket, err := f.uc.Create(context.Background(), 1, usecase.CreateTicketInput{Subject: "s", Message: "m", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, "high", ticket.Priority)
}

func TestGetTicketOwnerOnly(t *testing.T) {
	f := newTicketFixture()
	f.tickets.Tickets = []model.Ticket{{Number: "TKT-1", UserID: 2}}

	_, err := f.uc.Get(context.Background(), 1, false, "TKT-1")
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	_, err = f.uc.Get(context.Background(), 1, true, "TKT-1")
	assert.NoError(t, err)
}

func TestAddMessage(t *testing.T) {
	f := newTicketFixture()
	f.tickets.Tickets = []model.Ticket{{Number: "TKT-1", UserID: 1, Status: model.TicketStatusOpen}}

	_, err := f.uc.AddMessage(context.Background(), 1, false, "TKT-1", "")
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	_, err = f.uc.AddMessage(context.Background(), 2, false, "TKT-1", "hello")
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	_, err = f.uc.AddMessage(context.Background(), 1, false, "TKT-1", "any update?")
	require.NoError(t, err)
	require.Len(t, f.tickets.Messages, 1)
	assert.Equal(t, "Buyer", f.tickets.Messages[0].Author)
	assert.False(t, f.tickets.Messages[0].FromStaff)

	_, err = f.uc.AddMessage(context.Background(), 99, true, "TKT-1", "we are on it")
	require.NoError(t, err)
	require.Len(t, f.tickets.Messages, 2)
	assert.Equal(t, "support", f.tickets.Messages[1].Author)
	assert.True(t, f.tickets.Messages[1].FromStaff)
}

func TestAddMessageClosedTicket(t *testing.T) {
	f := newTicketFixture()
	f.tickets.Tickets = []model.Ticket{{Number: "TKT-1", UserID: 1, Status: model.TicketStatusClosed}}

	_, err := f.uc.AddMessage(context.Background(), 1, false, "TKT-1", "reopen please")
	assert.ErrorIs(t, err, domainErrors.ErrValidation)
}

func TestUpdateTicketStatusSatisfactionRules(t *testing.T) {
	f := newTicketFixture()
	f.tickets.Tickets = []model.Ticket{{Number: "TKT-1", UserID: 1, Status: model.TicketStatusResolved}}

	rating := 4
	_, err := f.uc.UpdateStatus(context.Background(), "TKT-1", usecase.TicketStatusUpdateInput{
		Status:       model.TicketStatusInProgress,
		Satisfaction: &rating,
	})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	outOfRange := 6
	_, err = f.uc.UpdateStatus(context.Background(), "TKT-1", usecase.TicketStatusUpdateInput{
		Status:       model.TicketStatusClosed,
		Satisfaction: &outOfRange,
	})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	ticket, err := f.uc.UpdateStatus(context.Background(), "TKT-1", usecase.TicketStatusUpdateInput{
		Status:       model.TicketStatusClosed,
		Satisfaction: &rating,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusClosed, ticket.Status)
	require.NotNil(t, ticket.Satisfaction)
	assert.Equal(t, 4, *ticket.Satisfaction)
}

func TestUpdateTicketStatusUnknown(t *testing.T) {
	f := newTicketFixture()
	_, err := f.uc.UpdateStatus(context.Background(), "TKT-1", usecase.TicketStatusUpdateInput{Status: "archived"})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)
}
