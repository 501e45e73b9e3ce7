package model

import "github.com/bricklane/storefront/internal/domain/lifecycle"

// OrderLifecycle is the order status machine: forward fulfilment chain with
// cancellation reachable only before shipment.
var OrderLifecycle = lifecycle.New(map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
})

// TicketLifecycle mirrors the support ticket flow. Resolved tickets may be
// reopened by a customer reply before they are closed.
var TicketLifecycle = lifecycle.New(map[TicketStatus][]TicketStatus{
	TicketStatusOpen:            {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress:      {TicketStatusWaitingResponse, TicketStatusResolved, TicketStatusClosed},
	TicketStatusWaitingResponse: {TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:        {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusClosed:          {},
})

// Cancellable reports whether a customer may still cancel an order in the
// given status.
func Cancellable(status OrderStatus) bool {
	return OrderLifecycle.CanTransition(status, OrderStatusCancelled)
}
