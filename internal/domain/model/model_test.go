package model

import "testing"

func TestOrderLifecycleForwardChain(t *testing.T) {
	chain := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
	}
	for i := 0; i < len(chain)-1; i++ {
		if !OrderLifecycle.CanTransition(chain[i], chain[i+1]) {
			t.Errorf("expected %s -> %s to be allowed", chain[i], chain[i+1])
		}
		if OrderLifecycle.CanTransition(chain[i+1], chain[i]) {
			t.Errorf("expected %s -> %s to be rejected", chain[i+1], chain[i])
		}
	}
}

func TestOrderLifecycleCancellation(t *testing.T) {
	cancellable := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing}
	for _, s := range cancellable {
		if !Cancellable(s) {
			t.Errorf("expected %s to be cancellable", s)
		}
	}
	for _, s := range []OrderStatus{OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		if Cancellable(s) {
			t.Errorf("expected %s not to be cancellable", s)
		}
	}
}

func TestOrderLifecycleNoEscapeFromTerminalStates(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}
	for _, to := range all {
		if OrderLifecycle.CanTransition(OrderStatusDelivered, to) {
			t.Errorf("delivered -> %s must be rejected", to)
		}
		if OrderLifecycle.CanTransition(OrderStatusCancelled, to) {
			t.Errorf("cancelled -> %s must be rejected", to)
		}
	}
}

func TestTicketLifecycle(t *testing.T) {
	if !TicketLifecycle.CanTransition(TicketStatusOpen, TicketStatusInProgress) {
		t.Error("open -> in-progress should be allowed")
	}
	if !TicketLifecycle.CanTransition(TicketStatusResolved, TicketStatusClosed) {
		t.Error("resolved -> closed should be allowed")
	}
	if TicketLifecycle.CanTransition(TicketStatusClosed, TicketStatusOpen) {
		t.Error("closed tickets must stay closed")
	}
	if TicketLifecycle.CanTransition(TicketStatusOpen, TicketStatusResolved) {
		t.Error("open -> resolved skips triage and should be rejected")
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusDelivered, OrderStatusCancelled} {
		if !ValidOrderStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ValidOrderStatus("refunded") {
		t.Error("unknown status must be invalid")
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodCOD, PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet} {
		if !ValidPaymentMethod(m) {
			t.Errorf("expected %s to be valid", m)
		}
	}
	if ValidPaymentMethod("cheque") {
		t.Error("unknown method must be invalid")
	}
}

func TestUserIsAdmin(t *testing.T) {
	if (&User{Role: 0}).IsAdmin() {
		t.Error("regular user must not be admin")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("role flag 1 must denote admin")
	}
	var nobody *User
	if nobody.IsAdmin() {
		t.Error("nil user must not be admin")
	}
}
