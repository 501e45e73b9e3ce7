package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("invalid input")
	ErrPaymentRejected    = errors.New("payment rejected by gateway")
)

// InsufficientStockError reports an order line exceeding available stock.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// TotalMismatchError reports a client-declared total diverging from the
// server-computed one beyond rounding tolerance.
type TotalMismatchError struct {
	Computed float64
	Declared float64
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("order total mismatch: computed %.2f, declared %.2f", e.Computed, e.Declared)
}

// InvalidTransitionError reports an illegal status change.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
}
