package usecase

import (
	"math"

	"github.com/bricklane/storefront/internal/domain/model"
)

const (
	taxRate               = 0.18
	freeShippingThreshold = 500
	shippingFee           = 50

	// totalTolerance absorbs client-side rounding when cross-checking the
	// declared total against the server-computed one.
	totalTolerance = 1
)

// ComputeSummary derives the authoritative order totals from line items.
// Tax is a flat 18% of the subtotal, shipping is free above the threshold.
func ComputeSummary(items []model.OrderItem, discount float64) model.OrderSummary {
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal
	}

	tax := math.Round(subtotal * taxRate)

	shipping := float64(shippingFee)
	if subtotal > freeShippingThreshold {
		shipping = 0
	}

	if discount < 0 {
		discount = 0
	}

	return model.OrderSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal + tax + shipping - discount,
	}
}

// TotalsMatch reports whether the declared total agrees with the computed one
// within rounding tolerance.
func TotalsMatch(computed, declared float64) bool {
	return math.Abs(computed-declared) <= totalTolerance
}
