package model

import "time"

// Product is a catalog entry. Stock quantity is mutated only through atomic
// adjustments performed by the order lifecycle.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Quantity    int
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
