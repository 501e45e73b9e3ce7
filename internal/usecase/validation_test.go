package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bricklane/storefront/internal/usecase"
)

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"valid visa", "4539148803436467", true},
		{"valid with spaces", "4539 1488 0343 6467", true},
		{"valid with dashes", "4539-1488-0343-6467", true},
		{"wrong check digit", "4539148803436468", false},
		{"too short", "45391488034", false},
		{"too long", "45391488034364671234", false},
		{"letters", "4539a48803436467", false},
		{"empty", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, usecase.ValidateCardNumber(tc.number))
		})
	}
}
