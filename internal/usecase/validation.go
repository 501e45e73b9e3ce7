package usecase

import (
	"strings"
	"unicode"
)

// ValidateCardNumber checks a payment card number using the Luhn algorithm.
// Spaces and dashes are tolerated.
func ValidateCardNumber(number string) bool {
	number = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)

	if len(number) < 12 || len(number) > 19 {
		return false
	}

	var sum int
	var alt bool
	for i := len(number) - 1; i >= 0; i-- {
		r := rune(number[i])
		if !unicode.IsDigit(r) {
			return false
		}
		digit := int(r - '0')
		if alt {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		alt = !alt
	}

	return sum%10 == 0
}
