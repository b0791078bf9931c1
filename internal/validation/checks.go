// AngelaMos | 2026
// checks.go

package validation

import (
	"unicode"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

// PasswordStrength requires at least one letter and one digit.
func PasswordStrength(field, pw string) []core.FieldError {
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if letter && digit {
		return nil
	}
	return []core.FieldError{{
		Field:   field,
		Rule:    "strength",
		Message: field + " must contain a letter and a digit",
	}}
}
