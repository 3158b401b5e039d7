package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phoneRegexp accepts digits, spaces, parentheses, plus and hyphen, at least
// 10 characters total. Matches international formats like "+62 812-3456-7890".
var phoneRegexp = regexp.MustCompile(`^[0-9+\-\s()]{10,}$`)

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// Register custom "notblank" validator - rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// Register custom "phone" validator for registration phone numbers
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return phoneRegexp.MatchString(str)
	})

	return v
}
