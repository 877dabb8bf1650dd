package validation

import (
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom validations registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// notblank rejects strings that are empty after trimming whitespace;
	// "required" alone lets all-whitespace values through.
	_ = v.RegisterValidation("notblank", func(fl validatorv10.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}
