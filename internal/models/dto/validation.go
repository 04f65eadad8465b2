package dto

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// MaxBytesTag limits a string field by its UTF-8 byte length rather than by
// characters, e.g. `validate:"maxbytes=72"` for bcrypt input.
const MaxBytesTag = "maxbytes"

// RegisterValidations adds the custom tags used by the request DTOs to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation(MaxBytesTag, maxBytes)
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
