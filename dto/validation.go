package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"teamboard/model"
)

// RegisterValidations adds the custom tags used by the request structs to
// gin's validator.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("labelcolor", func(fl validator.FieldLevel) bool {
		return ValidLabelColor(fl.Field().String())
	})
}

func ValidLabelColor(color string) bool {
	for _, c := range model.LabelColors {
		if c == color {
			return true
		}
	}
	return false
}
