package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := ParseTimeHHMM(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := ParseDate(s)
		return err == nil
	})

	return v
}

// checkStruct runs tag-based validation and wraps failures as ErrValidation.
func checkStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
