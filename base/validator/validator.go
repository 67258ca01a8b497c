package validator

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goroyalty/domain"
)

// IsValidAddress reports whether address is 0x-prefixed hex of a 32 byte identity
func IsValidAddress(address string) bool {
	_, err := domain.HexToAddress(address)
	return err == nil
}

// NewCustomValidator registers the "nonzeroaddr" tag on v
func NewCustomValidator(v *validator.Validate) echo.Validator {
	_ = v.RegisterValidation("nonzeroaddr", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Array {
			return false
		}
		addr, ok := fl.Field().Interface().(domain.Address)
		return ok && !addr.IsZero()
	})
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
