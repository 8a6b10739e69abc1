package warehouse

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// validate checks the struct tags of the records.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		switch Role(fl.Field().String()) {
		case Supplier, Customer, Both:
			return true
		}
		return false
	})
	v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		switch Status(fl.Field().String()) {
		case Available, Shipped:
			return true
		}
		return false
	})
	v.RegisterValidation("direction", func(fl validator.FieldLevel) bool {
		switch Direction(fl.Field().String()) {
		case In, Out:
			return true
		}
		return false
	})
	return v
}

// Validate checks a Partner, Item, Asset or LogEntry. Errors wrap ErrInvalid.
func Validate(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", f.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", f.Field(), f.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s has an invalid %s %q", f.Field(), f.Tag(), f.Value()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, ", "))
}
