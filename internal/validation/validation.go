// Package validation checks decoded write payloads and reports field-level violations.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"brewery/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// FieldError is a single violation on a named JSON field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Validator runs the tag rules declared on payload structs.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("beerstyle", func(fl validator.FieldLevel) bool {
		return models.BeerStyle(fl.Field().String()).IsValid()
	})

	return &Validator{validate: v}
}

// Validate returns the violations found on payload, or nil when it is valid.
// A non-struct payload is reported as a violation on the empty field.
func (v *Validator) Validate(payload interface{}) []FieldError {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "", Error: "payload could not be validated"}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field: e.Field(),
			Error: message(e),
		})
	}
	return fieldErrors
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "beerstyle":
		return "must be a known beer style"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	default:
		if e.Param() != "" {
			return fmt.Sprintf("failed on %s:%s", e.Tag(), e.Param())
		}
		return fmt.Sprintf("failed on %s", e.Tag())
	}
}
