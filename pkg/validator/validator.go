// Package validator adds the project's custom binding tags to
// go-playground/validator and turns its errors into field messages.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/property-api/pkg/slug"
)

// MaxCents caps money fields at ten million in major units.
const MaxCents int64 = 1_000_000_000

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register installs the generic tags (cents, slug) and switches field names in
// errors to their json names.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("cents", validateCents); err != nil {
		return fmt.Errorf("failed to register cents: %w", err)
	}
	return RegisterString(v, "slug", slug.Valid)
}

// RegisterString installs tag as a check over string fields.
func RegisterString(v *validator.Validate, tag string, ok func(string) bool) error {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return ok(field.String())
	})
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", tag, err)
	}
	return nil
}

func validateCents(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		n := field.Int()
		return n >= 0 && n <= MaxCents
	default:
		return false
	}
}

var messages = map[string]string{
	"required":   "is required",
	"email":      "must be a valid email",
	"uuid":       "must be a UUID",
	"cents":      "must be a non-negative amount in cents",
	"slug":       "must be lowercase words joined by hyphens",
	"role":       "is not a known role",
	"permission": "is not a known permission",
}

// Describe converts validator errors into one message per field.
func Describe(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

func message(e validator.FieldError) string {
	if msg, ok := messages[e.Tag()]; ok {
		return msg
	}
	switch e.Tag() {
	case "min", "gte":
		return "must be at least " + e.Param()
	case "max", "lte":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	}
	return "failed " + e.Tag() + " validation"
}
