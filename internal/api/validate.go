package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages maps "field.tag" (or just "field") to the client message for
// that failure. The JSON field name is used.
type messages map[string]string

// check validates req and translates the first failure into a validation
// error. Missing required fields are reported before any other failure.
func check(req any, msgs messages) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errInternal("validating request", err)
	}

	first := fieldErrs[0]
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			first = fe
			break
		}
	}

	if msg, ok := msgs[first.Field()+"."+first.Tag()]; ok {
		return errValidation(msg)
	}
	if msg, ok := msgs[first.Field()]; ok {
		return errValidation(msg)
	}
	return errValidation("Invalid " + first.Field())
}
