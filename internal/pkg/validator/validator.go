// Package validator wraps go-playground struct validation into a field→rule
// map that drops straight into the response envelope's details payload.
package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the `validate` tags on v. It returns nil when everything
// passes, otherwise one entry per failed field naming the violated rule.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			out[fe.Field()] = fe.Tag()
		}
	}
	return out
}
