package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":         "{field} is required",
	"gte":              "{field} must be greater than or equal to {param}",
	"lte":              "{field} must be less than or equal to {param}",
	"oneof":            "{field} must be one of {param}",
	"max":              "{field} must be less than or equal to {param}",
	"min":              "{field} must be greater than or equal to {param}",
	"email":            "{field} must be a valid email address",
	"len":              "{field} must be exactly {param} characters long",
	"numeric":          "{field} must contain digits only",
	"datetime":         "{field} must be a date in the format {param}",
	"mimetypes":        "{field} must be one of {param}",
	"maxfilesize":      "{field} must not exceed {param} MB",
	"required_without": "{field} is required when {param} is not set",
	"gtefield":         "{field} must be on or after {param}",
	"uuid":             "{field} must be a valid id",
	"guestroom":        "{field} is invalid",
}

// Length rules read differently for strings and lists.
var lengthMessages = map[reflect.Kind]map[string]string{
	reflect.String: {
		"max": "{field} must be at most {param} characters long",
		"min": "{field} must be at least {param} characters long",
	},
	reflect.Slice: {
		"max": "{field} must contain at most {param} items",
		"min": "{field} must contain at least {param} items",
	},
}

// message renders the first validation error that has a template, or the raw error.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fe := range fieldErrors {
		template, ok := lengthMessages[fe.Kind()][fe.Tag()]
		if !ok {
			template, ok = messages[fe.Tag()]
		}

		if ok {
			return strings.NewReplacer("{field}", fe.Field(), "{param}", fe.Param()).Replace(template)
		}
	}

	return fieldErrors.Error()
}
