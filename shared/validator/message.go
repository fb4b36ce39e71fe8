package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":         "{field} is required",
	"required_without": "{field} is required when {param} is missing",
	"gte":              "{field} must be greater than or equal to {param}",
	"lte":              "{field} must be less than or equal to {param}",
	"oneof":            "{field} must be one of {param}",
	"max":              "{field} must be at most {param}",
	"min":              "{field} must be at least {param}",
	"email":            "{field} must be a valid email address",
	"uuid":             "{field} must be a valid UUID",
	"url":              "{field} must be a valid URL",
	"date":             "{field} must be a date in YYYY-MM-DD format",
	"eqfield":          "{field} must match {param}",
	"nefield":          "{field} must differ from {param}",
	"mimetypes":        "{field} must be one of {param}",
	"maxfilesize":      "{field} is too large",
}

// message renders the first failed rule of err, e.g. "rating must be at most 5".
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) || len(valErrors) == 0 {
		return err.Error()
	}

	first := valErrors[0]

	template, ok := messages[first.Tag()]
	if !ok {
		return first.Field() + " is invalid"
	}

	return strings.NewReplacer("{field}", first.Field(), "{param}", first.Param()).Replace(template)
}
