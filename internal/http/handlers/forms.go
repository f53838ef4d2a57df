package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormErrorMessage turns a form bind failure into one line the
// redisplayed form can show. Only the first failed field is reported;
// these forms have three fields each.
func FormErrorMessage(err error) string {
	var vErrs validator.ValidationErrors

	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fe := vErrs[0]
		field := strings.ToLower(fe.Field())

		return field + " " + validationMessage(fe.Tag(), fe.Param())
	}

	return "Please check the form and try again."
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param + " characters"
	default:
		return "is invalid"
	}
}
