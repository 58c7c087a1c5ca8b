package validator

import (
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var exerciseNameValidRegex = regexp.MustCompile(`^[a-zA-Z0-9 +\-_.]+$`)

func exerciseNameValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return exerciseNameValidRegex.MatchString(val)
}

func videoUrlValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	u, err := url.Parse(val)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
