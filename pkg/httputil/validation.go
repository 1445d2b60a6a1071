package httputil

import (
	"reflect"
	"strings"

	"github.com/attendly/attendly-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json name so details line up with
// the request body the client sent
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// fieldMessages maps validator tags to detail messages. A trailing space
// means the tag parameter is appended.
var fieldMessages = map[string]string{
	"required": "this field is required",
	"email":    "must be a valid email address",
	"min":      "must be at least ",
	"max":      "must be at most ",
	"oneof":    "must be one of: ",
	"datetime": "must be a date formatted as ",
	"numeric":  "must be numeric",
}

// Validate checks v's validate tags and returns a VALIDATION_ERROR keyed by
// json field name
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.BadRequest(err.Error())
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Tag()]
		switch {
		case !ok:
			msg = "invalid value"
		case strings.HasSuffix(msg, " "):
			msg += fe.Param()
		}
		details[fe.Field()] = msg
	}
	return errors.Validation(details)
}
