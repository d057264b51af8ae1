package util

import (
	"errors"
	"fmt"
	"net/http"
	"nihongo_backend/internal/model"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

// StatusFromError maps the error taxonomy onto HTTP status codes. Anything
// unrecognised is a store failure.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, model.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds a NotFound error with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// BindingError turns a gin binding failure into a ValidationError, listing the
// offending fields when the validator reports them.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			messages = append(messages, fmt.Sprintf("%s is %s", fe.Field(), describeTag(fe)))
		}
		return Validationf("%s", strings.Join(messages, "; "))
	}
	return Validationf("malformed request body: %v", err)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	default:
		return "invalid (" + fe.Tag() + ")"
	}
}

// Message strips the sentinel prefix so clients see only the detail.
func Message(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrValidation, ErrNotFound, ErrForbidden, model.ErrInvalidRecord} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}
