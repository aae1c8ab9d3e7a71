package serrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/atlas/pkg/intl"
)

// Base is a coded error carried across module boundaries. Code is stable
// and machine readable, Message is the developer-facing fallback and
// LocaleKey resolves the user-facing message when a localizer is present.
type Base struct {
	Code      string
	Message   string
	LocaleKey string
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Base) Localized(ctx context.Context) string {
	if e.LocaleKey == "" {
		return e.Message
	}
	if msg, ok := intl.TryT(ctx, e.LocaleKey); ok {
		return msg
	}
	return e.Message
}

func NewError(code, message, localeKey string) *Base {
	return &Base{Code: code, Message: message, LocaleKey: localeKey}
}

// BaseError reports whether err carries the given code, unwrapping as
// needed.
func BaseError(err error, code string) bool {
	var be *Base
	return errors.As(err, &be) && be.Code == code
}

// Wrap pairs a coded error with its cause. errors.Is matches both the
// coded error and the cause; errors.As reaches the *Base for code and
// locale-key lookups.
func Wrap(base *Base, cause error) error {
	return &wrapped{base: base, cause: cause}
}

type wrapped struct {
	base  *Base
	cause error
}

func (w *wrapped) Error() string {
	return fmt.Sprintf("%s: %v", w.base.Error(), w.cause)
}

func (w *wrapped) Unwrap() []error {
	return []error{w.base, w.cause}
}

// ValidationErrors maps field names to coded errors for form rendering.
type ValidationErrors map[string]*Base

// ProcessValidatorErrors converts go-playground validation errors into
// per-field coded errors. localeKeyFor maps a struct field name to the
// locale key of its label; an empty key falls back to the raw field name.
func ProcessValidatorErrors(
	errs validator.ValidationErrors,
	localeKeyFor func(field string) string,
) map[string]*Base {
	out := make(map[string]*Base, len(errs))
	for _, err := range errs {
		field := err.Field()
		localeKey := localeKeyFor(field)
		switch err.Tag() {
		case "required":
			out[field] = NewFieldRequiredError(field, localeKey)
		default:
			out[field] = &Base{
				Code:      "VALIDATION_FAILED",
				Message:   fmt.Sprintf("%s failed on %q", field, err.Tag()),
				LocaleKey: localeKey,
			}
		}
	}
	return out
}

func NewFieldRequiredError(field, localeKey string) *Base {
	return &Base{
		Code:      "FIELD_REQUIRED",
		Message:   fmt.Sprintf("%s is required", field),
		LocaleKey: localeKey,
	}
}

// LocalizeValidationErrors renders each field error with the request
// localizer, falling back to the raw message.
func LocalizeValidationErrors(ctx context.Context, errs ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		out[field] = err.Localized(ctx)
	}
	return out
}
