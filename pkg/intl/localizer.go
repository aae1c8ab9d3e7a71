package intl

import (
	"context"
	"errors"

	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/iota-uz/atlas/pkg/constants"
)

var ErrNoLocalizer = errors.New("localizer not found in context")

// WithLocalizer returns a new context carrying the request localizer.
func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, constants.LocalizerKey, l)
}

// UseLocalizer returns the localizer from the context.
// If the localizer is not found, the second return value will be false.
func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(constants.LocalizerKey).(*i18n.Localizer)
	return l, ok
}

// MustT translates the message id, panicking when no localizer is present.
func MustT(ctx context.Context, msgID string) string {
	l, ok := UseLocalizer(ctx)
	if !ok {
		panic(ErrNoLocalizer)
	}
	return l.MustLocalize(&i18n.LocalizeConfig{MessageID: msgID})
}

// TryT translates the message id, reporting false when no localizer is
// present or the message is missing.
func TryT(ctx context.Context, msgID string) (string, bool) {
	l, ok := UseLocalizer(ctx)
	if !ok {
		return "", false
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: msgID})
	if err != nil {
		return "", false
	}
	return msg, true
}
