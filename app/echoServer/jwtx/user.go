// Package jwtx carries the verified caller identity from the auth gate to handlers.
package jwtx

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/apperr"
)

type ctxKey struct{}

// MsgTokenMissing is the 401 message for requests without a bearer token.
const MsgTokenMissing = "Authorization token is missing or malformed. Please log in to access this resource."

// ErrNoIdentity is returned by a protected handler reached without an identity.
var ErrNoIdentity = apperr.Unauthorized(MsgTokenMissing)

// EchoKey is the echo.Context key the gate also stores the identity under.
const EchoKey = "identity"

func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(model.Identity)
	return id, ok
}

// Attach stores id on both the request context and the echo context.
func Attach(c echo.Context, id model.Identity) {
	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
	c.Set(EchoKey, id)
}

// IdentityFromContext reads the identity placed by the gate.
func IdentityFromContext(c echo.Context) (model.Identity, bool) {
	if id, ok := IdentityFrom(c.Request().Context()); ok {
		return id, true
	}
	id, ok := c.Get(EchoKey).(model.Identity)
	return id, ok
}
