package auth

import (
	"context"
	"time"
)

// Identity is the user a request is made by.
// The zero value is the anonymous user.
type Identity struct {
	UserID   int64
	Username string
	Since    time.Time
}

// Authenticated reports whether the identity belongs to a logged in user.
func (i Identity) Authenticated() bool {
	return i.UserID > 0
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx, or the anonymous identity.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
