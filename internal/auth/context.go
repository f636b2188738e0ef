// internal/auth/context.go
//
// Request-scoped identity helpers.
//
// Usage
// -----
//     // Attach the signed-in member to the request context (after the
//     // session cookie verifies).
//     ctx = auth.WithIdentity(ctx, auth.Identity{UserID: 123, Email: "a@b.ae"})
//
//     // Downstream code retrieves the identity.
//     id, ok := auth.FromContext(ctx)
//
// Notes
// -----
// • Identity is an immutable value type.  The admin flag is resolved by
//   the ACL middleware, not here, so handlers never trust a cookie for
//   role checks.

package auth

import "context"

// Identity describes the signed-in member for the current request.
type Identity struct {
	UserID int64
	Email  string
}

// identityKey is unexported to avoid context-key collisions.
type identityKey struct{}

// WithIdentity returns a new context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext extracts the identity from ctx.  It returns (zero, false)
// when no member is signed in.
func FromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey{}).(Identity)
	return v, ok
}

// UserID is a convenience accessor used by repositories.  It returns
// (0, false) if no user is set.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := FromContext(ctx)
	return id.UserID, ok
}
