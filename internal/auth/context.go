package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityContextKey is the context key for the acting user's ID.
const identityContextKey contextKey = "identity"

// ContextWithIdentity adds the authenticated user's ID to the context.
func ContextWithIdentity(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, identityContextKey, userID)
}

// IdentityFromContext retrieves the authenticated user's ID.
// Returns an empty string if no identity is present.
func IdentityFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(identityContextKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// MustIdentityFromContext retrieves the authenticated user's ID.
// Panics if not present (use only when the identity middleware has run).
func MustIdentityFromContext(ctx context.Context) string {
	userID := IdentityFromContext(ctx)
	if userID == "" {
		panic("identity not found - ensure identity middleware is applied")
	}
	return userID
}
