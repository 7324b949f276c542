package auth

import "context"

type contextKey struct{}

// Identity is the authenticated caller extracted from a bearer token.
// Token issuance belongs to the identity provider; only the validated
// claims travel through the request context.
type Identity struct {
	Subject string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Subject returns the authenticated subject, or "" when unauthenticated.
func Subject(ctx context.Context) string {
	id, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return id.Subject
}
