package platform

import "context"

type tokenKey struct{}

// WithBearerToken returns a context carrying the user's bearer token so
// platform calls made on their behalf keep their identity.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// BearerToken returns the token stored by WithBearerToken, if any.
func BearerToken(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(tokenKey{}).(string)
	return v, ok && v != ""
}

func bearerToken(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey{}).(string)
	return v
}
