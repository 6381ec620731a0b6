// Package requestid carries the request identifier through a context.Context
// so that outbound calls can forward it.
package requestid

import "context"

// Header is the HTTP header carrying the request identifier.
const Header = "X-Request-ID"

type contextKey struct{}

// With returns a copy of ctx carrying id.
func With(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, id)
}

// From returns the identifier stored in ctx, or "".
func From(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
