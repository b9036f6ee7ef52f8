package port

import "context"

type sessionKey struct{}

// Session carries the browser's backend credentials for one request
type Session struct {
	Cookie    string
	RequestID string
}

// WithSession returns a context carrying s
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx, if any
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
