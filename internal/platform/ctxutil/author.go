package ctxutil

import "context"

type authorKey struct{}

// WithAuthorID attaches the acting user id; activity revisions recorded under
// this context are attributed to it.
func WithAuthorID(ctx context.Context, authorID int64) context.Context {
	return context.WithValue(ctx, authorKey{}, authorID)
}

// AuthorID returns the acting user id, if any.
func AuthorID(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(authorKey{}).(int64)
	return id, ok && id > 0
}
