package httpx

import "context"

type ctxKey string

// CtxKeyUserID holds the authenticated identity id once authentication has
// run. Rate limiters key on it.
const CtxKeyUserID ctxKey = "user_id"

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, id)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	return id, ok && id != ""
}
