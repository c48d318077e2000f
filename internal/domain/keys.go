package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyRequestID CtxKey = "RequestID"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID string
	Role   string
}

// WithActor stores the caller on the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, actor.UserID)
	return context.WithValue(ctx, KeyUserRole, actor.Role)
}

// ActorFromContext returns the caller, ok is false when unauthenticated.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	userID, _ := ctx.Value(KeyUserID).(string)
	role, _ := ctx.Value(KeyUserRole).(string)
	if userID == "" {
		return Actor{}, false
	}
	return Actor{UserID: userID, Role: role}, true
}

// RequestIDFromContext returns the request id set by the HTTP layer.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}
