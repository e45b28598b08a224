// Package requestdata carries per-request identity through context.Context.
package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData is attached to the request context by the auth middleware.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// ActingUserID returns the authenticated user for the request, if any.
func ActingUserID(ctx context.Context) (uuid.UUID, bool) {
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// WithActingUser is a shorthand for attaching only a user id.
func WithActingUser(ctx context.Context, userID uuid.UUID) context.Context {
	return WithRequestData(ctx, &RequestData{UserID: userID})
}
