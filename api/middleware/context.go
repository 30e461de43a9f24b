package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

type contextKey string

const ctxActor contextKey = "actor"

// Actor is the authenticated caller derived from the access token.
type Actor struct {
	UserID           uuid.UUID
	Email            string
	Role             enums.UserRole
	VendorID         *uuid.UUID
	IsStaff          bool
	CourierActive    bool
	WarehouseManager bool
}

// WithActor injects the authenticated actor into the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(ctxActor).(Actor)
	return actor, ok
}
