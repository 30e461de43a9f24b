package middleware

import (
	"net/http"

	"github.com/eduardalidini-ux/multivendor-ecommerce/api/responses"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

// RequireWarehouseManager admits warehouse managers and staff.
func RequireWarehouseManager(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireActor(logg, func(actor Actor) bool {
		return actor.IsStaff || actor.WarehouseManager
	}, "warehouse manager role required")
}

// RequireCourier admits active couriers.
func RequireCourier(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireActor(logg, func(actor Actor) bool {
		return actor.CourierActive
	}, "courier role required")
}

// RequireStaff admits staff only.
func RequireStaff(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireActor(logg, func(actor Actor) bool {
		return actor.IsStaff
	}, "staff role required")
}

func requireActor(logg *logger.Logger, allow func(Actor) bool, denied string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if !allow(actor) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, denied))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
