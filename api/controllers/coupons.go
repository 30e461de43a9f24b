package controllers

import (
	"net/http"

	"github.com/eduardalidini-ux/multivendor-ecommerce/api/responses"
	"github.com/eduardalidini-ux/multivendor-ecommerce/api/validators"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/coupons"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type applyCouponRequest struct {
	OrderOID string `json:"order_oid" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

// ApplyCoupon activates a coupon code against one order item. Negative
// outcomes (unknown code, nothing to discount, already applied) come back
// as data, not errors.
func ApplyCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupons service unavailable"))
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Apply(r.Context(), payload.OrderOID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
