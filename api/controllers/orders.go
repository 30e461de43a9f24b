package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eduardalidini-ux/multivendor-ecommerce/api/middleware"
	"github.com/eduardalidini-ux/multivendor-ecommerce/api/responses"
	"github.com/eduardalidini-ux/multivendor-ecommerce/api/validators"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type createOrderRequest struct {
	CartID   string  `json:"cart_id" validate:"required"`
	FullName string  `json:"full_name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Mobile   *string `json:"mobile,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	Country  *string `json:"country,omitempty"`
}

// CreateOrder freezes the cart into an order. Anonymous callers create
// guest orders.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateInput{
			CartID:   payload.CartID,
			FullName: payload.FullName,
			Email:    payload.Email,
			Mobile:   payload.Mobile,
			Address:  payload.Address,
			City:     payload.City,
			State:    payload.State,
			Country:  payload.Country,
		}
		if actor, ok := middleware.ActorFromContext(r.Context()); ok {
			buyerID := actor.UserID
			input.BuyerID = &buyerID
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns the checkout detail for one order.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		order, err := svc.GetByOID(r.Context(), chi.URLParam(r, "oid"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListMyOrders returns the authenticated buyer's order history.
func ListMyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		rows, err := svc.ListForBuyer(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
