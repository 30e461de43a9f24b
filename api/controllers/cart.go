package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eduardalidini-ux/multivendor-ecommerce/api/middleware"
	"github.com/eduardalidini-ux/multivendor-ecommerce/api/responses"
	"github.com/eduardalidini-ux/multivendor-ecommerce/api/validators"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/cart"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

type upsertCartItemRequest struct {
	CartID    string  `json:"cart_id" validate:"required"`
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Qty       int     `json:"qty" validate:"required,min=1"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
	Country   *string `json:"country,omitempty"`
}

type upsertCartItemResponse struct {
	Outcome string `json:"outcome"`
	Item    any    `json:"item"`
}

// UpsertCartItem adds a product to a cart or replaces the existing line.
func UpsertCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload upsertCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		input := cart.UpsertInput{
			CartID:    payload.CartID,
			ProductID: productID,
			Qty:       payload.Qty,
			Size:      payload.Size,
			Color:     payload.Color,
			Country:   payload.Country,
		}
		if actor, ok := middleware.ActorFromContext(r.Context()); ok {
			userID := actor.UserID
			input.UserID = &userID
		}

		item, outcome, err := svc.Upsert(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if outcome == cart.OutcomeCreated {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, upsertCartItemResponse{
			Outcome: string(outcome),
			Item:    item,
		})
	}
}

// ListCart returns the cart lines visible to the caller.
func ListCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID := strings.TrimSpace(chi.URLParam(r, "cartID"))
		rows, err := svc.List(r.Context(), cartID, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CartTotals sums the priced components across the cart.
func CartTotals(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID := strings.TrimSpace(chi.URLParam(r, "cartID"))
		totals, err := svc.Totals(r.Context(), cartID, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// DeleteCartItem removes one line from the cart.
func DeleteCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID := strings.TrimSpace(chi.URLParam(r, "cartID"))
		itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		if err := svc.DeleteItem(r.Context(), cartID, itemID, actorID(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func actorID(r *http.Request) *uuid.UUID {
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		id := actor.UserID
		return &id
	}
	return nil
}
