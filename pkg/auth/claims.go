package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/enums"
)

// AccessTokenPayload captures the data minted into a JWT by the identity
// service. This API only mints tokens in tests.
type AccessTokenPayload struct {
	UserID           uuid.UUID
	Email            string
	Role             enums.UserRole
	VendorID         *uuid.UUID
	IsStaff          bool
	CourierActive    bool
	WarehouseManager bool
	JTI              string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID           uuid.UUID      `json:"user_id"`
	Email            string         `json:"email,omitempty"`
	Role             enums.UserRole `json:"role"`
	VendorID         *uuid.UUID     `json:"vendor_id,omitempty"`
	IsStaff          bool           `json:"is_staff,omitempty"`
	CourierActive    bool           `json:"courier_active,omitempty"`
	WarehouseManager bool           `json:"warehouse_manager,omitempty"`
	jwt.RegisteredClaims
}
