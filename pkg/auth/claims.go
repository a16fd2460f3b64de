package auth

import (
	"github.com/dcastano/brandpulse-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Role        enums.DashboardRole
	Brands      []string
	CreatorName string
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to dashboard clients.
// Brands carries the brand ids a brand-scoped user may read; it is empty for
// admins, who see every configured brand.
type AccessTokenClaims struct {
	UserID      uuid.UUID           `json:"user_id"`
	Role        enums.DashboardRole `json:"role"`
	Brands      []string            `json:"brands,omitempty"`
	CreatorName string              `json:"creator_name,omitempty"`
	jwt.RegisteredClaims
}
