package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID uuid.UUID
	Username  string
	Email     string
	Role      enums.Role
}

// AccessTokenClaims represents the typed JWT issued to clients. The subject
// claim carries the account id.
type AccessTokenClaims struct {
	Username string     `json:"username,omitempty"`
	Email    string     `json:"email"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// AccountID parses the subject claim back into a UUID.
func (c *AccessTokenClaims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
