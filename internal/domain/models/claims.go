package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are the SSO token claims the identity context attaches to
// every request. The engine only consumes the principal fields; everything
// else about the token (issuance, rotation, sessions) belongs to the
// identity provider.
type IdentityClaims struct {
	jwt.RegisteredClaims
	PrincipalID int64  `json:"principal_id"`
	Department  string `json:"department"`
	IsAdmin     bool   `json:"is_admin"`
}

// Principal converts the verified claims into the engine's principal.
func (c *IdentityClaims) Principal() Principal {
	return Principal{
		ID:         c.PrincipalID,
		Department: c.Department,
		IsAdmin:    c.IsAdmin,
	}
}
