package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account is a demo login identity.
type Account struct {
	ID               string
	Email            string
	Name             string
	Role             Role
	PasswordHash     string
	LinkedStudentIDs []string
}

// Principal converts the account into its session principal.
func (a Account) Principal() Principal {
	return Principal{ID: a.ID, Name: a.Name, Role: a.Role, LinkedStudentIDs: append([]string(nil), a.LinkedStudentIDs...)}
}

// LoginRequest holds credentials for a demo account.
type LoginRequest struct {
	Role      Role   `json:"role" validate:"required,oneof=ADMIN TEACHER PARENT STUDENT"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued access token and session principal.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Principal   Principal `json:"principal"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	PrincipalID      string   `json:"principal_id"`
	Role             Role     `json:"role"`
	Name             string   `json:"name"`
	LinkedStudentIDs []string `json:"linked_student_ids,omitempty"`
	jwt.RegisteredClaims
}

// Principal rebuilds the session principal from the token claims.
func (c *JWTClaims) Principal() Principal {
	return Principal{ID: c.PrincipalID, Name: c.Name, Role: c.Role, LinkedStudentIDs: append([]string(nil), c.LinkedStudentIDs...)}
}
