package dto

import "time"

// LoginRequest carries the credential to be resolved into an identity.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the signed token plus the resolved identity the
// token encodes, so clients don't have to decode the JWT themselves.
type LoginResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      int64     `json:"userID"`
	Username    string    `json:"username"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
}
