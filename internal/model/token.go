package model

import "time"

// Token types. Access tokens are stateless and never persisted; the other
// three are stored so they can be individually revoked (single-use).
const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypeResetPassword = "resetPassword"
	TokenTypeVerifyEmail   = "verifyEmail"
)

type Token struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Expires     time.Time `json:"expires"`
	Blacklisted bool      `json:"blacklisted"`
	CreatedAt   time.Time `json:"created_at"`
}

type TokenWithExpiry struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// AuthTokens is the access/refresh pair returned by login, register and
// refresh flows.
type AuthTokens struct {
	Access  TokenWithExpiry `json:"access"`
	Refresh TokenWithExpiry `json:"refresh"`
}
