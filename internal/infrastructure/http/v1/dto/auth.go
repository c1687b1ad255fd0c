package dto

import (
	"time"

	"mngconsole/internal/domain/account"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// LoginResponse carries the access token and the signed-in account.
type LoginResponse struct {
	AccessToken string           `json:"accessToken"`
	TokenType   string           `json:"tokenType"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	Account     *AccountResponse `json:"account"`
}

// FromLoginResult maps the domain login result.
func FromLoginResult(r *account.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: r.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   r.ExpiresAt,
		Account:     FromAccount(r.Account),
	}
}
