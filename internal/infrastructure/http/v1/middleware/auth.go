package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"mngconsole/internal/core/apperror"
	appctx "mngconsole/internal/core/context"
)

// TokenValidator validates access tokens issued at login.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.AccountContext, error)
}

// Auth middleware validates the Bearer token and puts the account into the request context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		account, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token").WithCause(err))
			c.Abort()
			return
		}

		ctx := appctx.WithAccount(c.Request.Context(), account)
		c.Request = c.Request.WithContext(ctx)
		c.Set("account_id", account.AccountID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
