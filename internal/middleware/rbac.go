package middleware

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kids-academy-api/internal/models"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
	"github.com/noah-isme/kids-academy-api/pkg/response"
)

// RoleReader resolves the stored role for a verified identity. The token
// carries only the email claim; roles live in the user store.
type RoleReader interface {
	RoleByEmail(ctx context.Context, email string) (models.UserRole, error)
}

// RequireRole is the single parameterized authorization gate: it looks up
// the caller's stored role and admits the request only when it matches one
// of the allowed roles. A missing user record is treated exactly like a role
// mismatch. Must be chained after JWT.
func RequireRole(store RoleReader, allowed ...models.UserRole) gin.HandlerFunc {
	allowedRoles := make(map[models.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedRoles[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		role, err := store.RoleByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				response.Error(c, appErrors.ErrForbidden)
				c.Abort()
				return
			}
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role"))
			c.Abort()
			return
		}

		if _, ok := allowedRoles[role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
