package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	appctx "github.com/Edmilson-999/Sistema-stock-sv/internal/core/context"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/auth"
)

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// Auth middleware validates JWT tokens and populates institution context.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		institutionID, err := id.Parse(claims.InstitutionID)
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token subject"))
			c.Abort()
			return
		}

		inst := &appctx.InstitutionContext{
			InstitutionID: institutionID,
			Username:      claims.Username,
			Name:          claims.Name,
			IsAdmin:       claims.IsAdmin,
		}
		ctx := appctx.WithInstitution(c.Request.Context(), inst)
		c.Request = c.Request.WithContext(ctx)

		c.Set("institution_id", claims.InstitutionID)
		c.Set("is_admin", claims.IsAdmin)

		c.Next()
	}
}

// RequireAdmin restricts a route group to the administrative institution.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		inst := appctx.GetInstitution(c.Request.Context())
		if inst == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}
		if !inst.IsAdmin {
			_ = c.Error(apperror.NewForbidden("administrator access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
