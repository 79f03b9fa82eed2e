package middleware

import (
	"strings"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/auth"
	"jobboard-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func verify(c *gin.Context, verifier TokenVerifier) (*auth.Claims, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, apperror.Unauthorized("Authorization header required")
	}
	claims, err := verifier.Verify(token)
	if err != nil {
		logger.Log.Debug("token validation failed", "error", err)
		return nil, apperror.Unauthorized("Invalid token")
	}
	return claims, nil
}

// TokenOnly accepts any valid token without requiring a local user. It
// guards registration, where the user does not exist yet.
func TokenOnly(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verify(c, verifier)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Set(string(domain.KeyUserID), claims.Subject)
		c.Set(string(domain.KeyUserEmail), claims.Email)
		c.Next()
	}
}

// AuthMiddleware requires a valid token for a registered, active user. The
// role always comes from the database, never from token claims.
func AuthMiddleware(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verify(c, verifier)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		if err := attachUser(c, authUC, claims); err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through. A bad token is treated as anonymous.
func OptionalAuth(verifier TokenVerifier, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			c.Next()
			return
		}
		if claims, err := verify(c, verifier); err == nil {
			_ = attachUser(c, authUC, claims)
		}
		c.Next()
	}
}

func attachUser(c *gin.Context, authUC domain.AuthUsecase, claims *auth.Claims) error {
	user, err := authUC.GetCurrentUser(c.Request.Context(), claims.Subject)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.Unauthorized("User not registered")
		}
		return err
	}
	if !user.IsActive {
		return apperror.Forbidden("Account is disabled")
	}
	c.Set(string(domain.KeyUserID), user.ID)
	c.Set(string(domain.KeyUserEmail), user.Email)
	c.Set(string(domain.KeyUserRole), user.Role)
	return nil
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := Caller(c)
		if caller.Anonymous() {
			c.Error(apperror.Unauthorized("User not authenticated"))
			c.Abort()
			return
		}
		for _, r := range roles {
			if caller.Role == r {
				c.Next()
				return
			}
		}
		c.Error(apperror.Forbidden("You do not have permission to perform this action"))
		c.Abort()
	}
}

// Caller builds the acting identity from values set by the auth middlewares.
func Caller(c *gin.Context) domain.Caller {
	caller := domain.Caller{UserID: c.GetString(string(domain.KeyUserID))}
	if v, ok := c.Get(string(domain.KeyUserRole)); ok {
		caller.Role, _ = v.(domain.Role)
	}
	return caller
}
