package middleware

import (
	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/acroconnect/internal/app/auth"
	"github.com/yigit/acroconnect/internal/pkg/apperrors"
	"github.com/yigit/acroconnect/internal/pkg/auth"
)

const principalKey = "principal"

// AuthMiddleware resolves bearer access tokens into a Principal
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth rejects requests without a valid access token
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.authenticate(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// OptionalAuth resolves a principal when an Authorization header is sent and lets
// anonymous requests through. A header that is present but invalid is still rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		principal, err := m.authenticate(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (appauth.Principal, error) {
	token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return appauth.Principal{}, err
	}

	claims, err := m.jwtService.ValidateAccessToken(token)
	if err != nil {
		return appauth.Principal{}, err
	}

	return appauth.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		IsTPO:    claims.IsTPO,
	}, nil
}

// GetPrincipal returns the authenticated caller, if any
func GetPrincipal(c *gin.Context) (appauth.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return appauth.Principal{}, false
	}
	principal, ok := value.(appauth.Principal)
	return principal, ok
}

// MustPrincipal returns the caller or writes a 401 and reports false
func MustPrincipal(c *gin.Context) (appauth.Principal, bool) {
	principal, ok := GetPrincipal(c)
	if !ok {
		HandleAPIError(c, apperrors.ErrUnauthenticated)
	}
	return principal, ok
}
