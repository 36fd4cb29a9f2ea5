package security

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"game-data-hub/internal/middleware"
	"game-data-hub/pkg/response"
)

const contextKeyClaims = "user_claims"

// AuthMiddleware guards the editing API with bearer tokens
type AuthMiddleware struct {
	jwtManager *JWTManager
}

func NewAuthMiddleware(jwtManager *JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// RequireAuth rejects requests without a valid bearer token
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := am.jwtManager.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			reject(c, err.Error())
			return
		}

		claims, err := am.jwtManager.ValidateToken(token)
		if err != nil {
			reject(c, "Invalid or expired token")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// every request through.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := am.jwtManager.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err == nil {
			if claims, err := am.jwtManager.ValidateToken(token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(contextKeyClaims, claims)
	c.Set(middleware.UserIDKey, claims.UserID)
}

func reject(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(message, middleware.GetCorrelationID(c)))
}

// GetUserID returns the authenticated user's id
func GetUserID(c *gin.Context) (uint, bool) {
	claims, ok := GetUserClaims(c)
	if !ok || claims.UserID == 0 {
		return 0, false
	}
	return claims.UserID, true
}

// GetUserClaims returns the claims RequireAuth or OptionalAuth stored
func GetUserClaims(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(contextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}
