package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/storeops/backoffice/internal/interfaces/http/dto"
)

const (
	contextKeyUserID = "jwt_user_id"
	contextKeyRole   = "jwt_role"
)

// Claims are the token claims the service understands
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth verifies the Bearer token and stores the operator identity on the
// context. When no secret is configured the middleware falls back to the
// X-User-ID header, which keeps local development usable without a token
// issuer.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			if userID := c.GetHeader("X-User-ID"); userID != "" {
				c.Set(contextKeyUserID, userID)
			}
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyRole, claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetJWTUserID returns the authenticated user ID, or empty
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// GetJWTRole returns the authenticated role, or empty
func GetJWTRole(c *gin.Context) string {
	return c.GetString(contextKeyRole)
}
