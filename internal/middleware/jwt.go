package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"mess-mate/internal/model"
)

// JWTSecret is set from config at startup, before the engine starts
// serving.
var JWTSecret = []byte("mess-mate-dev-secret")

const tokenTTL = 7 * 24 * time.Hour

// NewToken issues the session token for an authenticated principal.
func NewToken(p model.Principal) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   p.ID,
		"email": p.Email,
		"role":  p.Role,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}).SignedString(JWTSecret)
}

// Auth validates the bearer token and injects the principal into the
// gin context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
			return JWTSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		uid, _ := claims["uid"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		if uid == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("user_id", uid)
		c.Set("user_email", email)
		c.Set("user_role", role)

		c.Next()
	}
}

// RequireRole guards a route group: authenticated callers outside the
// allowed set get 403, the API equivalent of the client redirect to the
// neutral view.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// Principal rebuilds the caller's identity from the context set by
// Auth.
func Principal(c *gin.Context) model.Principal {
	return model.Principal{
		ID:    c.GetString("user_id"),
		Email: c.GetString("user_email"),
		Role:  c.GetString("user_role"),
	}
}
