package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hairwise/hairwise-backend/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type authClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata"` // {"role":"admin"} for staff
	UserMetadata map[string]any `json:"user_metadata"`
}

// Session inspects the bearer token if one is presented and, when valid,
// stores user_id / email / role on the request context. It never aborts:
// an absent or invalid token simply leaves the request unauthenticated,
// and the gate or requireUserID downstream decides what that means.
func Session() gin.HandlerFunc {
	secret := os.Getenv("AUTH_JWT_SECRET")
	issuer := os.Getenv("AUTH_JWT_ISSUER")     // optional
	audience := os.Getenv("AUTH_JWT_AUDIENCE") // optional

	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" || secret == "" {
			c.Next()
			return
		}

		claims := &authClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid || claims.Subject == "" {
			c.Next()
			return
		}
		if issuer != "" && claims.Issuer != issuer {
			c.Next()
			return
		}
		if audience != "" && !hasAudience(claims.Audience, audience) {
			c.Next()
			return
		}

		appRole := "user"
		if v, ok := claims.AppMetadata["role"]; ok {
			if s, ok := v.(string); ok && s != "" {
				appRole = s
			}
		}

		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Set("role", appRole)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func hasAudience(auds []string, want string) bool {
	for _, aud := range auds {
		if aud == want {
			return true
		}
	}
	return false
}
