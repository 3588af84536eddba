package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hairwise/hairwise-backend/internal/gate"
	"github.com/hairwise/hairwise-backend/internal/models"
	"github.com/hairwise/hairwise-backend/internal/services"
)

// SessionGate applies the access decision to every navigation. The role
// lookup goes through the profile store, not the token, so a demoted
// admin loses the dashboard on their next request.
func SessionGate(g *gate.Gate, profiles services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var lookup gate.RoleLookup
		if userID != "" {
			ctx := c.Request.Context()
			lookup = func() (models.UserRole, error) {
				return profiles.Role(ctx, userID)
			}
		}

		d := g.Decide(c.Request.URL.Path, userID != "", lookup)
		if d.Action == gate.Redirect {
			c.Redirect(http.StatusFound, d.Target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// EnsureProfile creates the caller's profile row on first sight, mirroring
// the identity record. Failure is logged, not fatal: the request may still
// serve reads.
func EnsureProfile(profiles services.ProfileService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID != "" {
			if err := profiles.Ensure(c.Request.Context(), userID, c.GetString("email")); err != nil {
				log.WithField("user_id", userID).WithError(err).Warn("profile ensure failed")
			}
		}
		c.Next()
	}
}
