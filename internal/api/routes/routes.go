package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hairwise/hairwise-backend/internal/api/handlers"
	"github.com/hairwise/hairwise-backend/internal/api/middleware"
	"github.com/hairwise/hairwise-backend/internal/gate"
	"github.com/hairwise/hairwise-backend/internal/services"
)

type Deps struct {
	Chat    *handlers.ChatHandler
	Profile *handlers.ProfileHandler
	Admin   *handlers.AdminHandler
	WS      *handlers.WSHandler

	Gate     *gate.Gate
	Profiles services.ProfileService
	Log      *logrus.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(
		middleware.RequestLogger(d.Log),
		middleware.Session(),
		middleware.SessionGate(d.Gate, d.Profiles),
	)

	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/")
	auth.Use(middleware.EnsureProfile(d.Profiles, d.Log))

	auth.POST("/chat/messages", d.Chat.Send)
	auth.GET("/chat/conversations", d.Chat.ListConversations)
	auth.GET("/chat/conversations/:conversation_id/messages", d.Chat.ListMessages)

	auth.GET("/profile/me", d.Profile.Me)
	auth.PUT("/profile/update", d.Profile.Update)

	// WebSocket change-feed for the conversation list
	auth.GET("/ws/conversations", d.WS.ConversationsWS)

	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/stats", d.Admin.Stats)
	admin.GET("/users", d.Admin.Users)
	admin.GET("/conversations", d.Admin.Conversations)
}
