package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hairwise/hairwise-backend/config"
	"github.com/hairwise/hairwise-backend/internal/api/handlers"
	"github.com/hairwise/hairwise-backend/internal/api/routes"
	"github.com/hairwise/hairwise-backend/internal/cache"
	"github.com/hairwise/hairwise-backend/internal/gate"
	"github.com/hairwise/hairwise-backend/internal/livesync"
	"github.com/hairwise/hairwise-backend/internal/logger"
	pgrepo "github.com/hairwise/hairwise-backend/internal/repositories/postgres"
	"github.com/hairwise/hairwise-backend/internal/rules"
	"github.com/hairwise/hairwise-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	db := config.PostgresDB
	rdb := config.RedisClient

	// repos
	convoRepo := pgrepo.NewConversationRepo(db)
	msgRepo := pgrepo.NewMessageRepo(db)
	profileRepo := pgrepo.NewProfileRepo(db)
	adminRepo := pgrepo.NewAdminRepo(db)

	// infrastructure
	broker := livesync.NewRedisBroker(rdb, l)
	jsonCache := cache.NewRedisCache(rdb)
	accessGate := gate.New(gate.DefaultRoutes(), l)

	// services
	profileSvc := services.NewProfileService(profileRepo, jsonCache, l)
	convoSvc := services.NewConversationService(convoRepo, msgRepo, broker, l)
	chatSvc := services.NewChatService(convoSvc, profileSvc, rules.Default(), l)
	adminSvc := services.NewAdminService(adminRepo)

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Chat:     handlers.NewChatHandler(chatSvc, convoSvc),
		Profile:  handlers.NewProfileHandler(profileSvc),
		Admin:    handlers.NewAdminHandler(adminSvc),
		WS:       handlers.NewWSHandler(broker, l),
		Gate:     accessGate,
		Profiles: profileSvc,
		Log:      l,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
