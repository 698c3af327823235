package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"hercule/internal/api"
	"hercule/internal/api/handlers"
	"hercule/internal/api/middleware"
	"hercule/internal/engine/triggers"
	"hercule/internal/engine/usage"
	"hercule/internal/engine/webhooks"
	"hercule/internal/pkg/logger"
	"hercule/internal/pkg/webpush"
	"hercule/internal/platform/auth"
	"hercule/internal/platform/config"
	"hercule/internal/platform/database"
	"hercule/internal/platform/repositories"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Repositories
	webhookRepo := repositories.NewWebhookRepository(db)
	triggerRepo := repositories.NewTriggerRepository(db)
	usageRepo := repositories.NewUsageRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	webhookSvc := webhooks.NewService(webhookRepo, triggerRepo)
	triggerSvc := triggers.NewService(db)
	matcher := triggers.NewMatcher(triggerRepo)
	dispatcher := webhooks.NewDispatcher(webhookRepo, usageRepo, cfg.Dispatch)
	pushSender := webpush.NewSender(cfg.WebPush)
	usageSvc := usage.NewService(usageRepo, pushSender)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	triggerHandler := handlers.NewTriggerHandler(triggerSvc, matcher, dispatcher)
	webhookHandler := handlers.NewWebhookHandler(webhookSvc)
	usageHandler := handlers.NewUsageHandler(usageSvc)
	webpushHandler := handlers.NewWebPushHandler(cfg.WebPush)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, cfg.Auth)

	router := api.NewRouter(&api.Dependencies{
		AuthHandler:    authHandler,
		TriggerHandler: triggerHandler,
		WebhookHandler: webhookHandler,
		UsageHandler:   usageHandler,
		WebPushHandler: webpushHandler,
		HealthHandler:  healthHandler,
		AuthMiddleware: authMiddleware,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
