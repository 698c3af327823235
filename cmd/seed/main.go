package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hercule/internal/platform/config"
	"hercule/internal/platform/database"
	"hercule/internal/platform/models"
	"hercule/internal/platform/repositories"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	adminPassword := flag.String("admin-password", "admin", "Password for the seeded admin user")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	now := time.Now().Unix()
	users := repositories.NewUserRepository(db)
	webhooks := repositories.NewWebhookRepository(db)
	triggers := repositories.NewTriggerRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.User{
		ID:             uuid.New().String(),
		Email:          "admin@hercule.local",
		Role:           models.RoleAdmin,
		HashedPassword: string(hash),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := users.Create(admin); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	webhook := &models.Webhook{
		ID:        uuid.New().String(),
		Name:      "Sample webhook",
		URL:       "https://webhook.site/sample",
		AuthToken: uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := webhooks.Create(webhook); err != nil {
		log.Fatalf("Failed to seed webhook: %v", err)
	}

	pattern := ".*"
	trigger := &models.Trigger{
		ID:        uuid.New().String(),
		Name:      "Page opened",
		WebhookID: webhook.ID,
		Source:    models.SourceN8N,
		Event:     models.EventPageOpened,
		URLRegex:  &pattern,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := triggers.Create(trigger); err != nil {
		log.Fatalf("Failed to seed trigger: %v", err)
	}

	log.Printf("Seeded admin user %s, webhook %s, trigger %s", admin.Email, webhook.ID, trigger.ID)
}
