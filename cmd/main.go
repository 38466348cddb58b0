package main

import (
	"context"
	"errors"
	"grievanceportal/backend/internal/access"
	"grievanceportal/backend/internal/api/handler"
	"grievanceportal/backend/internal/blob"
	"grievanceportal/backend/internal/complaint"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/evidence"
	"grievanceportal/backend/internal/feed"
	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/session"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/taxonomy"
	"grievanceportal/backend/internal/telegram"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := storage.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = storage.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			// Redis only backs caches, revocation and multi-instance fan-out.
			log.Printf("WARNING: Redis unavailable, running single-instance: %v", err)
			rdb = nil
		}
	}

	log.Println("Database connection established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Grievance Portal backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "configs/default.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	db, rdb := setupDependencies(ctx, cfg)
	s := storage.NewStorageService(db, rdb)
	s.CountsTTL = cfg.CountsCacheTTL

	blobs, err := blob.NewLocalStore(cfg.BlobRoot)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}

	localizer, err := localization.NewLocalizer(cfg.LocalesDir)
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	// 2. Domain services
	catalog := taxonomy.NewCatalog(s)
	if err := catalog.Seed(ctx); err != nil {
		log.Printf("WARNING: Failed to seed categories: %v", err)
	}

	hub := feed.NewHub(s)
	go hub.Run(ctx)

	complaints := complaint.NewService(s, catalog, access.NewGate(), hub)
	complaints.Policy = complaint.PolicyFor(cfg.StatusPolicy)
	attacher := evidence.NewAttacher(s, blobs, complaints)
	sessions := session.NewStore(s, session.NewBcryptHasher(cfg.BcryptCost), []byte(cfg.JWTSecret), cfg.TokenTTL)

	// 3. Optional Telegram notifications for admins
	if cfg.TelegramBotToken != "" && cfg.TelegramAdminChatID != 0 {
		bot, err := telegram.NewBot(cfg.TelegramBotToken)
		if err != nil {
			log.Printf("WARNING: Telegram notifier disabled: %v", err)
		} else {
			hub.Register(telegram.NewNotifier(bot, cfg.TelegramAdminChatID, localizer))
		}
	}

	// 4. HTTP
	r := gin.Default()
	h := handler.NewHandler(sessions, catalog, complaints, attacher, hub, localizer)
	h.Register(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Graceful shutdown failed: %v", err)
	}
}
