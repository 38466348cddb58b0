package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"grievanceportal/backend/internal/access"
	"grievanceportal/backend/internal/complaint"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/session"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/taxonomy"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var configPath string

// app is built once per invocation from the resolved config.
type app struct {
	cfg        config.Config
	storage    *storage.Service
	sessions   *session.Store
	catalog    *taxonomy.Catalog
	complaints *complaint.Service
	local      *session.LocalStore
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Grievance portal administration tool",
	Long: `Manage accounts, the category catalog and complaints from the command line.

Sign in once with "admin login"; the session is kept in a local file and used
by commands that act on complaints.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file")
		}
		a, err := newApp(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/default.yaml", "Path to the YAML config file")
}

func newApp(ctx context.Context, path string) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := storage.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	// Without Redis, logouts from this tool are not seen by the server.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = storage.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: Redis unavailable: %v", err)
			rdb = nil
		}
	}

	s := storage.NewStorageService(db, rdb)
	catalog := taxonomy.NewCatalog(s)
	complaints := complaint.NewService(s, catalog, access.NewGate(), &brokerPublisher{storage: s})
	complaints.Policy = complaint.PolicyFor(cfg.StatusPolicy)

	return &app{
		cfg:        cfg,
		storage:    s,
		sessions:   session.NewStore(s, session.NewBcryptHasher(cfg.BcryptCost), []byte(cfg.JWTSecret), cfg.TokenTTL),
		catalog:    catalog,
		complaints: complaints,
		local:      session.NewLocalStore(cfg.SessionFile),
	}, nil
}

// brokerPublisher forwards events to running servers so their feeds refresh.
type brokerPublisher struct {
	storage storage.Storage
}

func (b *brokerPublisher) Publish(ctx context.Context, e models.Event) {
	if err := b.storage.PublishEvent(ctx, e); err != nil && !errors.Is(err, storage.ErrNoBroker) {
		log.Printf("WARNING: Failed to publish %s for complaint %s: %v", e.Type, e.ComplaintID, err)
	}
}

// principal returns the signed-in principal, re-validating the stored token.
// A stale session is cleared.
func (a *app) principal(ctx context.Context) (*models.Principal, error) {
	snap := a.local.Load()
	if snap == nil {
		return nil, fmt.Errorf("not signed in, run \"admin login\" first")
	}
	p, err := a.sessions.Current(ctx, snap.Token)
	if errors.Is(err, models.ErrUnauthenticated) {
		_ = a.local.Clear()
		return nil, fmt.Errorf("session expired, run \"admin login\" again")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// readPassword takes the flag value or reads one line from stdin.
func readPassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
