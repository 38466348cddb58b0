package storage

import (
	"context"
	"errors"
	"fmt"
	"grievanceportal/backend/internal/models"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrNoBroker is returned by the pub/sub methods when Redis is not configured.
var ErrNoBroker = errors.New("event broker not configured")

type Storage interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error)
	GetSubcategory(ctx context.Context, id string) (*models.Subcategory, error)
	SeedTaxonomy(ctx context.Context, categories []models.Category, subcategories []models.Subcategory) error

	CountComplaintsByCategory(ctx context.Context) ([]models.CategoryCount, error)
	CountComplaintsByStatus(ctx context.Context) ([]models.StatusCount, error)
	InvalidateCounts(ctx context.Context) error

	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, status models.Status, actorID string, at time.Time, allow models.TransitionCheck) (*models.StatusChange, time.Time, error)
	ListStatusChanges(ctx context.Context, complaintID string) ([]models.StatusChange, error)

	CountEvidence(ctx context.Context, complaintID string) (int64, error)
	CreateEvidence(ctx context.Context, evidence *models.Evidence, limit int) error
	GetEvidence(ctx context.Context, complaintID, evidenceID string) (*models.Evidence, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, complaintID string) ([]models.Comment, error)

	CreateStudent(ctx context.Context, student *models.Student) error
	FindStudentByRegistrationNumber(ctx context.Context, regNumber string) (*models.Student, error)
	CreateUser(ctx context.Context, user *models.User) error
	FindAdminByEmail(ctx context.Context, email string) (*models.User, error)

	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)

	PublishEvent(ctx context.Context, event models.Event) error
	SubscribeEvents(ctx context.Context) (<-chan models.Event, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client

	// CountsTTL is how long aggregated counts stay cached in Redis. Zero disables the cache.
	CountsTTL time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewStorageService Constructor. rdb may be nil; Redis-backed features then degrade
// to process-local behaviour.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:        db,
		Redis:     rdb,
		CountsTTL: 30 * time.Second,
		revoked:   make(map[string]time.Time),
	}
}

// OpenPostgres opens a GORM connection using the pgx-backed postgres driver.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// ConnectRedis parses a redis:// URL and verifies the server answers PING.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Migrate creates or updates every table the portal uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Category{},
		&models.Subcategory{},
		&models.Student{},
		&models.User{},
		&models.Complaint{},
		&models.Evidence{},
		&models.Comment{},
		&models.StatusChange{},
	)
	if err != nil {
		log.Printf("ERROR: Failed to run migrations: %v", err)
		return err
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
