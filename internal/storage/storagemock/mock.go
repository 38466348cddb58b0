// Package storagemock provides a testify mock of storage.Storage for service tests.
package storagemock

import (
	"context"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"time"

	"github.com/stretchr/testify/mock"
)

var _ storage.Storage = (*MockStorage)(nil)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *MockStorage) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *MockStorage) ListSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	args := m.Called(ctx, categoryID)
	subs, _ := args.Get(0).([]models.Subcategory)
	return subs, args.Error(1)
}

func (m *MockStorage) GetSubcategory(ctx context.Context, id string) (*models.Subcategory, error) {
	args := m.Called(ctx, id)
	sub, _ := args.Get(0).(*models.Subcategory)
	return sub, args.Error(1)
}

func (m *MockStorage) SeedTaxonomy(ctx context.Context, categories []models.Category, subcategories []models.Subcategory) error {
	args := m.Called(ctx, categories, subcategories)
	return args.Error(0)
}

func (m *MockStorage) CountComplaintsByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).([]models.CategoryCount)
	return counts, args.Error(1)
}

func (m *MockStorage) CountComplaintsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).([]models.StatusCount)
	return counts, args.Error(1)
}

func (m *MockStorage) InvalidateCounts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorage) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	complaint, _ := args.Get(0).(*models.Complaint)
	return complaint, args.Error(1)
}

func (m *MockStorage) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(ctx, filter)
	complaints, _ := args.Get(0).([]models.Complaint)
	return complaints, args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(ctx context.Context, id string, status models.Status, actorID string, at time.Time, allow models.TransitionCheck) (*models.StatusChange, time.Time, error) {
	args := m.Called(ctx, id, status, actorID, at, allow)
	change, _ := args.Get(0).(*models.StatusChange)
	updatedAt, _ := args.Get(1).(time.Time)
	return change, updatedAt, args.Error(2)
}

func (m *MockStorage) ListStatusChanges(ctx context.Context, complaintID string) ([]models.StatusChange, error) {
	args := m.Called(ctx, complaintID)
	changes, _ := args.Get(0).([]models.StatusChange)
	return changes, args.Error(1)
}

func (m *MockStorage) CountEvidence(ctx context.Context, complaintID string) (int64, error) {
	args := m.Called(ctx, complaintID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockStorage) CreateEvidence(ctx context.Context, evidence *models.Evidence, limit int) error {
	args := m.Called(ctx, evidence, limit)
	return args.Error(0)
}

func (m *MockStorage) GetEvidence(ctx context.Context, complaintID, evidenceID string) (*models.Evidence, error) {
	args := m.Called(ctx, complaintID, evidenceID)
	evidence, _ := args.Get(0).(*models.Evidence)
	return evidence, args.Error(1)
}

func (m *MockStorage) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockStorage) ListComments(ctx context.Context, complaintID string) ([]models.Comment, error) {
	args := m.Called(ctx, complaintID)
	comments, _ := args.Get(0).([]models.Comment)
	return comments, args.Error(1)
}

func (m *MockStorage) CreateStudent(ctx context.Context, student *models.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStorage) FindStudentByRegistrationNumber(ctx context.Context, regNumber string) (*models.Student, error) {
	args := m.Called(ctx, regNumber)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *MockStorage) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) FindAdminByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockStorage) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) PublishEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStorage) SubscribeEvents(ctx context.Context) (<-chan models.Event, error) {
	args := m.Called(ctx)
	ch, _ := args.Get(0).(<-chan models.Event)
	return ch, args.Error(1)
}
