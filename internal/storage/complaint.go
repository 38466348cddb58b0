package storage

import (
	"context"
	"fmt"
	"grievanceportal/backend/internal/models"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// expanded preloads everything a complaint list row renders.
func expanded(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Subcategory").
		Preload("Author").
		Preload("Evidence", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint for author %s: %v", complaint.AuthorID, err)
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

func (s *Service) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := expanded(s.DB.WithContext(ctx)).First(&complaint, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &complaint, nil
}

// ListComplaints returns expanded complaints, newest first.
func (s *Service) ListComplaints(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	query := expanded(s.DB.WithContext(ctx))
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at DESC").Order("id DESC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return complaints, nil
}

// lockComplaint reads the complaint row, holding a row lock for the rest of the
// transaction on postgres. SQLite serializes writers on its own.
func lockComplaint(tx *gorm.DB, id string, columns ...string) (*models.Complaint, error) {
	query := tx.Select(columns)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var current models.Complaint
	if err := query.First(&current, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &current, nil
}

// UpdateComplaintStatus sets the status and records an audit row in one transaction.
// allow, when non-nil, is checked against the locked current status so concurrent
// updates cannot slip past it. The stored updated_at never moves backwards: if at
// is older than the current value, the current value is kept. It returns the audit
// row and the stored updated_at.
func (s *Service) UpdateComplaintStatus(ctx context.Context, id string, status models.Status, actorID string, at time.Time, allow models.TransitionCheck) (*models.StatusChange, time.Time, error) {
	var change *models.StatusChange
	var updatedAt time.Time

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockComplaint(tx, id, "id", "status", "updated_at")
		if err != nil {
			return err
		}
		if allow != nil && !allow(current.Status, status) {
			return fmt.Errorf("%w: %s -> %s", models.ErrIllegalTransition, current.Status, status)
		}

		updatedAt = at
		if current.UpdatedAt.After(at) {
			updatedAt = current.UpdatedAt
		}

		err = tx.Model(&models.Complaint{}).
			Where("id = ?", id).
			UpdateColumns(map[string]interface{}{
				"status":     status,
				"updated_at": updatedAt,
			}).Error
		if err != nil {
			return fmt.Errorf("update complaint status: %w", err)
		}

		change = &models.StatusChange{
			ComplaintID: id,
			ActorID:     actorID,
			From:        current.Status,
			To:          status,
			ChangedAt:   updatedAt,
		}
		if err := tx.Create(change).Error; err != nil {
			return fmt.Errorf("record status change: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return change, updatedAt, nil
}

func (s *Service) ListStatusChanges(ctx context.Context, complaintID string) ([]models.StatusChange, error) {
	var changes []models.StatusChange
	err := s.DB.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("changed_at ASC").
		Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	return changes, nil
}

func (s *Service) CountEvidence(ctx context.Context, complaintID string) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Evidence{}).Where("complaint_id = ?", complaintID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count evidence: %w", err)
	}
	return n, nil
}

// CreateEvidence links evidence to its complaint unless the complaint already
// holds limit files, in which case it returns models.ErrTooManyFiles. The count
// and insert run under the complaint's row lock.
func (s *Service) CreateEvidence(ctx context.Context, evidence *models.Evidence, limit int) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockComplaint(tx, evidence.ComplaintID, "id"); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Evidence{}).Where("complaint_id = ?", evidence.ComplaintID).Count(&n).Error; err != nil {
			return fmt.Errorf("count evidence: %w", err)
		}
		if n >= int64(limit) {
			return models.ErrTooManyFiles
		}
		if err := tx.Create(evidence).Error; err != nil {
			log.Printf("ERROR: Failed to link evidence %s to complaint %s: %v", evidence.FilePath, evidence.ComplaintID, err)
			return fmt.Errorf("create evidence: %w", err)
		}
		return nil
	})
	return err
}

func (s *Service) GetEvidence(ctx context.Context, complaintID, evidenceID string) (*models.Evidence, error) {
	var evidence models.Evidence
	err := s.DB.WithContext(ctx).
		Where("id = ? AND complaint_id = ?", evidenceID, complaintID).
		First(&evidence).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &evidence, nil
}

func (s *Service) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.DB.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *Service) ListComments(ctx context.Context, complaintID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.DB.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
