// Package complaint implements filing, listing and triaging complaints.
// Every operation takes the acting principal and is authorized by the access
// gate before storage is touched.
package complaint

import (
	"context"
	"fmt"
	"grievanceportal/backend/internal/access"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/taxonomy"
	"log"
	"time"
)

// Publisher receives an event after every successful write so that connected
// views refetch.
type Publisher interface {
	Publish(ctx context.Context, event models.Event)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage   storage.Storage
	Catalog   *taxonomy.Catalog
	Gate      *access.Gate
	Policy    TransitionPolicy
	Publisher Publisher
	Now       func() time.Time
}

// NewService creates a new complaint service with an unrestricted status policy.
func NewService(s storage.Storage, catalog *taxonomy.Catalog, gate *access.Gate, pub Publisher) *Service {
	return &Service{
		Storage:   s,
		Catalog:   catalog,
		Gate:      gate,
		Policy:    Unrestricted{},
		Publisher: pub,
		Now:       time.Now,
	}
}

// Create files a complaint for p and returns its ID. Input is validated
// before any storage call.
func (s *Service) Create(ctx context.Context, p *models.Principal, in NewComplaint) (string, error) {
	if err := s.Gate.Authorize(p, access.FileComplaint, nil); err != nil {
		return "", err
	}
	now := s.Now().UTC()
	if err := in.normalize(now); err != nil {
		return "", err
	}
	if _, _, err := s.Catalog.ResolvePair(ctx, in.CategoryID, in.SubcategoryID); err != nil {
		return "", err
	}

	c := &models.Complaint{
		Title:         in.Title,
		Description:   in.Description,
		Status:        models.StatusPending,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		AuthorID:      p.ID,
		IncidentDate:  in.IncidentDate.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		return "", err
	}

	s.afterWrite(ctx, models.Event{
		Type:        models.EventComplaintCreated,
		ComplaintID: c.ID,
		AuthorID:    c.AuthorID,
		Title:       c.Title,
		Status:      c.Status,
		At:          now,
	})
	return c.ID, nil
}

// ListAll returns every complaint, newest first. Admin only.
func (s *Service) ListAll(ctx context.Context, p *models.Principal, filter models.ComplaintFilter) ([]models.Complaint, error) {
	if err := s.Gate.Authorize(p, access.ViewAllComplaints, nil); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.Invalid("status", "unknown status %q", filter.Status)
	}
	return s.Storage.ListComplaints(ctx, filter)
}

// ListByAuthor returns one author's complaints, newest first. Students may only
// list their own; admins may list anyone's.
func (s *Service) ListByAuthor(ctx context.Context, p *models.Principal, authorID string) ([]models.Complaint, error) {
	if p.IsAdmin() {
		if err := s.Gate.Authorize(p, access.ViewAllComplaints, nil); err != nil {
			return nil, err
		}
	} else {
		if err := s.Gate.Authorize(p, access.ViewOwnComplaints, nil); err != nil {
			return nil, err
		}
		if authorID != p.ID {
			return nil, fmt.Errorf("%w: students may only list their own complaints", models.ErrForbidden)
		}
	}
	return s.Storage.ListComplaints(ctx, models.ComplaintFilter{AuthorID: authorID})
}

// load fetches a complaint and authorizes action against its author.
func (s *Service) load(ctx context.Context, p *models.Principal, id string, action access.Action) (*models.Complaint, error) {
	if p == nil || p.ID == "" {
		return nil, models.ErrUnauthenticated
	}
	c, err := s.Storage.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Gate.Authorize(p, action, &access.Resource{AuthorID: c.AuthorID}); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns one expanded complaint visible to p.
func (s *Service) Get(ctx context.Context, p *models.Principal, id string) (*models.Complaint, error) {
	return s.load(ctx, p, id, access.ViewComplaint)
}

// Authorize exposes the gate decision for a single complaint, e.g. for evidence uploads.
func (s *Service) Authorize(ctx context.Context, p *models.Principal, id string, action access.Action) (*models.Complaint, error) {
	return s.load(ctx, p, id, action)
}

// UpdateStatus sets a complaint's status and returns the stored updated_at.
// The returned time never precedes the complaint's previous updated_at.
func (s *Service) UpdateStatus(ctx context.Context, p *models.Principal, id string, status models.Status) (time.Time, error) {
	if err := s.Gate.Authorize(p, access.ChangeStatus, nil); err != nil {
		return time.Time{}, err
	}
	if !status.Valid() {
		return time.Time{}, models.Invalid("status", "unknown status %q", status)
	}

	current, err := s.Storage.GetComplaint(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	if !s.Policy.Allow(current.Status, status) {
		return time.Time{}, fmt.Errorf("%w: %s -> %s", models.ErrIllegalTransition, current.Status, status)
	}

	// The policy is checked again against the locked row; current may be stale.
	_, updatedAt, err := s.Storage.UpdateComplaintStatus(ctx, id, status, p.ID, s.Now().UTC(), s.Policy.Allow)
	if err != nil {
		return time.Time{}, err
	}

	s.afterWrite(ctx, models.Event{
		Type:        models.EventStatusChanged,
		ComplaintID: id,
		AuthorID:    current.AuthorID,
		Title:       current.Title,
		Status:      status,
		At:          updatedAt,
	})
	return updatedAt, nil
}

// History returns the status audit trail, oldest first.
func (s *Service) History(ctx context.Context, p *models.Principal, id string) ([]models.StatusChange, error) {
	if _, err := s.load(ctx, p, id, access.ViewComplaint); err != nil {
		return nil, err
	}
	return s.Storage.ListStatusChanges(ctx, id)
}

// NotifyEvidence is called by the evidence attacher once files are linked.
func (s *Service) NotifyEvidence(ctx context.Context, c *models.Complaint) {
	s.afterWrite(ctx, models.Event{
		Type:        models.EventEvidenceAttached,
		ComplaintID: c.ID,
		AuthorID:    c.AuthorID,
		Title:       c.Title,
		Status:      c.Status,
		At:          s.Now().UTC(),
	})
}

// afterWrite drops cached aggregates and tells listeners to refetch. The write
// itself already succeeded, so failures here are only logged.
func (s *Service) afterWrite(ctx context.Context, event models.Event) {
	if err := s.Storage.InvalidateCounts(ctx); err != nil {
		log.Printf("WARNING: Failed to invalidate complaint counts: %v", err)
	}
	if s.Publisher != nil {
		s.Publisher.Publish(ctx, event)
	}
}
