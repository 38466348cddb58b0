package complaint

import (
	"context"
	"grievanceportal/backend/internal/access"
	"grievanceportal/backend/internal/models"
	"strings"
	"unicode/utf8"
)

const maxCommentLength = 1000

// AddComment appends a note to a complaint. Only the author and admins may comment.
func (s *Service) AddComment(ctx context.Context, p *models.Principal, complaintID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.Invalid("content", "comment cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, models.Invalid("content", "comment must be at most %d characters", maxCommentLength)
	}

	c, err := s.load(ctx, p, complaintID, access.Comment)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ComplaintID: c.ID,
		AuthorID:    p.ID,
		AuthorRole:  p.Role,
		AuthorName:  p.DisplayName,
		Content:     content,
		CreatedAt:   s.Now().UTC(),
	}
	if err := s.Storage.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.Publisher != nil {
		s.Publisher.Publish(ctx, models.Event{
			Type:        models.EventCommentAdded,
			ComplaintID: c.ID,
			AuthorID:    c.AuthorID,
			Title:       c.Title,
			Status:      c.Status,
			At:          comment.CreatedAt,
		})
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, p *models.Principal, complaintID string) ([]models.Comment, error) {
	if _, err := s.load(ctx, p, complaintID, access.ViewComplaint); err != nil {
		return nil, err
	}
	return s.Storage.ListComments(ctx, complaintID)
}
