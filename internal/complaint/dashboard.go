package complaint

import (
	"context"
	"grievanceportal/backend/internal/access"
	"grievanceportal/backend/internal/analysis"
	"grievanceportal/backend/internal/models"
)

// Dashboard is what the admin landing page renders.
type Dashboard struct {
	Summary    analysis.Summary `json:"summary"`
	ByCategory map[string]int64 `json:"by_category"`
}

func (s *Service) Dashboard(ctx context.Context, p *models.Principal) (*Dashboard, error) {
	if err := s.Gate.Authorize(p, access.ViewDashboard, nil); err != nil {
		return nil, err
	}
	statusCounts, err := s.Storage.CountComplaintsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.Catalog.CountComplaintsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Summary:    analysis.Summarize(statusCounts),
		ByCategory: byCategory,
	}, nil
}
