// Package analysis turns raw complaint aggregates into the figures shown on the
// admin dashboard.
package analysis

import "grievanceportal/backend/internal/models"

// Summary is the per-status breakdown of all complaints.
type Summary struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Seen       int64 `json:"seen"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Rejected   int64 `json:"rejected"`

	// Open counts complaints that still need attention (pending, seen or in progress).
	Open int64 `json:"open"`
	// ResolutionRate is resolved / (resolved + rejected), or 0 when nothing is closed.
	ResolutionRate float64 `json:"resolution_rate"`
}

// Summarize folds status counts into a Summary. Unknown statuses still count
// towards Total.
func Summarize(counts []models.StatusCount) Summary {
	var s Summary
	for _, row := range counts {
		s.Total += row.Count
		switch row.Status {
		case models.StatusPending:
			s.Pending += row.Count
		case models.StatusSeen:
			s.Seen += row.Count
		case models.StatusInProgress:
			s.InProgress += row.Count
		case models.StatusResolved:
			s.Resolved += row.Count
		case models.StatusRejected:
			s.Rejected += row.Count
		}
	}
	s.Open = s.Pending + s.Seen + s.InProgress
	if closed := s.Resolved + s.Rejected; closed > 0 {
		s.ResolutionRate = float64(s.Resolved) / float64(closed)
	}
	return s
}
