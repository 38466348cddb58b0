// Package access decides which principal may perform which action.
// Every complaint, evidence and comment operation asks the Gate first.
package access

import (
	"fmt"
	"grievanceportal/backend/internal/models"
)

type Action string

const (
	FileComplaint     Action = "file_complaint"
	ViewOwnComplaints Action = "view_own_complaints"
	ViewAllComplaints Action = "view_all_complaints"
	ViewComplaint     Action = "view_complaint"
	ChangeStatus      Action = "change_status"
	AttachEvidence    Action = "attach_evidence"
	Comment           Action = "comment"
	ViewDashboard     Action = "view_dashboard"
)

// Resource identifies the complaint an action targets. Only AuthorID is consulted.
type Resource struct {
	AuthorID string
}

type Gate struct{}

func NewGate() *Gate { return &Gate{} }

// Authorize returns nil when p may perform action on res.
// A nil principal yields models.ErrUnauthenticated; a known principal without the
// capability yields an error wrapping models.ErrForbidden.
func (g *Gate) Authorize(p *models.Principal, action Action, res *Resource) error {
	if p == nil || p.ID == "" {
		return models.ErrUnauthenticated
	}

	allowed := false
	switch action {
	case FileComplaint, ViewOwnComplaints:
		allowed = p.Role == models.RoleStudent
	case ViewAllComplaints, ChangeStatus, ViewDashboard:
		allowed = p.Role == models.RoleAdmin
	case ViewComplaint, Comment:
		allowed = p.Role == models.RoleAdmin || owns(p, res)
	case AttachEvidence:
		allowed = owns(p, res)
	}

	if !allowed {
		return fmt.Errorf("%w: %s may not %s", models.ErrForbidden, p.Role, action)
	}
	return nil
}

// Can is Authorize as a boolean.
func (g *Gate) Can(p *models.Principal, action Action, res *Resource) bool {
	return g.Authorize(p, action, res) == nil
}

func owns(p *models.Principal, res *Resource) bool {
	return p.Role == models.RoleStudent && res != nil && res.AuthorID == p.ID
}
