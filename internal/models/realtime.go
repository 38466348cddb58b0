package models

import "time"

type EventType string

const (
	EventComplaintCreated EventType = "complaint.created"
	EventStatusChanged    EventType = "complaint.status_changed"
	EventEvidenceAttached EventType = "complaint.evidence_attached"
	EventCommentAdded     EventType = "complaint.comment_added"
)

// Event tells connected clients that a complaint changed and lists should be refetched.
type Event struct {
	Type        EventType `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title,omitempty"`
	Status      Status    `json:"status,omitempty"`
	At          time.Time `json:"at"`
}
