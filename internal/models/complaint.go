package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSeen       Status = "seen"
	StatusInProgress Status = "in progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusSeen, StatusInProgress, StatusResolved, StatusRejected}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// TransitionCheck reports whether a complaint may move from one status to another.
type TransitionCheck func(from, to Status) bool

// Complaint is a grievance filed by a student.
// Category, Subcategory and Author are populated only by the expanded reads.
type Complaint struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id"`
	Title         string       `gorm:"size:100;not null" json:"title"`
	Description   string       `gorm:"type:text;not null" json:"description"`
	Status        Status       `gorm:"size:20;not null;index" json:"status"`
	CategoryID    string       `gorm:"size:36;not null;index" json:"category_id"`
	SubcategoryID string       `gorm:"size:36;not null" json:"subcategory_id"`
	AuthorID      string       `gorm:"size:36;not null;index" json:"author_id"`
	IncidentDate  time.Time    `gorm:"not null" json:"incident_date"`
	CreatedAt     time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Category      *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subcategory   *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	Author        *Student     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Evidence      []Evidence   `gorm:"foreignKey:ComplaintID" json:"evidence,omitempty"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return
}

// Evidence links an uploaded file to a complaint.
type Evidence struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ComplaintID string    `gorm:"size:36;not null;index" json:"complaint_id"`
	FilePath    string    `gorm:"not null" json:"file_path"`
	FileName    string    `gorm:"not null" json:"file_name"`
	FileType    string    `gorm:"size:64;not null" json:"file_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Evidence) TableName() string { return "complaint_evidence" }

func (e *Evidence) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

// Comment is a note left on a complaint by its author or an admin.
type Comment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ComplaintID string    `gorm:"size:36;not null;index" json:"complaint_id"`
	AuthorID    string    `gorm:"size:36;not null" json:"author_id"`
	AuthorRole  Role      `gorm:"size:10;not null" json:"author_role"`
	AuthorName  string    `json:"author_name"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// StatusChange is one row of a complaint's status audit trail.
type StatusChange struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ComplaintID string    `gorm:"size:36;not null;index" json:"complaint_id"`
	ActorID     string    `gorm:"size:36;not null" json:"actor_id"`
	From        Status    `gorm:"column:from_status;size:20" json:"from"`
	To          Status    `gorm:"column:to_status;size:20;not null" json:"to"`
	ChangedAt   time.Time `gorm:"not null" json:"changed_at"`
}

func (StatusChange) TableName() string { return "complaint_status_changes" }

func (s *StatusChange) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// ComplaintFilter narrows ListComplaints. Zero fields are ignored.
type ComplaintFilter struct {
	AuthorID   string
	CategoryID string
	Status     Status
}
