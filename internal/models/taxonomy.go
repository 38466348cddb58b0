package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a top-level complaint classification.
type Category struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Title       string `gorm:"not null;index" json:"title"`
	Description string `json:"description"`
	Icon        string `gorm:"size:32" json:"icon"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	CategoryID  string `gorm:"size:36;not null;index" json:"category_id"`
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// CategoryCount pairs a category with the number of complaints filed under it.
type CategoryCount struct {
	CategoryID string `json:"category_id"`
	Count      int64  `json:"count"`
}

// StatusCount pairs a status with the number of complaints currently in it.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}
