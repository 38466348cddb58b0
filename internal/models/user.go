package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role distinguishes students from administrators.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Student is an account that files complaints. Login is by registration number.
type Student struct {
	ID                 string `gorm:"primaryKey;size:36" json:"id"`
	RegistrationNumber string `gorm:"uniqueIndex;size:32;not null" json:"registration_number"`
	FullName           string `gorm:"not null" json:"full_name"`
	Email              string `json:"email,omitempty"`
	Department         string `json:"department,omitempty"`
	PasswordHash       string `gorm:"not null" json:"-"`
}

// BeforeCreate generates a UUID for the student if ID is not set.
func (s *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// User is a staff account. Only users with RoleAdmin may sign in to the portal.
type User struct {
	ID                 string `gorm:"primaryKey;size:36" json:"id"`
	Email              string `gorm:"uniqueIndex;not null" json:"email"`
	FullName           string `gorm:"not null" json:"full_name"`
	Role               Role   `gorm:"size:10;not null;index" json:"role"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	Department         string `json:"department,omitempty"`
	PasswordHash       string `gorm:"not null" json:"-"`
}

// BeforeCreate generates a UUID for the user if ID is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// Principal is the identity of whoever is acting. A nil *Principal is a guest.
type Principal struct {
	ID                 string `json:"id"`
	DisplayName        string `json:"user_name"`
	Role               Role   `json:"user_role"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

func (p *Principal) IsAdmin() bool   { return p != nil && p.Role == RoleAdmin }
func (p *Principal) IsStudent() bool { return p != nil && p.Role == RoleStudent }
