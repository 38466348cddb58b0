package storage

import (
	"context"
	"fmt"
	"grievanceportal/backend/internal/models"
)

func (s *Service) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := s.DB.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// FindStudentByRegistrationNumber is an exact match; no case folding.
func (s *Service) FindStudentByRegistrationNumber(ctx context.Context, regNumber string) (*models.Student, error) {
	var student models.Student
	err := s.DB.WithContext(ctx).Where("registration_number = ?", regNumber).First(&student).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &student, nil
}

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindAdminByEmail only matches users whose role is admin.
func (s *Service) FindAdminByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("email = ? AND role = ?", email, models.RoleAdmin).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
