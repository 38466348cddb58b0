package storage

import (
	"context"
	"errors"
	"fmt"
	"grievanceportal/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.DB.WithContext(ctx).Order("title ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := s.DB.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (s *Service) ListSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	var subcategories []models.Subcategory
	err := s.DB.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("title ASC").
		Find(&subcategories).Error
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return subcategories, nil
}

func (s *Service) GetSubcategory(ctx context.Context, id string) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	if err := s.DB.WithContext(ctx).First(&subcategory, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &subcategory, nil
}

// SeedTaxonomy inserts categories by ID and subcategories by (category, title),
// leaving rows that already exist untouched.
func (s *Service) SeedTaxonomy(ctx context.Context, categories []models.Category, subcategories []models.Subcategory) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			category := categories[i]
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", category.Title, err)
			}
		}
		for i := range subcategories {
			sub := subcategories[i]
			var existing models.Subcategory
			err := tx.Where("category_id = ? AND title = ?", sub.CategoryID, sub.Title).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Create(&sub).Error; err != nil {
				return fmt.Errorf("seed subcategory %q: %w", sub.Title, err)
			}
		}
		return nil
	})
}
