// Package taxonomy serves the two-level category/subcategory catalog.
package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"log"
)

type Catalog struct {
	Storage storage.Storage
}

func NewCatalog(s storage.Storage) *Catalog {
	return &Catalog{Storage: s}
}

// ListCategories returns categories sorted by title. If the read fails or
// the table is empty, it falls back to the built-in default catalog.
func (c *Catalog) ListCategories(ctx context.Context) []models.Category {
	categories, err := c.Storage.ListCategories(ctx)
	if err != nil {
		log.Printf("WARNING: Falling back to default categories: %v", err)
	}
	if err != nil || len(categories) == 0 {
		fallback := make([]models.Category, len(config.DefaultCategories))
		copy(fallback, config.DefaultCategories)
		return fallback
	}
	return categories
}

func (c *Catalog) ListSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	return c.Storage.ListSubcategories(ctx, categoryID)
}

// CountComplaintsByCategory maps every listed category to its complaint count,
// including zero for categories nobody has filed under.
func (c *Catalog) CountComplaintsByCategory(ctx context.Context) (map[string]int64, error) {
	rows, err := c.Storage.CountComplaintsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, category := range c.ListCategories(ctx) {
		counts[category.ID] = 0
	}
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}

// ResolvePair checks that both IDs exist and that the subcategory belongs to the category.
func (c *Catalog) ResolvePair(ctx context.Context, categoryID, subcategoryID string) (*models.Category, *models.Subcategory, error) {
	category, err := c.Storage.GetCategory(ctx, categoryID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil, models.Invalid("category_id", "unknown category")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolve category: %w", err)
	}

	sub, err := c.Storage.GetSubcategory(ctx, subcategoryID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil, models.Invalid("subcategory_id", "unknown subcategory")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolve subcategory: %w", err)
	}
	if sub.CategoryID != category.ID {
		return nil, nil, models.Invalid("subcategory_id", "subcategory does not belong to the selected category")
	}
	return category, sub, nil
}

// Seed loads the default catalog into storage.
func (c *Catalog) Seed(ctx context.Context) error {
	return c.Storage.SeedTaxonomy(ctx, config.DefaultCategories, config.DefaultSubcategories)
}
