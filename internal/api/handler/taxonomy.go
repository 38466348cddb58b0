package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`
	ComplaintCount int64  `json:"complaint_count"`
}

// ListCategories returns the catalog with per-category complaint counts.
// Counts are best effort; the catalog is still returned without them.
func (h *Handler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()
	categories := h.Catalog.ListCategories(ctx)

	counts, err := h.Catalog.CountComplaintsByCategory(ctx)
	if err != nil {
		log.Printf("WARNING: Failed to count complaints per category: %v", err)
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, categoryResponse{
			ID:             category.ID,
			Title:          category.Title,
			Description:    category.Description,
			Icon:           category.Icon,
			ComplaintCount: counts[category.ID],
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListSubcategories(c *gin.Context) {
	subcategories, err := h.Catalog.ListSubcategories(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, subcategories)
}
