package handler

import (
	"grievanceportal/backend/internal/complaint"
	"grievanceportal/backend/internal/models"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type createComplaintRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	SubcategoryID string `json:"subcategory_id"`
	IncidentDate  string `json:"incident_date"`
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, models.Invalid("incident_date", "incident date must be YYYY-MM-DD")
	}
	return t, nil
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, models.Invalid("body", "malformed complaint"))
		return
	}
	incident, err := parseDate(req.IncidentDate)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	id, err := h.Complaints.Create(c.Request.Context(), principal(c), complaint.NewComplaint{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		IncidentDate:  incident,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListComplaints is the admin view, optionally filtered by category and status.
func (h *Handler) ListComplaints(c *gin.Context) {
	filter := models.ComplaintFilter{
		CategoryID: c.Query("category_id"),
		Status:     models.Status(c.Query("status")),
	}
	complaints, err := h.Complaints.ListAll(c.Request.Context(), principal(c), filter)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *Handler) ListMyComplaints(c *gin.Context) {
	p := principal(c)
	complaints, err := h.Complaints.ListByAuthor(c.Request.Context(), p, p.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *Handler) GetComplaint(c *gin.Context) {
	found, err := h.Complaints.Get(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

type updateStatusRequest struct {
	Status models.Status `json:"status"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, models.Invalid("body", "malformed status update"))
		return
	}

	id := c.Param("id")
	updatedAt, err := h.Complaints.UpdateStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status, "updated_at": updatedAt})
}

func (h *Handler) History(c *gin.Context) {
	changes, err := h.Complaints.History(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.Complaints.ListComments(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *Handler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, models.Invalid("body", "malformed comment"))
		return
	}
	comment, err := h.Complaints.AddComment(c.Request.Context(), principal(c), c.Param("id"), req.Content)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.Complaints.Dashboard(c.Request.Context(), principal(c))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
