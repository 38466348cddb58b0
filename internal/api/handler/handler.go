// Package handler exposes the portal over HTTP with gin.
package handler

import (
	"grievanceportal/backend/internal/complaint"
	"grievanceportal/backend/internal/evidence"
	"grievanceportal/backend/internal/feed"
	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/session"
	"grievanceportal/backend/internal/taxonomy"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler holds the services the routes call into. Handlers never touch
// storage directly.
type Handler struct {
	Sessions   *session.Store
	Catalog    *taxonomy.Catalog
	Complaints *complaint.Service
	Evidence   *evidence.Attacher
	Hub        *feed.Hub
	Localizer  *localization.Localizer
}

func NewHandler(
	sessions *session.Store,
	catalog *taxonomy.Catalog,
	complaints *complaint.Service,
	attacher *evidence.Attacher,
	hub *feed.Hub,
	localizer *localization.Localizer,
) *Handler {
	return &Handler{
		Sessions:   sessions,
		Catalog:    catalog,
		Complaints: complaints,
		Evidence:   attacher,
		Hub:        hub,
		Localizer:  localizer,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	auth := r.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.AuthRequired(), h.Me)

	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/", h.AuthRequired())
	api.GET("/categories", h.ListCategories)
	api.GET("/categories/:id/subcategories", h.ListSubcategories)

	api.POST("/complaints", h.CreateComplaint)
	api.GET("/complaints", h.ListComplaints)
	api.GET("/complaints/mine", h.ListMyComplaints)
	api.GET("/complaints/:id", h.GetComplaint)
	api.PATCH("/complaints/:id/status", h.UpdateStatus)
	api.GET("/complaints/:id/history", h.History)
	api.POST("/complaints/:id/evidence", h.AttachEvidence)
	api.GET("/complaints/:id/evidence/:evidenceId", h.DownloadEvidence)
	api.GET("/complaints/:id/comments", h.ListComments)
	api.POST("/complaints/:id/comments", h.AddComment)

	api.GET("/dashboard", h.Dashboard)
}

// Health also reports how many feed clients this instance is serving.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "feed_clients": h.Hub.Clients()})
}
