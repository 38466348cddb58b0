package handler

import (
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/session"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// AuthRequired resolves the bearer token to a principal and stores it on the
// context. Requests without a valid session stop here with 401.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.Sessions.Current(c.Request.Context(), bearerToken(c))
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

func principal(c *gin.Context) *models.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}

func (h *Handler) Login(c *gin.Context) {
	var creds session.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.abortWithError(c, models.Invalid("body", "malformed login request"))
		return
	}

	p, token, err := h.Sessions.Login(c.Request.Context(), creds)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": p})
}

// Logout revokes the presented token. Logging out twice is not an error.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, principal(c))
}
