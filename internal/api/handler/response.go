package handler

import (
	"errors"
	"grievanceportal/backend/internal/evidence"
	"grievanceportal/backend/internal/models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorStatus maps a domain error to its HTTP status and message key.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "error_validation"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "error_invalid_credentials"
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "error_unauthenticated"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "error_forbidden"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "error_not_found"
	case errors.Is(err, models.ErrIllegalTransition):
		return http.StatusConflict, "error_illegal_transition"
	case errors.Is(err, models.ErrTooManyFiles):
		return http.StatusBadRequest, "error_too_many_files"
	case errors.Is(err, models.ErrUnsupportedFileType):
		return http.StatusBadRequest, "error_unsupported_file_type"
	case errors.Is(err, models.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "error_file_too_large"
	default:
		return http.StatusInternalServerError, "error_internal"
	}
}

func (h *Handler) lang(c *gin.Context) string {
	return h.Localizer.Negotiate(c.GetHeader("Accept-Language"))
}

// abortWithError writes a localized error body. Internal errors are logged
// and never shown to the caller.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	status, key := errorStatus(err)
	body := gin.H{"error": h.Localizer.GetString(h.lang(c), key)}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		body["field"] = ve.Field
		body["detail"] = ve.Message
	}

	var pe *evidence.PartialUploadError
	if errors.As(err, &pe) {
		body["error"] = h.Localizer.GetString(h.lang(c), "error_partial_upload")
		body["attached"] = pe.Attached
		body["remaining"] = pe.Remaining
	}

	if status == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, body)
}
