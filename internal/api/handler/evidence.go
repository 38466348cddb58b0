package handler

import (
	"errors"
	"fmt"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/evidence"
	"grievanceportal/backend/internal/models"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxUploadBody caps the whole multipart body: every file at its limit plus
// room for headers.
const maxUploadBody = config.MaxEvidenceFiles*config.MaxEvidenceFileSize + 1<<20

// AttachEvidence accepts multipart form files under the "files" field.
func (h *Handler) AttachEvidence(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	form, err := c.MultipartForm()
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.abortWithError(c, models.ErrFileTooLarge)
			return
		}
		h.abortWithError(c, models.Invalid("files", "expected a multipart form"))
		return
	}
	defer form.RemoveAll()

	headers := form.File["files"]
	if len(headers) == 0 {
		h.abortWithError(c, models.Invalid("files", "at least one file is required"))
		return
	}

	files := make([]evidence.File, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.abortWithError(c, fmt.Errorf("open upload %q: %w", fh.Filename, err))
			return
		}
		opened = append(opened, f)
		files = append(files, evidence.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     f,
		})
	}

	ids, err := h.Evidence.Attach(c.Request.Context(), principal(c), c.Param("id"), files)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"evidence_ids": ids})
}

func (h *Handler) DownloadEvidence(c *gin.Context) {
	ev, rc, err := h.Evidence.Open(c.Request.Context(), principal(c), c.Param("id"), c.Param("evidenceId"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, ev.Size, ev.FileType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", ev.FileName),
	})
}
