package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"gallery-backend/internal/models"
	"gallery-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// uploadFieldNames are the multipart field names accepted for image batches.
var uploadFieldNames = []string{"images", "image", "files", "file"}

type DraftsHandler struct {
	manager *services.DraftManager
}

func NewDraftsHandler(manager *services.DraftManager) *DraftsHandler {
	return &DraftsHandler{
		manager: manager,
	}
}

// Upload stages one batch of images as a new draft. A "replace_draft_id"
// form field discards the previous draft before the new batch is validated,
// so at most one draft exists per form instance.
func (h *DraftsHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	form := c.Request.MultipartForm
	files := multipartFiles(form)
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "no files uploaded",
		})
		return
	}

	if replaceID := strings.TrimSpace(c.PostForm("replace_draft_id")); replaceID != "" {
		if err := h.manager.Discard(c.Request.Context(), replaceID); err != nil {
			respondDraftError(c, "failed to discard previous draft", err)
			return
		}
	}

	session, err := h.manager.Stage(c.Request.Context(), 0, fileInputs(files))
	if err != nil {
		respondDraftError(c, "failed to stage images", err)
		return
	}

	c.JSON(http.StatusCreated, models.DraftResponse{
		DraftID:   session.DraftID,
		Files:     session.Files,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *DraftsHandler) Progress(c *gin.Context) {
	draftID := c.Param("draft_id")
	progress, ok := h.manager.Progress(draftID)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "draft not found"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Discard removes a draft's staged objects. Discarding an unknown (already
// discarded or expired) draft succeeds, so clients can fire it on unload
// without caring whether the draft still exists.
func (h *DraftsHandler) Discard(c *gin.Context) {
	draftID := c.Param("draft_id")
	if err := h.manager.Discard(c.Request.Context(), draftID); err != nil {
		respondDraftError(c, "failed to discard draft", err)
		return
	}
	c.JSON(http.StatusOK, models.DiscardResponse{
		DraftID: draftID,
		Status:  "discarded",
	})
}

// RemoveImage drops one staged image from a draft before commit. The storage
// path rides in the wildcard segment.
func (h *DraftsHandler) RemoveImage(c *gin.Context) {
	draftID := c.Param("draft_id")
	storagePath := strings.TrimPrefix(c.Param("image_path"), "/")
	if storagePath == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "missing image path"})
		return
	}

	if err := h.manager.RemoveStaged(c.Request.Context(), draftID, storagePath); err != nil {
		respondDraftError(c, "failed to remove staged image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft_id": draftID, "removed": storagePath})
}

func multipartFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, fieldName := range uploadFieldNames {
		if f := form.File[fieldName]; len(f) > 0 {
			return f
		}
	}
	return nil
}

func fileInputs(files []*multipart.FileHeader) []services.FileInput {
	inputs := make([]services.FileInput, len(files))
	for i, file := range files {
		header := file
		contentType := header.Header.Get("Content-Type")
		inputs[i] = services.FileInput{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		}
	}
	return inputs
}

func respondDraftError(c *gin.Context, label string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrDraftNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrDraftBusy):
		status = http.StatusConflict
	}
	c.JSON(status, models.ErrorResponse{
		Error:   label,
		Message: err.Error(),
	})
}
