package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/anime-shed/thumbnail-inspector-go/internal/errors"
	"github.com/anime-shed/thumbnail-inspector-go/pkg/models"
)

func (h *handler) listThumbnails(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}

func (h *handler) addThumbnail(c *gin.Context) {
	upload, err := readUpload(c, "file")
	if err != nil {
		respondAppError(c, "invalid upload", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.svc.AddUpload(ctx, upload, c.PostForm("title"))
	if err != nil {
		respondAppError(c, "could not add thumbnail", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) addThumbnailFromURL(c *gin.Context) {
	var req models.AddFromURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.svc.AddFromURL(ctx, req)
	if err != nil {
		respondAppError(c, "could not add thumbnail", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) getThumbnail(c *gin.Context) {
	resp, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondAppError(c, "thumbnail lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) updateThumbnail(c *gin.Context) {
	var req models.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	resp, err := h.svc.UpdateTitle(c.Param("id"), req.Title)
	if err != nil {
		respondAppError(c, "could not update thumbnail", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) deleteThumbnail(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondAppError(c, "could not remove thumbnail", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) scoreThumbnail(c *gin.Context) {
	resp, err := h.svc.Score(c.Param("id"))
	if err != nil {
		respondAppError(c, "could not score thumbnail", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) previewThumbnail(c *gin.Context) {
	preview, err := h.svc.Preview(c.Param("id"))
	if err != nil {
		respondAppError(c, "preview unavailable", err)
		return
	}
	c.Data(http.StatusOK, "image/webp", preview)
}

func (h *handler) compareThumbnails(c *gin.Context) {
	var req models.CompareThumbnailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}
	if req.A == req.B {
		respondAppError(c, "invalid comparison", apperrors.NewValidationError("a and b must name different thumbnails", nil))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.svc.CompareThumbnails(ctx, req.A, req.B)
	if err != nil {
		respondAppError(c, "comparison failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Settings())
}

func (h *handler) updateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	settings, err := h.svc.UpdateSettings(req)
	if err != nil {
		respondAppError(c, "could not update settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
