package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

type (
	ContentHandler struct {
		contentService ContentService
	}

	ContentService interface {
		GetAll(ctx context.Context) (map[string][]domain.Content, error)
		GetByKey(ctx context.Context, key string) (domain.Content, error)
		Update(ctx context.Context, editorID uint, entries []domain.Content, ipAddress string) error
	}

	ContentUpdateRequest struct {
		Entries []ContentEntry `json:"entries"`
	}

	ContentEntry struct {
		Key     string `json:"key"`
		Value   string `json:"value"`
		Section string `json:"section"`
	}
)

func NewContentHandler(contentService ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// GetAll handles GET /api/content, grouped by section for the public site.
func (h *ContentHandler) GetAll(c echo.Context) error {
	content, err := h.contentService.GetAll(c.Request().Context())
	if err != nil {
		logger.Error("Failed to load content", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, content)
}

// GetByKey handles GET /api/content/:key.
func (h *ContentHandler) GetByKey(c echo.Context) error {
	entry, err := h.contentService.GetByKey(c.Request().Context(), c.Param("key"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "content not found"})
	}

	return c.JSON(http.StatusOK, entry)
}

// Update handles PUT /api/content, admin only.
func (h *ContentHandler) Update(c echo.Context) error {
	editorID := c.Get("user_id").(uint)

	var request ContentUpdateRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if len(request.Entries) == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "no entries to update"})
	}

	entries := make([]domain.Content, 0, len(request.Entries))
	for _, e := range request.Entries {
		if e.Key == "" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "entry key is required"})
		}
		entries = append(entries, domain.Content{
			Key:     e.Key,
			Value:   e.Value,
			Section: e.Section,
		})
	}

	if err := h.contentService.Update(c.Request().Context(), editorID, entries, c.RealIP()); err != nil {
		logger.Error("Failed to update content", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "content updated"})
}
