package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

type (
	ContactHandler struct {
		validate       *validator.Validate
		contactService ContactService
	}

	ContactService interface {
		Submit(ctx context.Context, msg *domain.ContactMessage) (domain.ContactMessage, error)
		List(ctx context.Context, page, pageSize int) ([]domain.ContactMessage, error)
		MarkRead(ctx context.Context, id uint) error
	}

	ContactRequest struct {
		Name    string `json:"name" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
		Subject string `json:"subject"`
		Message string `json:"message" validate:"required"`
	}
)

func NewContactHandler(contactService ContactService) *ContactHandler {
	return &ContactHandler{
		validate:       validator.New(),
		contactService: contactService,
	}
}

// Submit handles POST /api/contact-messages, open to the public site.
func (h *ContactHandler) Submit(c echo.Context) error {
	var request ContactRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	msg, err := h.contactService.Submit(c.Request().Context(), &domain.ContactMessage{
		Name:    request.Name,
		Email:   request.Email,
		Subject: request.Subject,
		Message: request.Message,
	})
	if err != nil {
		logger.Error("Failed to store contact message", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, msg)
}

// List handles GET /api/contact-messages, admin only.
func (h *ContactHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	msgs, err := h.contactService.List(c.Request().Context(), page, pageSize)
	if err != nil {
		logger.Error("Failed to list contact messages", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, msgs)
}

// MarkRead handles PATCH /api/contact-messages/:id/read, admin only.
func (h *ContactHandler) MarkRead(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid id"})
	}

	if err := h.contactService.MarkRead(c.Request().Context(), uint(id)); err != nil {
		logger.Error("Failed to mark contact message read", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "marked as read"})
}
