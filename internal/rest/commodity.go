package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

type (
	CommodityHandler struct {
		validate         *validator.Validate
		commodityService CommodityService
	}

	CommodityService interface {
		Register(ctx context.Context, reg *domain.CommodityRegistration) (domain.CommodityRegistration, error)
		List(ctx context.Context, page, pageSize int) ([]domain.CommodityRegistration, error)
		UpdateStatus(ctx context.Context, id uint, status string) (domain.CommodityRegistration, error)
	}

	CommodityRegisterRequest struct {
		CompanyName   string          `json:"company_name" validate:"required"`
		ContactName   string          `json:"contact_name" validate:"required"`
		ContactEmail  string          `json:"contact_email" validate:"required,email"`
		CommodityType string          `json:"commodity_type" validate:"required"`
		Quantity      decimal.Decimal `json:"quantity"`
		Unit          string          `json:"unit"`
		Notes         string          `json:"notes"`
	}

	CommodityStatusRequest struct {
		Status string `json:"status" validate:"required"`
	}
)

func NewCommodityHandler(commodityService CommodityService) *CommodityHandler {
	return &CommodityHandler{
		validate:         validator.New(),
		commodityService: commodityService,
	}
}

// Register handles POST /api/commodity-registrations, open to the public site.
func (h *CommodityHandler) Register(c echo.Context) error {
	var request CommodityRegisterRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	reg, err := h.commodityService.Register(c.Request().Context(), &domain.CommodityRegistration{
		CompanyName:   request.CompanyName,
		ContactName:   request.ContactName,
		ContactEmail:  request.ContactEmail,
		CommodityType: request.CommodityType,
		Quantity:      request.Quantity,
		Unit:          request.Unit,
		Notes:         request.Notes,
	})
	if err != nil {
		logger.Error("Failed to register commodity", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, reg)
}

// List handles GET /api/commodity-registrations, admin only.
func (h *CommodityHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	regs, err := h.commodityService.List(c.Request().Context(), page, pageSize)
	if err != nil {
		logger.Error("Failed to list commodity registrations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, regs)
}

// UpdateStatus handles PATCH /api/commodity-registrations/:id, admin only.
func (h *CommodityHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid id"})
	}

	var request CommodityStatusRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	reg, err := h.commodityService.UpdateStatus(c.Request().Context(), uint(id), request.Status)
	if err != nil {
		logger.Error("Failed to update commodity status", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, reg)
}
