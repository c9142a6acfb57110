package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tsuwallet/business/admin"
	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

type (
	AdminHandler struct {
		validate     *validator.Validate
		adminService AdminService
	}

	AdminService interface {
		ListUsers(ctx context.Context) ([]domain.User, error)
		GetUser(ctx context.Context, id uint) (domain.User, error)
		UpdateUser(ctx context.Context, actorID, targetID uint, input admin.UserUpdateInput, ipAddress string) (domain.User, error)
		AdjustBalance(ctx context.Context, actorID, targetID uint, delta decimal.Decimal, note, ipAddress string) (domain.Transaction, error)
		UpdateSupply(ctx context.Context, actorID uint, totalSupply, reserveUSD decimal.Decimal, ipAddress string) (domain.CoinSupply, error)
		ListTransactions(ctx context.Context, page, pageSize int) ([]domain.Transaction, error)
		ListPayments(ctx context.Context, page, pageSize int) ([]domain.PaymentTransaction, error)
		ListLoginAttempts(ctx context.Context, page, pageSize int) ([]domain.LoginAttempt, error)
		ListSecurityLogs(ctx context.Context, page, pageSize int) ([]domain.SecurityLog, error)
	}

	AdminUserUpdateRequest struct {
		Role       string `json:"role,omitempty"`
		IsVerified *bool  `json:"is_verified,omitempty"`
	}

	BalanceAdjustmentRequest struct {
		Delta decimal.Decimal `json:"delta" validate:"required"`
		Note  string          `json:"note"`
	}

	SupplyUpdateRequest struct {
		TotalSupply decimal.Decimal `json:"total_supply"`
		ReserveUSD  decimal.Decimal `json:"reserve_usd"`
	}
)

func NewAdminHandler(adminService AdminService) *AdminHandler {
	return &AdminHandler{
		validate:     validator.New(),
		adminService: adminService,
	}
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	return page, pageSize
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(users))
}

// GetUser handles GET /api/admin/users/:id.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("invalid user id"))
	}

	user, err := h.adminService.GetUser(c.Request().Context(), uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "user not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(user))
}

// UpdateUser handles PATCH /api/admin/users/:id.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	actorID := c.Get("user_id").(uint)

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("invalid user id"))
	}

	var request AdminUserUpdateRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}

	user, err := h.adminService.UpdateUser(c.Request().Context(), actorID, uint(targetID), admin.UserUpdateInput{
		Role:       request.Role,
		IsVerified: request.IsVerified,
	}, c.RealIP())
	if err != nil {
		logger.Error("Failed to update user", err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(user))
}

// AdjustBalance handles POST /api/admin/users/:id/balance.
func (h *AdminHandler) AdjustBalance(c echo.Context) error {
	actorID := c.Get("user_id").(uint)

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("invalid user id"))
	}

	var request BalanceAdjustmentRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}
	if request.Delta.IsZero() {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("delta must be non-zero"))
	}

	tx, err := h.adminService.AdjustBalance(c.Request().Context(), actorID, uint(targetID), request.Delta, request.Note, c.RealIP())
	if err != nil {
		logger.Error("Failed to adjust balance", err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(tx))
}

// UpdateSupply handles PUT /api/admin/supply.
func (h *AdminHandler) UpdateSupply(c echo.Context) error {
	actorID := c.Get("user_id").(uint)

	var request SupplyUpdateRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}

	supply, err := h.adminService.UpdateSupply(c.Request().Context(), actorID, request.TotalSupply, request.ReserveUSD, c.RealIP())
	if err != nil {
		logger.Error("Failed to update supply", err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(supply))
}

// ListTransactions handles GET /api/admin/transactions.
func (h *AdminHandler) ListTransactions(c echo.Context) error {
	page, pageSize := pageParams(c)

	txs, err := h.adminService.ListTransactions(c.Request().Context(), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(txs))
}

// ListPayments handles GET /api/admin/payments.
func (h *AdminHandler) ListPayments(c echo.Context) error {
	page, pageSize := pageParams(c)

	payments, err := h.adminService.ListPayments(c.Request().Context(), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payments))
}

// ListLoginAttempts handles GET /api/admin/login-attempts.
func (h *AdminHandler) ListLoginAttempts(c echo.Context) error {
	page, pageSize := pageParams(c)

	attempts, err := h.adminService.ListLoginAttempts(c.Request().Context(), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(attempts))
}

// ListSecurityLogs handles GET /api/admin/security-logs.
func (h *AdminHandler) ListSecurityLogs(c echo.Context) error {
	page, pageSize := pageParams(c)

	logs, err := h.adminService.ListSecurityLogs(c.Request().Context(), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(logs))
}
