package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tsuwallet/business/wallet"
	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

type WalletService interface {
	GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error)
	Transfer(ctx context.Context, fromID uint, toEmail string, amount decimal.Decimal, note string) (domain.Transaction, error)
	GetHistory(ctx context.Context, userID uint, page, pageSize int) (wallet.HistoryPage, error)
}

type WalletHandler struct {
	walletService WalletService
	validate      *validator.Validate
	timeout       time.Duration
}

func NewWalletHandler(walletService WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		validate:      validator.New(),
		timeout:       10 * time.Second,
	}
}

type TransferRequest struct {
	ToEmail string          `json:"to_email" validate:"required,email"`
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	Note    string          `json:"note,omitempty"`
}

func (h *WalletHandler) GetBalance(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	balance, err := h.walletService.GetBalance(ctx, userID)
	if err != nil {
		logger.Error("Failed to get balance", err)
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"balance":  balance,
		"currency": "TSU",
	})
}

// Send handles POST /api/transactions/send.
func (h *WalletHandler) Send(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate transfer request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	tx, err := h.walletService.Transfer(ctx, userID, req.ToEmail, req.Amount, req.Note)
	if err != nil {
		logger.Error("Transfer failed", err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		case strings.Contains(err.Error(), "insufficient"),
			strings.Contains(err.Error(), "yourself"),
			strings.Contains(err.Error(), "positive"):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Transfer successful",
		"transaction": tx,
	})
}

func (h *WalletHandler) GetHistory(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	history, err := h.walletService.GetHistory(ctx, userID, page, pageSize)
	if err != nil {
		logger.Error("Failed to get transaction history", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, history)
}
