package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tsuwallet/business/purchase"
	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

type (
	PurchaseHandler struct {
		validate        *validator.Validate
		purchaseService PurchaseService
	}

	PurchaseService interface {
		Purchase(ctx context.Context, userID uint, input purchase.PurchaseInput) (domain.PaymentTransaction, error)
		GetPrice(ctx context.Context) (domain.TSUPrice, error)
		GetSupply(ctx context.Context) (domain.CoinSupply, decimal.Decimal, error)
		GetUserPayments(ctx context.Context, userID uint, page, pageSize int) ([]domain.PaymentTransaction, error)
		CreatePayPalOrder(amountUSD decimal.Decimal) (domain.PayPalOrderResponse, error)
		CapturePayPalOrder(orderID string) (domain.PayPalCaptureResponse, error)
		VerifyPayPalWebhook(headers domain.PayPalWebhookHeaders, body []byte) error
		ReceivePayPalWebhook(ctx context.Context, event domain.PayPalWebhookEvent) error
	}

	PurchaseInput struct {
		AmountUSD      decimal.Decimal  `json:"amount_usd"`
		PaymentMethod  string           `json:"payment_method" validate:"required"`
		Reference      string           `json:"payment_reference" validate:"required"`
		CryptoAmount   *decimal.Decimal `json:"crypto_amount,omitempty"`
		CryptoCurrency string           `json:"crypto_currency,omitempty"`
		Status         string           `json:"status,omitempty"`
	}
)

func NewPurchaseHandler(purchaseService PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		validate:        validator.New(),
		purchaseService: purchaseService,
	}
}

// Purchase handles POST /api/tsu/purchase.
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request PurchaseInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate purchase request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	payment, err := h.purchaseService.Purchase(c.Request().Context(), userID, purchase.PurchaseInput{
		AmountUSD:      request.AmountUSD,
		Method:         request.PaymentMethod,
		Reference:      request.Reference,
		CryptoAmount:   request.CryptoAmount,
		CryptoCurrency: request.CryptoCurrency,
		Status:         request.Status,
	})
	if err != nil {
		logger.Error("Failed to process purchase", err)
		switch {
		case errors.Is(err, purchase.ErrDuplicateReference):
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		case errors.Is(err, purchase.ErrUnknownMethod),
			errors.Is(err, purchase.ErrCaptureNotComplete),
			errors.Is(err, purchase.ErrReferenceRequired),
			errors.Is(err, purchase.ErrAmountNotPositive),
			errors.Is(err, purchase.ErrUnsupportedCrypto):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(payment))
}

// GetPrice handles GET /api/tsu/price.
func (h *PurchaseHandler) GetPrice(c echo.Context) error {
	price, err := h.purchaseService.GetPrice(c.Request().Context())
	if err != nil {
		logger.Error("Failed to get price", err)
		return c.JSON(http.StatusBadGateway, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(price))
}

// GetSupply handles GET /api/tsu/supply.
func (h *PurchaseHandler) GetSupply(c echo.Context) error {
	supply, ratio, err := h.purchaseService.GetSupply(c.Request().Context())
	if err != nil {
		logger.Error("Failed to get supply", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"supply":        supply,
		"reserve_ratio": ratio,
	}))
}

// GetPayments lists the caller's payment transactions.
func (h *PurchaseHandler) GetPayments(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	payments, err := h.purchaseService.GetUserPayments(ctx, userID, page, pageSize)
	if err != nil {
		logger.Error("Failed to list payments", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payments))
}
