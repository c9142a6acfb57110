package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

type (
	PayPalHandler struct {
		validate        *validator.Validate
		purchaseService PurchaseService
	}

	CreateOrderRequest struct {
		AmountUSD decimal.Decimal `json:"amount_usd" validate:"required"`
	}
)

func NewPayPalHandler(purchaseService PurchaseService) *PayPalHandler {
	return &PayPalHandler{
		validate:        validator.New(),
		purchaseService: purchaseService,
	}
}

// CreateOrder handles POST /api/paypal/order.
func (h *PayPalHandler) CreateOrder(c echo.Context) error {
	var request CreateOrderRequest
	if err := c.Bind(&request); err != nil {
		logger.Error("Failed to bind create-order request", err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("Invalid request"))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest(err.Error()))
	}

	if !request.AmountUSD.IsPositive() {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("amount must be positive"))
	}

	order, err := h.purchaseService.CreatePayPalOrder(request.AmountUSD)
	if err != nil {
		logger.Error("Failed to create PayPal order", err)
		return c.JSON(http.StatusBadGateway, fres.Response.StatusInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(order))
}

// CaptureOrder handles POST /api/paypal/order/:orderId/capture.
func (h *PayPalHandler) CaptureOrder(c echo.Context) error {
	orderID := c.Param("orderId")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("missing order id"))
	}

	capture, err := h.purchaseService.CapturePayPalOrder(orderID)
	if err != nil {
		logger.Error("Failed to capture PayPal order", err)
		return c.JSON(http.StatusBadGateway, fres.Response.StatusInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(capture))
}

// HandleWebhook handles POST /api/paypal/webhook. The transmission signature
// is verified with PayPal before the event is trusted. Webhooks only update
// payment status, crediting happens on the purchase endpoint.
func (h *PayPalHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.Error("Failed to read webhook request", err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("Invalid request"))
	}

	var event domain.PayPalWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error("Failed to decode webhook request", err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("Invalid request"))
	}

	headers := domain.PayPalWebhookHeaders{
		TransmissionID:   c.Request().Header.Get("Paypal-Transmission-Id"),
		TransmissionTime: c.Request().Header.Get("Paypal-Transmission-Time"),
		TransmissionSig:  c.Request().Header.Get("Paypal-Transmission-Sig"),
		CertURL:          c.Request().Header.Get("Paypal-Cert-Url"),
		AuthAlgo:         c.Request().Header.Get("Paypal-Auth-Algo"),
	}
	if err := h.purchaseService.VerifyPayPalWebhook(headers, body); err != nil {
		logger.Warn("Rejected webhook with bad signature", "event_id", event.ID, err)
		return c.JSON(http.StatusBadRequest, fres.Response.StatusBadRequest("webhook verification failed"))
	}

	logger.Info("Received webhook from PayPal", "event_type", event.EventType, "event_id", event.ID)

	if err := h.purchaseService.ReceivePayPalWebhook(c.Request().Context(), event); err != nil {
		logger.Error("Failed to process webhook", err)
		return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(http.StatusOK))
}
