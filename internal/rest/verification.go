package rest

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"tsuwallet/pkg/logger"
)

type (
	VerificationHandler struct {
		validate            *validator.Validate
		verificationService VerificationService
	}

	VerificationService interface {
		IssueChallenge(ctx context.Context, address, currency string) (string, error)
		VerifyAddress(ctx context.Context, userID uint, address, currency, signature, ipAddress string) error
	}

	ChallengeRequest struct {
		Address  string `json:"address" validate:"required"`
		Currency string `json:"currency" validate:"required"`
	}

	VerifyAddressRequest struct {
		Address   string `json:"address" validate:"required"`
		Currency  string `json:"currency" validate:"required"`
		Signature string `json:"signature" validate:"required"`
	}
)

func NewVerificationHandler(verificationService VerificationService) *VerificationHandler {
	return &VerificationHandler{
		validate:            validator.New(),
		verificationService: verificationService,
	}
}

// Challenge handles POST /api/wallet/challenge.
func (h *VerificationHandler) Challenge(c echo.Context) error {
	var request ChallengeRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	nonce, err := h.verificationService.IssueChallenge(c.Request().Context(), request.Address, request.Currency)
	if err != nil {
		logger.Error("Failed to issue wallet challenge", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"nonce": nonce})
}

// Verify handles POST /api/wallet/verify.
func (h *VerificationHandler) Verify(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request VerifyAddressRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	err := h.verificationService.VerifyAddress(c.Request().Context(), userID, request.Address, request.Currency, request.Signature, c.RealIP())
	if err != nil {
		logger.Error("Failed to verify wallet address", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "wallet address verified"})
}
