package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tsuwallet/business/purchase"
	"tsuwallet/domain"
)

type stubPurchaseService struct {
	purchaseErr error
	lastInput   purchase.PurchaseInput
}

func (s *stubPurchaseService) Purchase(_ context.Context, userID uint, input purchase.PurchaseInput) (domain.PaymentTransaction, error) {
	s.lastInput = input
	if s.purchaseErr != nil {
		return domain.PaymentTransaction{}, s.purchaseErr
	}
	return domain.PaymentTransaction{
		ID:        1,
		UserID:    userID,
		Method:    input.Method,
		AmountUSD: input.AmountUSD,
		AmountTSU: input.AmountUSD,
		Reference: input.Reference,
		Status:    input.Status,
	}, nil
}

func (s *stubPurchaseService) GetPrice(_ context.Context) (domain.TSUPrice, error) {
	return domain.TSUPrice{RateUSD: decimal.NewFromInt(1)}, nil
}

func (s *stubPurchaseService) GetSupply(_ context.Context) (domain.CoinSupply, decimal.Decimal, error) {
	return domain.CoinSupply{}, decimal.Zero, nil
}

func (s *stubPurchaseService) GetUserPayments(_ context.Context, _ uint, _, _ int) ([]domain.PaymentTransaction, error) {
	return nil, nil
}

func (s *stubPurchaseService) CreatePayPalOrder(_ decimal.Decimal) (domain.PayPalOrderResponse, error) {
	return domain.PayPalOrderResponse{}, nil
}

func (s *stubPurchaseService) CapturePayPalOrder(_ string) (domain.PayPalCaptureResponse, error) {
	return domain.PayPalCaptureResponse{}, nil
}

func (s *stubPurchaseService) VerifyPayPalWebhook(_ domain.PayPalWebhookHeaders, _ []byte) error {
	return nil
}

func (s *stubPurchaseService) ReceivePayPalWebhook(_ context.Context, _ domain.PayPalWebhookEvent) error {
	return nil
}

func postPurchase(t *testing.T, svc PurchaseService, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/tsu/purchase", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint(7))

	handler := NewPurchaseHandler(svc)
	if err := handler.Purchase(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestPurchaseHandler_Created(t *testing.T) {
	svc := &stubPurchaseService{}
	rec := postPurchase(t, svc, `{"amount_usd":"25","payment_method":"paypal","payment_reference":"CAP-1","status":"COMPLETED"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.Reference != "CAP-1" {
		t.Errorf("reference not passed through, got %q", svc.lastInput.Reference)
	}
	if svc.lastInput.Method != "paypal" {
		t.Errorf("method not passed through, got %q", svc.lastInput.Method)
	}
}

func TestPurchaseHandler_DuplicateIsConflict(t *testing.T) {
	svc := &stubPurchaseService{purchaseErr: purchase.ErrDuplicateReference}
	rec := postPurchase(t, svc, `{"amount_usd":"25","payment_method":"paypal","payment_reference":"CAP-1","status":"COMPLETED"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate reference, got %d", rec.Code)
	}
}

func TestPurchaseHandler_UnknownMethodIsBadRequest(t *testing.T) {
	svc := &stubPurchaseService{purchaseErr: purchase.ErrUnknownMethod}
	rec := postPurchase(t, svc, `{"amount_usd":"25","payment_method":"cheque","payment_reference":"CAP-2"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown method, got %d", rec.Code)
	}
}

func TestPurchaseHandler_UnexpectedErrorIsInternal(t *testing.T) {
	svc := &stubPurchaseService{purchaseErr: errors.New("connection refused")}
	rec := postPurchase(t, svc, `{"amount_usd":"25","payment_method":"paypal","payment_reference":"CAP-3","status":"COMPLETED"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unexpected error, got %d", rec.Code)
	}
}

func TestPurchaseHandler_MissingReferenceRejected(t *testing.T) {
	svc := &stubPurchaseService{}
	rec := postPurchase(t, svc, `{"amount_usd":"25","payment_method":"paypal","status":"COMPLETED"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing reference, got %d", rec.Code)
	}
}
