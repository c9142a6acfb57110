package paypal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tsuwallet/domain"
)

type PayPalConfig struct {
	BaseUrl      string
	ClientID     string
	ClientSecret string
	WebhookID    string
}

// PayPalRepository is a thin client for the PayPal Orders v2 API. It caches
// the OAuth2 client-credentials token until shortly before expiry.
type PayPalRepository struct {
	paypalConfig PayPalConfig
	client       *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalRepository(cfg PayPalConfig) *PayPalRepository {
	return &PayPalRepository{
		paypalConfig: cfg,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *PayPalRepository) token() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accessToken != "" && time.Now().Before(r.tokenExpiry) {
		return r.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, r.paypalConfig.BaseUrl+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(r.paypalConfig.ClientID, r.paypalConfig.ClientSecret)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	res, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token request returned %d", res.StatusCode)
	}

	var tokenRes domain.PayPalTokenResponse
	if err := json.Unmarshal(body, &tokenRes); err != nil {
		return "", err
	}

	r.accessToken = tokenRes.AccessToken
	// renew a minute early so an in-flight call never carries a dead token
	r.tokenExpiry = time.Now().Add(time.Duration(tokenRes.ExpiresIn-60) * time.Second)

	return r.accessToken, nil
}

// CreateOrder opens a CAPTURE-intent order for the given USD amount and
// returns the order id plus the payer approval link.
func (r *PayPalRepository) CreateOrder(amountUSD decimal.Decimal) (domain.PayPalOrderResponse, error) {
	token, err := r.token()
	if err != nil {
		return domain.PayPalOrderResponse{}, err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"amount": map[string]string{
					"currency_code": "USD",
					"value":         amountUSD.StringFixed(2),
				},
			},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return domain.PayPalOrderResponse{}, err
	}

	req, err := http.NewRequest(http.MethodPost, r.paypalConfig.BaseUrl+"/v2/checkout/orders", bytes.NewReader(payloadBytes))
	if err != nil {
		return domain.PayPalOrderResponse{}, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add("PayPal-Request-Id", uuid.NewString())

	res, err := r.client.Do(req)
	if err != nil {
		return domain.PayPalOrderResponse{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.PayPalOrderResponse{}, err
	}

	if res.StatusCode != http.StatusCreated && res.StatusCode != http.StatusOK {
		return domain.PayPalOrderResponse{}, fmt.Errorf("paypal create order returned %d: %s", res.StatusCode, string(body))
	}

	var orderRes domain.PayPalOrderResponse
	if err := json.Unmarshal(body, &orderRes); err != nil {
		return domain.PayPalOrderResponse{}, err
	}

	return orderRes, nil
}

// CaptureOrder captures an approved order and returns the provider status.
func (r *PayPalRepository) CaptureOrder(orderID string) (domain.PayPalCaptureResponse, error) {
	token, err := r.token()
	if err != nil {
		return domain.PayPalCaptureResponse{}, err
	}

	captureUrl := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", r.paypalConfig.BaseUrl, orderID)
	req, err := http.NewRequest(http.MethodPost, captureUrl, nil)
	if err != nil {
		return domain.PayPalCaptureResponse{}, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add("PayPal-Request-Id", uuid.NewString())

	res, err := r.client.Do(req)
	if err != nil {
		return domain.PayPalCaptureResponse{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.PayPalCaptureResponse{}, err
	}

	if res.StatusCode != http.StatusCreated && res.StatusCode != http.StatusOK {
		return domain.PayPalCaptureResponse{}, fmt.Errorf("paypal capture returned %d: %s", res.StatusCode, string(body))
	}

	var captureRes domain.PayPalCaptureResponse
	if err := json.Unmarshal(body, &captureRes); err != nil {
		return domain.PayPalCaptureResponse{}, err
	}

	return captureRes, nil
}

// VerifyWebhook asks PayPal to confirm the transmission signature of a
// webhook delivery. Verification is skipped when no webhook id is configured,
// which is the sandbox setup.
func (r *PayPalRepository) VerifyWebhook(headers domain.PayPalWebhookHeaders, event []byte) (bool, error) {
	if r.paypalConfig.WebhookID == "" {
		return true, nil
	}

	token, err := r.token()
	if err != nil {
		return false, err
	}

	payload := map[string]any{
		"transmission_id":   headers.TransmissionID,
		"transmission_time": headers.TransmissionTime,
		"transmission_sig":  headers.TransmissionSig,
		"cert_url":          headers.CertURL,
		"auth_algo":         headers.AuthAlgo,
		"webhook_id":        r.paypalConfig.WebhookID,
		"webhook_event":     json.RawMessage(event),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequest(http.MethodPost, r.paypalConfig.BaseUrl+"/v1/notifications/verify-webhook-signature", bytes.NewReader(payloadBytes))
	if err != nil {
		return false, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+token)

	res, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return false, err
	}

	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("paypal webhook verification returned %d: %s", res.StatusCode, string(body))
	}

	var verifyRes struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.Unmarshal(body, &verifyRes); err != nil {
		return false, err
	}

	return verifyRes.VerificationStatus == "SUCCESS", nil
}
