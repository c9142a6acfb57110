package domain

import "time"

type PayPalTokenResponse struct {
	Scope       string `json:"scope"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AppID       string `json:"app_id"`
	ExpiresIn   int    `json:"expires_in"`
	Nonce       string `json:"nonce"`
}

type PayPalOrderResponse struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	Intent        string               `json:"intent"`
	CreateTime    time.Time            `json:"create_time"`
	Links         []PayPalLink         `json:"links"`
	PurchaseUnits []PayPalPurchaseUnit `json:"purchase_units"`
}

type PayPalLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type PayPalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id"`
	Amount      PayPalAmount `json:"amount"`
}

type PayPalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PayPalCaptureResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
		PayerID      string `json:"payer_id"`
	} `json:"payer"`
}

// PayPalWebhookHeaders carries the transmission headers PayPal signs each
// webhook delivery with.
type PayPalWebhookHeaders struct {
	TransmissionID   string `json:"transmission_id"`
	TransmissionTime string `json:"transmission_time"`
	TransmissionSig  string `json:"transmission_sig"`
	CertURL          string `json:"cert_url"`
	AuthAlgo         string `json:"auth_algo"`
}

// PayPalWebhookEvent is the subset of the webhook envelope the API records.
type PayPalWebhookEvent struct {
	ID           string `json:"id"`
	EventType    string `json:"event_type"`
	ResourceType string `json:"resource_type"`
	Summary      string `json:"summary"`
	Resource     struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"resource"`
	CreateTime time.Time `json:"create_time"`
}
