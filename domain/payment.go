package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodPayPal   = "paypal"
	PaymentMethodEthereum = "ethereum"
	PaymentMethodBitcoin  = "bitcoin"
)

// PaymentTransaction records one external payment that bought TSU. Status is
// free text carried over from the provider (PENDING, COMPLETED, FAILED, ...).
type PaymentTransaction struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	UserID         uint             `gorm:"column:user_id;index;not null" json:"user_id"`
	Method         string           `gorm:"column:method;not null" json:"method"`
	AmountUSD      decimal.Decimal  `gorm:"column:amount_usd;type:numeric(20,8);not null" json:"amount_usd"`
	AmountTSU      decimal.Decimal  `gorm:"column:amount_tsu;type:numeric(20,8);not null" json:"amount_tsu"`
	CryptoAmount   *decimal.Decimal `gorm:"column:crypto_amount;type:numeric(30,18)" json:"crypto_amount,omitempty"`
	CryptoCurrency string           `gorm:"column:crypto_currency" json:"crypto_currency,omitempty"`
	Reference      string           `gorm:"column:reference;not null;index" json:"reference"`
	Status         string           `gorm:"column:status;not null" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// ProcessedPayment exists solely for its unique reference constraint. Double
// submission of the same external reference fails on insert.
type ProcessedPayment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"column:reference;uniqueIndex;not null" json:"reference"`
	Method    string    `gorm:"column:method;not null" json:"method"`
	UserID    uint      `gorm:"column:user_id;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProcessedPayment) TableName() string {
	return "processed_payments"
}
