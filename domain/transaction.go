package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TxTypeTransfer   = "transfer"
	TxTypePurchase   = "purchase"
	TxTypeAdjustment = "adjustment"
)

// Transaction is the TSU ledger. Transfers carry both sides, purchases and
// admin adjustments only the receiving side.
type Transaction struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Type       string          `gorm:"column:type;not null;index" json:"type"`
	FromUserID *uint           `gorm:"column:from_user_id;index" json:"from_user_id,omitempty"`
	ToUserID   *uint           `gorm:"column:to_user_id;index" json:"to_user_id,omitempty"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(20,8);not null" json:"amount"`
	Currency   string          `gorm:"column:currency;default:TSU" json:"currency"`
	Note       string          `gorm:"column:note" json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
