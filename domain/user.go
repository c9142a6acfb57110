package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	FullName   string          `gorm:"column:full_name;not null" json:"full_name"`
	Email      string          `gorm:"column:email;unique;not null" json:"email"`
	IsVerified bool            `gorm:"column:is_verified;default:false" json:"is_verified"`
	Password   string          `gorm:"column:password;not null" json:"password,omitempty"`
	Role       string          `gorm:"column:role;default:customer" json:"role"`
	Balance    decimal.Decimal `gorm:"column:balance;type:numeric(20,8);default:0" json:"balance"`

	// Wallet addresses recorded through the challenge/signature exchange.
	// The exchange proves nothing about the payment itself.
	EthAddress       string     `gorm:"column:eth_address" json:"eth_address,omitempty"`
	BtcAddress       string     `gorm:"column:btc_address" json:"btc_address,omitempty"`
	WalletVerifiedAt *time.Time `gorm:"column:wallet_verified_at" json:"wallet_verified_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
