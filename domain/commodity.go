package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommodityRegistration struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CompanyName   string          `gorm:"column:company_name;not null" json:"company_name"`
	ContactName   string          `gorm:"column:contact_name;not null" json:"contact_name"`
	ContactEmail  string          `gorm:"column:contact_email;not null" json:"contact_email"`
	CommodityType string          `gorm:"column:commodity_type;not null" json:"commodity_type"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:numeric(24,8)" json:"quantity"`
	Unit          string          `gorm:"column:unit" json:"unit"`
	Notes         string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Status        string          `gorm:"column:status;default:received" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (CommodityRegistration) TableName() string {
	return "commodity_registrations"
}
