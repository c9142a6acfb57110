package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoinSupply is a singleton row tracking issuance against reserves.
type CoinSupply struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TotalSupply decimal.Decimal `gorm:"column:total_supply;type:numeric(24,8);not null" json:"total_supply"`
	Circulating decimal.Decimal `gorm:"column:circulating;type:numeric(24,8);default:0" json:"circulating"`
	ReserveUSD  decimal.Decimal `gorm:"column:reserve_usd;type:numeric(24,8);default:0" json:"reserve_usd"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (CoinSupply) TableName() string {
	return "coin_supply"
}

// ReserveRatio is reserves over the USD value of circulating units at the
// given rate. Zero circulation reports a ratio of zero rather than dividing.
func (s CoinSupply) ReserveRatio(rateUSD decimal.Decimal) decimal.Decimal {
	circulatingUSD := s.Circulating.Mul(rateUSD)
	if circulatingUSD.IsZero() {
		return decimal.Zero
	}

	return s.ReserveUSD.Div(circulatingUSD).Round(4)
}
