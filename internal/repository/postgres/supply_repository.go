package postgres

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tsuwallet/domain"
)

type SupplyRepository struct {
	DB *gorm.DB
}

func NewSupplyRepository(db *gorm.DB) *SupplyRepository {
	return &SupplyRepository{
		DB: db,
	}
}

// Get returns the singleton supply row, creating it on first use.
func (r *SupplyRepository) Get(ctx context.Context) (domain.CoinSupply, error) {
	var supply domain.CoinSupply

	err := r.DB.WithContext(ctx).First(&supply, 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			supply = domain.CoinSupply{
				ID:          1,
				TotalSupply: decimal.Zero,
				Circulating: decimal.Zero,
				ReserveUSD:  decimal.Zero,
			}
			if err := r.DB.WithContext(ctx).Create(&supply).Error; err != nil {
				return domain.CoinSupply{}, err
			}
			return supply, nil
		}
		return domain.CoinSupply{}, err
	}

	return supply, nil
}

func (r *SupplyRepository) Update(ctx context.Context, totalSupply, reserveUSD decimal.Decimal) (domain.CoinSupply, error) {
	if _, err := r.Get(ctx); err != nil {
		return domain.CoinSupply{}, err
	}

	err := r.DB.WithContext(ctx).Model(&domain.CoinSupply{}).
		Where("id = ?", 1).
		Updates(map[string]any{
			"total_supply": totalSupply,
			"reserve_usd":  reserveUSD,
		}).Error
	if err != nil {
		return domain.CoinSupply{}, err
	}

	return r.Get(ctx)
}
