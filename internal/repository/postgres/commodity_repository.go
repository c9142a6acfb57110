package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tsuwallet/domain"
)

type CommodityRepository struct {
	DB *gorm.DB
}

func NewCommodityRepository(db *gorm.DB) *CommodityRepository {
	return &CommodityRepository{
		DB: db,
	}
}

func (r *CommodityRepository) Create(ctx context.Context, reg *domain.CommodityRegistration) error {
	return r.DB.WithContext(ctx).Create(reg).Error
}

func (r *CommodityRepository) FindByID(ctx context.Context, id uint) (domain.CommodityRegistration, error) {
	var reg domain.CommodityRegistration

	err := r.DB.WithContext(ctx).First(&reg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CommodityRegistration{}, errors.New("registration not found")
		}
		return domain.CommodityRegistration{}, err
	}

	return reg, nil
}

func (r *CommodityRepository) FindAll(ctx context.Context, offset, limit int) ([]domain.CommodityRegistration, error) {
	var regs []domain.CommodityRegistration

	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&regs).Error
	if err != nil {
		return nil, err
	}

	return regs, nil
}

func (r *CommodityRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.DB.WithContext(ctx).Model(&domain.CommodityRegistration{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("registration not found")
	}

	return nil
}
