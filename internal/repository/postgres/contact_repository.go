package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tsuwallet/domain"
)

type ContactRepository struct {
	DB *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{
		DB: db,
	}
}

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

func (r *ContactRepository) FindAll(ctx context.Context, offset, limit int) ([]domain.ContactMessage, error) {
	var msgs []domain.ContactMessage

	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	return msgs, nil
}

func (r *ContactRepository) MarkRead(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Model(&domain.ContactMessage{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("message not found")
	}

	return nil
}
