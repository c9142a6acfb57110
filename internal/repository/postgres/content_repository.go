package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tsuwallet/domain"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{
		DB: db,
	}
}

func (r *ContentRepository) FindAll(ctx context.Context) ([]domain.Content, error) {
	var entries []domain.Content

	if err := r.DB.WithContext(ctx).Order("section, key").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *ContentRepository) FindByKey(ctx context.Context, key string) (domain.Content, error) {
	var entry domain.Content

	err := r.DB.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Content{}, errors.New("content key not found")
		}
		return domain.Content{}, err
	}

	return entry, nil
}

// Upsert writes a batch of key-value pairs, inserting new keys and replacing
// values for existing ones.
func (r *ContentRepository) Upsert(ctx context.Context, entries []domain.Content) error {
	if len(entries) == 0 {
		return nil
	}

	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "section", "updated_by", "updated_at"}),
	}).Create(&entries).Error
}
