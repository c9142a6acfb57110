package postgres

import (
	"context"

	"gorm.io/gorm"

	"tsuwallet/domain"
)

type SecurityRepository struct {
	DB *gorm.DB
}

func NewSecurityRepository(db *gorm.DB) *SecurityRepository {
	return &SecurityRepository{
		DB: db,
	}
}

func (r *SecurityRepository) RecordLoginAttempt(ctx context.Context, attempt *domain.LoginAttempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

func (r *SecurityRepository) RecordSecurityLog(ctx context.Context, entry *domain.SecurityLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

func (r *SecurityRepository) ListLoginAttempts(ctx context.Context, offset, limit int) ([]domain.LoginAttempt, error) {
	var attempts []domain.LoginAttempt

	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	return attempts, nil
}

func (r *SecurityRepository) ListSecurityLogs(ctx context.Context, offset, limit int) ([]domain.SecurityLog, error) {
	var logs []domain.SecurityLog

	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}
