package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tsuwallet/domain"
)

// ErrDuplicateReference surfaces the processed_payments unique constraint.
// That constraint is the only dedup the purchase flow has.
var ErrDuplicateReference = errors.New("payment reference already processed")

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{
		DB: db,
	}
}

// CreditPurchase records an external payment and credits the buyer in one
// database transaction: processed_payments insert (unique reference),
// payment_transactions row, ledger row, balance increment and circulating
// supply increment. A duplicate reference fails the whole transaction.
func (r *PaymentRepository) CreditPurchase(ctx context.Context, payment *domain.PaymentTransaction) error {
	return r.DB.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		processed := domain.ProcessedPayment{
			Reference: payment.Reference,
			Method:    payment.Method,
			UserID:    payment.UserID,
		}
		if err := dbtx.Create(&processed).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReference
			}
			return err
		}

		if err := dbtx.Create(payment).Error; err != nil {
			return err
		}

		ledger := domain.Transaction{
			Type:     domain.TxTypePurchase,
			ToUserID: &payment.UserID,
			Amount:   payment.AmountTSU,
			Currency: "TSU",
			Note:     payment.Method + ":" + payment.Reference,
		}
		if err := dbtx.Create(&ledger).Error; err != nil {
			return err
		}

		credit := dbtx.Model(&domain.User{}).
			Where("id = ?", payment.UserID).
			Update("balance", gorm.Expr("balance + ?", payment.AmountTSU))
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			return errors.New("user not found")
		}

		return dbtx.Model(&domain.CoinSupply{}).
			Where("id = ?", 1).
			Updates(map[string]any{
				"circulating": gorm.Expr("circulating + ?", payment.AmountTSU),
				"reserve_usd": gorm.Expr("reserve_usd + ?", payment.AmountUSD),
			}).Error
	})
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (domain.PaymentTransaction, error) {
	var payment domain.PaymentTransaction

	err := r.DB.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PaymentTransaction{}, errors.New("payment not found")
		}
		return domain.PaymentTransaction{}, err
	}

	return payment, nil
}

func (r *PaymentRepository) UpdateStatusByReference(ctx context.Context, reference, status string) error {
	result := r.DB.WithContext(ctx).Model(&domain.PaymentTransaction{}).
		Where("reference = ?", reference).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("payment not found")
	}

	return nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.PaymentTransaction, error) {
	var payments []domain.PaymentTransaction

	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *PaymentRepository) ListAll(ctx context.Context, offset, limit int) ([]domain.PaymentTransaction, error) {
	var payments []domain.PaymentTransaction

	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}
