package postgres

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tsuwallet/domain"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type TransactionRepository struct {
	DB *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{
		DB: db,
	}
}

// Transfer moves TSU between two users and writes the ledger row in one
// database transaction. The debit carries a balance guard so a concurrent
// spend cannot push the sender negative.
func (r *TransactionRepository) Transfer(ctx context.Context, fromID, toID uint, amount decimal.Decimal, note string) (domain.Transaction, error) {
	tx := domain.Transaction{
		Type:       domain.TxTypeTransfer,
		FromUserID: &fromID,
		ToUserID:   &toID,
		Amount:     amount,
		Currency:   "TSU",
		Note:       note,
	}

	err := r.DB.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		debit := dbtx.Model(&domain.User{}).
			Where("id = ? AND balance >= ?", fromID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		credit := dbtx.Model(&domain.User{}).
			Where("id = ?", toID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			return errors.New("recipient not found")
		}

		return dbtx.Create(&tx).Error
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return tx, nil
}

// AdjustBalance applies an admin credit or debit and records it as an
// adjustment ledger row.
func (r *TransactionRepository) AdjustBalance(ctx context.Context, userID uint, delta decimal.Decimal, note string) (domain.Transaction, error) {
	tx := domain.Transaction{
		Type:     domain.TxTypeAdjustment,
		ToUserID: &userID,
		Amount:   delta,
		Currency: "TSU",
		Note:     note,
	}

	err := r.DB.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		result := dbtx.Model(&domain.User{}).
			Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("user not found")
		}

		return dbtx.Create(&tx).Error
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return tx, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.Transaction, error) {
	var txs []domain.Transaction

	err := r.DB.WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *TransactionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var total int64

	err := r.DB.WithContext(ctx).Model(&domain.Transaction{}).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *TransactionRepository) ListAll(ctx context.Context, offset, limit int) ([]domain.Transaction, error) {
	var txs []domain.Transaction

	err := r.DB.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}
