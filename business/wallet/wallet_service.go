package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
	"tsuwallet/pkg/metrics"
)

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TransactionRepository contract interface
type TransactionRepository interface {
	Transfer(ctx context.Context, fromID, toID uint, amount decimal.Decimal, note string) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.Transaction, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// CacheRepository contract interface
type CacheRepository interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type HistoryPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	Total        int64                `json:"total"`
	TotalPages   int                  `json:"total_pages"`
}

type walletService struct {
	userRepo UserRepository
	txRepo   TransactionRepository
	cache    CacheRepository
}

const (
	balanceCacheTTL = 60 * time.Second
	historyCacheTTL = 60 * time.Second

	// paginated history keys are invalidated for the first few pages only;
	// deeper pages just age out on TTL
	historyInvalidatePages = 5
	defaultHistoryPageSize = 20
)

func NewWalletService(userRepo UserRepository, txRepo TransactionRepository, cache CacheRepository) *walletService {
	return &walletService{
		userRepo: userRepo,
		txRepo:   txRepo,
		cache:    cache,
	}
}

func balanceCacheKey(userID uint) string {
	return fmt.Sprintf("balance:user:%d", userID)
}

func historyCacheKey(userID uint, page, pageSize int) string {
	return fmt.Sprintf("txhistory:user:%d:page:%d:size:%d", userID, page, pageSize)
}

// GetBalance serves from the redis cache when possible.
func (s *walletService) GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var cached decimal.Decimal
	found, err := s.cache.GetJSON(ctx, balanceCacheKey(userID), &cached)
	if err == nil && found {
		return cached, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load user for balance", err)
		return decimal.Zero, err
	}

	if err := s.cache.SetJSON(ctx, balanceCacheKey(userID), user.Balance, balanceCacheTTL); err != nil {
		logger.Warn("Failed to cache balance", err)
	}

	return user.Balance, nil
}

// Transfer moves TSU to the user owning toEmail. The cache entries of both
// parties are invalidated, not merged.
func (s *walletService) Transfer(ctx context.Context, fromID uint, toEmail string, amount decimal.Decimal, note string) (domain.Transaction, error) {
	start := time.Now()

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, errors.New("amount must be positive")
	}

	recipient, err := s.userRepo.FindByEmail(ctx, toEmail)
	if err != nil {
		logger.Error("Transfer recipient not found", "email", toEmail)
		return domain.Transaction{}, errors.New("recipient not found")
	}

	if recipient.ID == fromID {
		return domain.Transaction{}, errors.New("cannot transfer to yourself")
	}

	sender, err := s.userRepo.FindByID(ctx, fromID)
	if err != nil {
		logger.Error("Transfer sender not found", err)
		return domain.Transaction{}, err
	}

	if sender.Balance.LessThan(amount) {
		return domain.Transaction{}, errors.New("insufficient funds")
	}

	tx, err := s.txRepo.Transfer(ctx, fromID, recipient.ID, amount, note)
	if err != nil {
		logger.Error("Transfer failed", "from", fromID, "to", recipient.ID, err)
		return domain.Transaction{}, err
	}

	s.invalidateUserCaches(ctx, fromID, recipient.ID)

	metrics.TransferTotal.Inc()
	metrics.TransferDuration.Observe(time.Since(start).Seconds())

	logger.Info("Transfer completed",
		"from_user_id", fromID,
		"to_user_id", recipient.ID,
		"amount", amount.String(),
	)

	return tx, nil
}

func (s *walletService) invalidateUserCaches(ctx context.Context, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs)*(historyInvalidatePages+1))
	for _, id := range userIDs {
		keys = append(keys, balanceCacheKey(id))
		for page := 1; page <= historyInvalidatePages; page++ {
			keys = append(keys, historyCacheKey(id, page, defaultHistoryPageSize))
		}
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("Failed to invalidate wallet caches", err)
	}
}

// InvalidateCaches is exposed for flows that credit balances outside this
// service, such as purchases and admin adjustments.
func (s *walletService) InvalidateCaches(ctx context.Context, userIDs ...uint) {
	s.invalidateUserCaches(ctx, userIDs...)
}

func (s *walletService) GetHistory(ctx context.Context, userID uint, page, pageSize int) (HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultHistoryPageSize
	}

	key := historyCacheKey(userID, page, pageSize)
	var cached HistoryPage
	found, err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil && found {
		return cached, nil
	}

	total, err := s.txRepo.CountByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to count transactions", err)
		return HistoryPage{}, err
	}

	txs, err := s.txRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		logger.Error("Failed to fetch transactions", err)
		return HistoryPage{}, err
	}

	result := HistoryPage{
		Transactions: txs,
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
		TotalPages:   (int(total) + pageSize - 1) / pageSize,
	}

	if err := s.cache.SetJSON(ctx, key, result, historyCacheTTL); err != nil {
		logger.Warn("Failed to cache transaction history", err)
	}

	return result, nil
}
