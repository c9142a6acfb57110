package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tsuwallet/domain"
)

type fakeUserRepo struct {
	users map[uint]domain.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, errors.New("record not found")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, errors.New("record not found")
}

type fakeTxRepo struct {
	transfers []domain.Transaction
	txs       []domain.Transaction
	failNext  error
}

func (r *fakeTxRepo) Transfer(_ context.Context, fromID, toID uint, amount decimal.Decimal, note string) (domain.Transaction, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return domain.Transaction{}, err
	}
	tx := domain.Transaction{
		ID:         uint(len(r.transfers) + 1),
		Type:       domain.TxTypeTransfer,
		FromUserID: &fromID,
		ToUserID:   &toID,
		Amount:     amount,
		Note:       note,
	}
	r.transfers = append(r.transfers, tx)
	return tx, nil
}

func (r *fakeTxRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]domain.Transaction, error) {
	if offset >= len(r.txs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.txs) {
		end = len(r.txs)
	}
	return r.txs[offset:end], nil
}

func (r *fakeTxRepo) CountByUser(_ context.Context, userID uint) (int64, error) {
	return int64(len(r.txs)), nil
}

type recordingCache struct {
	balances map[string]decimal.Decimal
	deleted  []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{balances: make(map[string]decimal.Decimal)}
}

func (c *recordingCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	v, ok := c.balances[key]
	if !ok {
		return false, nil
	}
	if d, ok := dest.(*decimal.Decimal); ok {
		*d = v
		return true, nil
	}
	return false, nil
}

func (c *recordingCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if d, ok := value.(decimal.Decimal); ok {
		c.balances[key] = d
	}
	return nil
}

func (c *recordingCache) Delete(_ context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	for _, k := range keys {
		delete(c.balances, k)
	}
	return nil
}

func twoUsers() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]domain.User{
		1: {ID: 1, Email: "alice@example.com", Balance: decimal.NewFromInt(100)},
		2: {ID: 2, Email: "bob@example.com", Balance: decimal.NewFromInt(5)},
	}}
}

func TestGetBalance_CacheMissThenHit(t *testing.T) {
	cache := newRecordingCache()
	svc := NewWalletService(twoUsers(), &fakeTxRepo{}, cache)

	balance, err := svc.GetBalance(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected balance 100, got %s", balance)
	}

	// second read comes from the cache even if the store changes
	cache.balances[balanceCacheKey(1)] = decimal.NewFromInt(42)
	balance, err = svc.GetBalance(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(42)) {
		t.Errorf("expected cached balance 42, got %s", balance)
	}
}

func TestTransfer_Succeeds(t *testing.T) {
	txRepo := &fakeTxRepo{}
	cache := newRecordingCache()
	svc := NewWalletService(twoUsers(), txRepo, cache)

	tx, err := svc.Transfer(context.Background(), 1, "bob@example.com", decimal.NewFromInt(30), "lunch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Type != domain.TxTypeTransfer {
		t.Errorf("expected transfer type, got %q", tx.Type)
	}
	if *tx.FromUserID != 1 || *tx.ToUserID != 2 {
		t.Errorf("wrong parties: from=%v to=%v", tx.FromUserID, tx.ToUserID)
	}
	if len(cache.deleted) == 0 {
		t.Error("expected cache invalidation for both parties")
	}
}

func TestTransfer_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewWalletService(twoUsers(), &fakeTxRepo{}, newRecordingCache())

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if _, err := svc.Transfer(context.Background(), 1, "bob@example.com", amount, ""); err == nil {
			t.Errorf("expected error for amount %s", amount)
		}
	}
}

func TestTransfer_RejectsSelfTransfer(t *testing.T) {
	svc := NewWalletService(twoUsers(), &fakeTxRepo{}, newRecordingCache())

	_, err := svc.Transfer(context.Background(), 1, "alice@example.com", decimal.NewFromInt(10), "")
	if err == nil {
		t.Fatal("expected error for self transfer")
	}
}

func TestTransfer_RejectsInsufficientFunds(t *testing.T) {
	txRepo := &fakeTxRepo{}
	svc := NewWalletService(twoUsers(), txRepo, newRecordingCache())

	_, err := svc.Transfer(context.Background(), 2, "alice@example.com", decimal.NewFromInt(500), "")
	if err == nil {
		t.Fatal("expected insufficient funds error")
	}
	if len(txRepo.transfers) != 0 {
		t.Error("no transfer row should be written")
	}
}

func TestTransfer_UnknownRecipient(t *testing.T) {
	svc := NewWalletService(twoUsers(), &fakeTxRepo{}, newRecordingCache())

	_, err := svc.Transfer(context.Background(), 1, "nobody@example.com", decimal.NewFromInt(1), "")
	if err == nil {
		t.Fatal("expected error for unknown recipient")
	}
}

func TestGetHistory_Paginates(t *testing.T) {
	txRepo := &fakeTxRepo{}
	for i := 0; i < 45; i++ {
		from := uint(1)
		txRepo.txs = append(txRepo.txs, domain.Transaction{
			ID:         uint(i + 1),
			Type:       domain.TxTypeTransfer,
			FromUserID: &from,
			Amount:     decimal.NewFromInt(1),
		})
	}
	svc := NewWalletService(twoUsers(), txRepo, newRecordingCache())

	page, err := svc.GetHistory(context.Background(), 1, 3, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Total != 45 {
		t.Errorf("expected total 45, got %d", page.Total)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages)
	}
	if len(page.Transactions) != 5 {
		t.Errorf("expected 5 rows on last page, got %d", len(page.Transactions))
	}
}

func TestGetHistory_ClampsPageParams(t *testing.T) {
	svc := NewWalletService(twoUsers(), &fakeTxRepo{}, newRecordingCache())

	page, err := svc.GetHistory(context.Background(), 1, -3, 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", page.Page)
	}
	if page.PageSize != defaultHistoryPageSize {
		t.Errorf("expected default page size, got %d", page.PageSize)
	}
}
