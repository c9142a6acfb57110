package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tsuwallet/domain"
)

type fakeUserRepo struct {
	users     map[uint]domain.User
	updateErr error
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) UpdateEmailVerification(_ context.Context, id uint, isVerified bool) error {
	u := r.users[id]
	u.IsVerified = isVerified
	r.users[id] = u
	return nil
}

type fakeTxRepo struct{}

func (fakeTxRepo) AdjustBalance(_ context.Context, userID uint, delta decimal.Decimal, note string) (domain.Transaction, error) {
	return domain.Transaction{Type: domain.TxTypeAdjustment, ToUserID: &userID, Amount: delta, Note: note}, nil
}

func (fakeTxRepo) ListAll(_ context.Context, _, _ int) ([]domain.Transaction, error) {
	return nil, nil
}

type fakePaymentRepo struct{}

func (fakePaymentRepo) ListAll(_ context.Context, _, _ int) ([]domain.PaymentTransaction, error) {
	return nil, nil
}

type fakeSecurityRepo struct {
	logs []domain.SecurityLog
}

func (r *fakeSecurityRepo) RecordSecurityLog(_ context.Context, entry *domain.SecurityLog) error {
	r.logs = append(r.logs, *entry)
	return nil
}

func (r *fakeSecurityRepo) ListLoginAttempts(_ context.Context, _, _ int) ([]domain.LoginAttempt, error) {
	return nil, nil
}

func (r *fakeSecurityRepo) ListSecurityLogs(_ context.Context, _, _ int) ([]domain.SecurityLog, error) {
	return r.logs, nil
}

type fakeSupplyRepo struct{}

func (fakeSupplyRepo) Get(_ context.Context) (domain.CoinSupply, error) {
	return domain.CoinSupply{}, nil
}

func (fakeSupplyRepo) Update(_ context.Context, totalSupply, reserveUSD decimal.Decimal) (domain.CoinSupply, error) {
	return domain.CoinSupply{TotalSupply: totalSupply, ReserveUSD: reserveUSD}, nil
}

type fakeInvalidator struct {
	invalidated []uint
}

func (f *fakeInvalidator) InvalidateCaches(_ context.Context, userIDs ...uint) {
	f.invalidated = append(f.invalidated, userIDs...)
}

func newTestService(users *fakeUserRepo, security *fakeSecurityRepo) *AdminService {
	return NewAdminService(users, fakeTxRepo{}, fakePaymentRepo{}, security, fakeSupplyRepo{}, &fakeInvalidator{})
}

func TestUpdateUser_RoleChangeAudited(t *testing.T) {
	users := &fakeUserRepo{users: map[uint]domain.User{
		3: {ID: 3, Email: "carol@example.com", Role: "customer"},
	}}
	security := &fakeSecurityRepo{}
	svc := newTestService(users, security)

	updated, err := svc.UpdateUser(context.Background(), 1, 3, UserUpdateInput{Role: "admin"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Role != "admin" {
		t.Errorf("expected role admin, got %q", updated.Role)
	}

	if len(security.logs) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(security.logs))
	}
	if security.logs[0].Action != domain.SecurityActionRoleChange {
		t.Errorf("expected role_change audit, got %q", security.logs[0].Action)
	}
}

func TestUpdateUser_FailedRoleUpdateNotAudited(t *testing.T) {
	users := &fakeUserRepo{
		users:     map[uint]domain.User{3: {ID: 3, Role: "customer"}},
		updateErr: errors.New("connection reset"),
	}
	security := &fakeSecurityRepo{}
	svc := newTestService(users, security)

	if _, err := svc.UpdateUser(context.Background(), 1, 3, UserUpdateInput{Role: "admin"}, "10.0.0.1"); err == nil {
		t.Fatal("expected error when role update fails")
	}

	if len(security.logs) != 0 {
		t.Errorf("failed update must not leave an audit entry, got %d", len(security.logs))
	}
}

func TestUpdateUser_RejectsInvalidRole(t *testing.T) {
	users := &fakeUserRepo{users: map[uint]domain.User{3: {ID: 3, Role: "customer"}}}
	security := &fakeSecurityRepo{}
	svc := newTestService(users, security)

	if _, err := svc.UpdateUser(context.Background(), 1, 3, UserUpdateInput{Role: "superuser"}, "10.0.0.1"); err == nil {
		t.Fatal("expected error for invalid role")
	}
	if len(security.logs) != 0 {
		t.Errorf("rejected update must not be audited, got %d entries", len(security.logs))
	}
}
