package admin

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error
}

// TransactionRepository contract interface
type TransactionRepository interface {
	AdjustBalance(ctx context.Context, userID uint, delta decimal.Decimal, note string) (domain.Transaction, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Transaction, error)
}

// PaymentRepository contract interface
type PaymentRepository interface {
	ListAll(ctx context.Context, offset, limit int) ([]domain.PaymentTransaction, error)
}

// SecurityRepository contract interface
type SecurityRepository interface {
	RecordSecurityLog(ctx context.Context, entry *domain.SecurityLog) error
	ListLoginAttempts(ctx context.Context, offset, limit int) ([]domain.LoginAttempt, error)
	ListSecurityLogs(ctx context.Context, offset, limit int) ([]domain.SecurityLog, error)
}

// SupplyRepository contract interface
type SupplyRepository interface {
	Get(ctx context.Context) (domain.CoinSupply, error)
	Update(ctx context.Context, totalSupply, reserveUSD decimal.Decimal) (domain.CoinSupply, error)
}

// BalanceInvalidator drops wallet caches after admin balance changes.
type BalanceInvalidator interface {
	InvalidateCaches(ctx context.Context, userIDs ...uint)
}

type UserUpdateInput struct {
	Role       string
	IsVerified *bool
}

type AdminService struct {
	userRepo     UserRepository
	txRepo       TransactionRepository
	paymentRepo  PaymentRepository
	securityRepo SecurityRepository
	supplyRepo   SupplyRepository
	balances     BalanceInvalidator
}

func NewAdminService(
	userRepo UserRepository,
	txRepo TransactionRepository,
	paymentRepo PaymentRepository,
	securityRepo SecurityRepository,
	supplyRepo SupplyRepository,
	balances BalanceInvalidator,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		txRepo:       txRepo,
		paymentRepo:  paymentRepo,
		securityRepo: securityRepo,
		supplyRepo:   supplyRepo,
		balances:     balances,
	}
}

var validRoles = map[string]bool{
	"customer": true,
	"admin":    true,
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

func (s *AdminService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// UpdateUser applies role and verification changes, each audited.
func (s *AdminService) UpdateUser(ctx context.Context, actorID, targetID uint, input UserUpdateInput, ipAddress string) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return domain.User{}, err
	}

	if input.Role != "" && input.Role != user.Role {
		if !validRoles[input.Role] {
			return domain.User{}, errors.New("invalid role")
		}

		oldRole := user.Role
		user.Role = input.Role
		if err := s.userRepo.Update(ctx, &user); err != nil {
			logger.Error("Failed to update user role", err)
			return domain.User{}, err
		}

		s.audit(ctx, actorID, domain.SecurityActionRoleChange, ipAddress, map[string]any{
			"target_user_id": targetID,
			"old_role":       oldRole,
			"new_role":       input.Role,
		})
	}

	if input.IsVerified != nil && *input.IsVerified != user.IsVerified {
		if err := s.userRepo.UpdateEmailVerification(ctx, targetID, *input.IsVerified); err != nil {
			logger.Error("Failed to update verification flag", err)
			return domain.User{}, err
		}
		user.IsVerified = *input.IsVerified

		s.audit(ctx, actorID, domain.SecurityActionUserUpdate, ipAddress, map[string]any{
			"target_user_id": targetID,
			"is_verified":    *input.IsVerified,
		})
	}

	user.Password = ""
	return user, nil
}

// AdjustBalance credits or debits a user with an adjustment ledger row.
func (s *AdminService) AdjustBalance(ctx context.Context, actorID, targetID uint, delta decimal.Decimal, note, ipAddress string) (domain.Transaction, error) {
	if delta.IsZero() {
		return domain.Transaction{}, errors.New("adjustment cannot be zero")
	}

	tx, err := s.txRepo.AdjustBalance(ctx, targetID, delta, note)
	if err != nil {
		logger.Error("Failed to adjust balance", "target_user_id", targetID, err)
		return domain.Transaction{}, err
	}

	s.balances.InvalidateCaches(ctx, targetID)

	s.audit(ctx, actorID, domain.SecurityActionBalanceAdjust, ipAddress, map[string]any{
		"target_user_id": targetID,
		"delta":          delta.String(),
		"note":           note,
	})

	logger.Info("Balance adjusted", "actor_id", actorID, "target_user_id", targetID, "delta", delta.String())
	return tx, nil
}

func (s *AdminService) UpdateSupply(ctx context.Context, actorID uint, totalSupply, reserveUSD decimal.Decimal, ipAddress string) (domain.CoinSupply, error) {
	if totalSupply.LessThan(decimal.Zero) || reserveUSD.LessThan(decimal.Zero) {
		return domain.CoinSupply{}, errors.New("supply values cannot be negative")
	}

	supply, err := s.supplyRepo.Update(ctx, totalSupply, reserveUSD)
	if err != nil {
		logger.Error("Failed to update coin supply", err)
		return domain.CoinSupply{}, err
	}

	s.audit(ctx, actorID, domain.SecurityActionSupplyUpdate, ipAddress, map[string]any{
		"total_supply": totalSupply.String(),
		"reserve_usd":  reserveUSD.String(),
	})

	return supply, nil
}

func (s *AdminService) ListTransactions(ctx context.Context, page, pageSize int) ([]domain.Transaction, error) {
	offset, limit := paginate(page, pageSize)
	return s.txRepo.ListAll(ctx, offset, limit)
}

func (s *AdminService) ListPayments(ctx context.Context, page, pageSize int) ([]domain.PaymentTransaction, error) {
	offset, limit := paginate(page, pageSize)
	return s.paymentRepo.ListAll(ctx, offset, limit)
}

func (s *AdminService) ListLoginAttempts(ctx context.Context, page, pageSize int) ([]domain.LoginAttempt, error) {
	offset, limit := paginate(page, pageSize)
	return s.securityRepo.ListLoginAttempts(ctx, offset, limit)
}

func (s *AdminService) ListSecurityLogs(ctx context.Context, page, pageSize int) ([]domain.SecurityLog, error) {
	offset, limit := paginate(page, pageSize)
	return s.securityRepo.ListSecurityLogs(ctx, offset, limit)
}

func (s *AdminService) audit(ctx context.Context, actorID uint, action, ipAddress string, detail map[string]any) {
	payload, _ := json.Marshal(detail)
	entry := domain.SecurityLog{
		UserID:    actorID,
		Action:    action,
		Detail:    payload,
		IPAddress: ipAddress,
	}
	if err := s.securityRepo.RecordSecurityLog(ctx, &entry); err != nil {
		logger.Warn("Failed to write audit entry", "action", action, err)
	}
}

func paginate(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return (page - 1) * pageSize, pageSize
}
