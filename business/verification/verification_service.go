package verification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tsuwallet/domain"
	"tsuwallet/pkg/logger"
)

// UserRepository contract interface
type UserRepository interface {
	UpdateWalletAddress(ctx context.Context, id uint, currency, address string) error
}

// ChallengeStore contract interface
type ChallengeStore interface {
	StoreChallenge(ctx context.Context, address, nonce string, ttl time.Duration) error
	ConsumeChallenge(ctx context.Context, address string) (string, error)
}

// SecurityRepository contract interface
type SecurityRepository interface {
	RecordSecurityLog(ctx context.Context, entry *domain.SecurityLog) error
}

const challengeTTL = 10 * time.Minute

// VerificationService runs the wallet address challenge/signature exchange.
// The signature is recorded alongside the address; there is no on-chain or
// cryptographic check tying it to the payment flow.
type VerificationService struct {
	userRepo     UserRepository
	challenges   ChallengeStore
	securityRepo SecurityRepository
}

func NewVerificationService(userRepo UserRepository, challenges ChallengeStore, securityRepo SecurityRepository) *VerificationService {
	return &VerificationService{
		userRepo:     userRepo,
		challenges:   challenges,
		securityRepo: securityRepo,
	}
}

var supportedCurrencies = map[string]string{
	"ethereum": domain.CoinEthereum,
	"eth":      domain.CoinEthereum,
	"bitcoin":  domain.CoinBitcoin,
	"btc":      domain.CoinBitcoin,
}

// IssueChallenge hands out a one-time nonce the wallet owner signs.
func (s *VerificationService) IssueChallenge(ctx context.Context, address, currency string) (string, error) {
	if address == "" {
		return "", errors.New("address is required")
	}

	if _, ok := supportedCurrencies[strings.ToLower(currency)]; !ok {
		return "", errors.New("unsupported currency")
	}

	nonce := uuid.NewString()
	if err := s.challenges.StoreChallenge(ctx, address, nonce, challengeTTL); err != nil {
		logger.Error("Failed to store wallet challenge", err)
		return "", err
	}

	return nonce, nil
}

// VerifyAddress consumes the pending challenge and stores the address on the
// user record.
func (s *VerificationService) VerifyAddress(ctx context.Context, userID uint, address, currency, signature, ipAddress string) error {
	coin, ok := supportedCurrencies[strings.ToLower(currency)]
	if !ok {
		return errors.New("unsupported currency")
	}

	if signature == "" {
		return errors.New("signature is required")
	}

	nonce, err := s.challenges.ConsumeChallenge(ctx, address)
	if err != nil {
		logger.Error("Wallet challenge missing", "address", address, err)
		return errors.New("challenge not found or expired")
	}

	if err := s.userRepo.UpdateWalletAddress(ctx, userID, coin, address); err != nil {
		logger.Error("Failed to store wallet address", err)
		return err
	}

	detail, _ := json.Marshal(map[string]string{
		"address":   address,
		"currency":  coin,
		"nonce":     nonce,
		"signature": signature,
	})
	logEntry := domain.SecurityLog{
		UserID:    userID,
		Action:    domain.SecurityActionWalletVerify,
		Detail:    detail,
		IPAddress: ipAddress,
	}
	if err := s.securityRepo.RecordSecurityLog(ctx, &logEntry); err != nil {
		logger.Warn("Failed to write wallet verification audit entry", err)
	}

	logger.Info("Wallet address verified", "user_id", userID, "currency", coin)
	return nil
}
