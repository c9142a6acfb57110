package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pobyzaarif/goshortcute"

	"tsuwallet/domain"
	redisrepo "tsuwallet/internal/repository/redis"
	"tsuwallet/pkg/logger"
	"tsuwallet/pkg/metrics"
	"tsuwallet/pkg/utils"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
	UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

// TokenRepository contract interface
type TokenRepository interface {
	StoreToken(ctx context.Context, userID, token string, data redisrepo.TokenData, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, userID, token string) error
}

// SecurityRepository contract interface
type SecurityRepository interface {
	RecordLoginAttempt(ctx context.Context, attempt *domain.LoginAttempt) error
}

type userService struct {
	userRepo                UserRepository
	validate                *validator.Validate
	notifRepo               NotificationRepository
	tokenRepo               TokenRepository
	securityRepo            SecurityRepository
	appEmailVerificationKey string
	appDeploymentUrl        string
}

const (
	verificationCodeTTL      = 5
	SubjectRegisterAccount   = "Activate Your TSU Wallet"
	EmailBodyRegisterAccount = `Hello %v, activate your account by opening the link below</br></br>%v</br>note: the link is only valid for %v minutes`
)

func NewUserService(
	userRepo UserRepository,
	validate *validator.Validate,
	notifRepo NotificationRepository,
	tokenRepo TokenRepository,
	securityRepo SecurityRepository,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *userService {
	return &userService{
		userRepo:                userRepo,
		validate:                validate,
		notifRepo:               notifRepo,
		tokenRepo:               tokenRepo,
		securityRepo:            securityRepo,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
	}
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var validRoles = map[string]bool{
	RoleCustomer: true,
	RoleAdmin:    true,
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		FullName:   user.FullName,
		Email:      user.Email,
		Password:   passwordHash,
		IsVerified: false,
		Role:       RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user")
		return domain.User{}, err
	}

	expAt := time.Now().Add(time.Minute * verificationCodeTTL).Unix()

	verificationCode := fmt.Sprintf("%v|%v", newUser.Email, expAt)
	verificationCodeEncrypt, err := goshortcute.AESCBCEncrypt([]byte(verificationCode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Failed to encrypt verification code", err)
		return domain.User{}, errors.New("failed to build verification link")
	}
	strEncode := goshortcute.StringtoBase64Encode(verificationCodeEncrypt)
	activationLink := s.appDeploymentUrl + "/api/auth/email-verification/" + strEncode

	err = s.notifRepo.SendEmail(newUser.FullName, newUser.Email, SubjectRegisterAccount, fmt.Sprintf(EmailBodyRegisterAccount, newUser.FullName, activationLink, verificationCodeTTL))
	if err != nil {
		logger.Warn("Failed to send verification email", err)
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error) {
	attempt := domain.LoginAttempt{
		Email:     email,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.recordAttempt(ctx, &attempt, false)
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, errors.New("invalid credentials")
	}

	if ok := utils.CheckPassword(password, user.Password); !ok {
		s.recordAttempt(ctx, &attempt, false)
		logger.Error("User password incorrect", "email", email)
		return "", domain.User{}, errors.New("invalid credentials")
	}

	if !user.IsVerified {
		s.recordAttempt(ctx, &attempt, false)
		logger.Error("Email address has not been verified", "email", email)
		return "", domain.User{}, errors.New("email address has not been verified")
	}

	userIdStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIdStr, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	now := time.Now()
	ttl := utils.TokenTTL()
	err = s.tokenRepo.StoreToken(ctx, userIdStr, token, redisrepo.TokenData{
		UserID:    userIdStr,
		Role:      user.Role,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}, ttl)
	if err != nil {
		logger.Error("Failed to store token", err)
		return "", domain.User{}, errors.New("failed to create session")
	}

	s.recordAttempt(ctx, &attempt, true)

	user.Password = ""
	return token, user, nil
}

func (s *userService) recordAttempt(ctx context.Context, attempt *domain.LoginAttempt, success bool) {
	attempt.Success = success
	result := "failure"
	if success {
		result = "success"
	}
	metrics.LoginAttempts.WithLabelValues(result).Inc()

	if err := s.securityRepo.RecordLoginAttempt(ctx, attempt); err != nil {
		logger.Warn("Failed to record login attempt", err)
	}
}

// ValidateTokenFromRedis is consumed by the auth middleware.
func (s *userService) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	return s.tokenRepo.ValidateToken(ctx, token)
}

func (s *userService) Logout(ctx context.Context, userID uint, token string) error {
	userIdStr := strconv.FormatUint(uint64(userID), 10)

	if err := s.tokenRepo.DeleteToken(ctx, userIdStr, token); err != nil {
		logger.Error("Failed to delete session token", err)
		return err
	}

	return nil
}

// RefreshToken rotates a still-valid session: the old token is revoked and a
// fresh one issued under the same identity.
func (s *userService) RefreshToken(ctx context.Context, oldToken, ipAddress, userAgent string) (string, domain.User, error) {
	userIdStr, err := s.tokenRepo.ValidateToken(ctx, oldToken)
	if err != nil {
		logger.Error("Refresh with unknown token", err)
		return "", domain.User{}, errors.New("invalid or expired token")
	}

	userID, err := strconv.ParseUint(userIdStr, 10, 64)
	if err != nil {
		return "", domain.User{}, errors.New("invalid token subject")
	}

	user, err := s.userRepo.FindByID(ctx, uint(userID))
	if err != nil {
		logger.Error("Refresh for missing user", err)
		return "", domain.User{}, err
	}

	newToken, err := utils.GenerateJWT(userIdStr, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	if err := s.tokenRepo.DeleteToken(ctx, userIdStr, oldToken); err != nil {
		logger.Warn("Failed to revoke old token", err)
	}

	now := time.Now()
	ttl := utils.TokenTTL()
	err = s.tokenRepo.StoreToken(ctx, userIdStr, newToken, redisrepo.TokenData{
		UserID:    userIdStr,
		Role:      user.Role,
		Token:     newToken,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}, ttl)
	if err != nil {
		logger.Error("Failed to store refreshed token", err)
		return "", domain.User{}, errors.New("failed to create session")
	}

	user.Password = ""
	return newToken, user, nil
}

func (s *userService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("invalid or expired url")
	}

	verificationCode := strings.Split(verificationCodeDecrypt, "|")
	if len(verificationCode) != 2 {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}

	email := verificationCode[0]
	expAtStr := verificationCode[1]

	ts, err := strconv.ParseInt(expAtStr, 10, 64)
	if err != nil {
		logger.Error("Verifying email error", verificationCodeDecrypt)
		return errors.New("invalid or expired url")
	}
	expAt := time.Unix(ts, 0)
	if time.Now().After(expAt) {
		return errors.New("invalid or expired url")
	}

	getUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Verifying email error", err)
		return errors.New("failed to get user by email")
	}

	if getUser.IsVerified {
		logger.Warn("verify email err", "email verified already")
		return errors.New("invalid or expired url")
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, getUser.ID, true); err != nil {
		logger.Error("Verify email err", err)
		return err
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// UpdateUser updates user information
func (s *userService) UpdateUser(ctx context.Context, id uint, updateData *domain.User) (domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if updateData.FullName != "" {
		existingUser.FullName = updateData.FullName
	}

	if updateData.Password != "" {
		if err := s.validate.Var(updateData.Password, "required,min=6"); err != nil {
			logger.Error("Invalid password", err)
			return domain.User{}, errors.New("password must be at least 6 characters")
		}

		passwordHash, err := utils.HashPassword(updateData.Password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return domain.User{}, errors.New("failed to hash password")
		}
		existingUser.Password = passwordHash
	}

	if updateData.Role != "" {
		if !validRoles[updateData.Role] {
			return domain.User{}, errors.New("invalid role")
		}
		existingUser.Role = updateData.Role
	}

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	existingUser.Password = ""
	return existingUser, nil
}

// DeleteUser soft deletes a user
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	_, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for deletion", err)
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return err
	}

	return nil
}
