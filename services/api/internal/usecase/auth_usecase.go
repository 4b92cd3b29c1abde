package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"loyalty-hub/pkg/cache"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/jwt"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	passwordResetTTL  = 24 * time.Hour

	revokedTokenPrefix  = "revoked_jti:"
	passwordResetPrefix = "password_reset:"
)

type AuthUseCase interface {
	Register(ctx context.Context, input entity.Registration) (*entity.AuthResult, error)
	Login(ctx context.Context, email, password string) (*entity.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (*entity.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	Permissions(role entity.UserRole) entity.Permissions
}

type authUseCase struct {
	userRepo     persistent.UserRepository
	customerRepo persistent.CustomerRepository
	jwtService   *jwt.Service
	store        KeyValueStore
	logger       *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	customerRepo persistent.CustomerRepository,
	jwtService *jwt.Service,
	store KeyValueStore,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		jwtService:   jwtService,
		store:        store,
		logger:       logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, input entity.Registration) (*entity.AuthResult, error) {
	if input.Role == "" {
		input.Role = entity.RoleCustomer
	}
	if !input.Role.Valid() {
		return nil, errs.Validation("invalid role: %s", input.Role)
	}
	if input.Role == entity.RoleAdmin {
		return nil, errs.Forbidden("admin accounts cannot be self-registered")
	}
	if err := validateContact(input.Name, input.Email, input.Phone); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	exists, err := uc.userRepo.ExistsByEmailOrPhone(ctx, input.Email, input.Phone)
	if err != nil {
		uc.logger.Error("Failed to check existing user: %v", err)
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, errs.Conflict("user with this email or phone already exists")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to process registration: %w", err)
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         input.Role,
		Status:       entity.UserStatusActive,
	}

	result := &entity.AuthResult{User: user}
	if input.Role == entity.RoleCustomer {
		customer := newCustomerRecord(nil, "")
		if err := uc.customerRepo.CreateWithUser(ctx, user, customer); err != nil {
			uc.logger.Error("Failed to create customer: %v", err)
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
		result.Customer = customer
	} else if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := uc.jwtService.GenerateTokenPair(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	result.Tokens = tokens

	uc.logger.Info("Registered %s user %s", user.Role, user.ID)
	return result, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Unauthorized("invalid credentials")
		}
		uc.logger.Error("Failed to load user for login: %v", err)
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errs.Unauthorized("invalid credentials")
	}
	if user.Status != entity.UserStatusActive {
		return nil, errs.Forbidden("account is " + string(user.Status))
	}

	now := time.Now().UTC()
	if err := uc.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		uc.logger.Warn("Failed to update last login for user %s: %v", user.ID, err)
	} else {
		user.LastLogin = &now
	}

	tokens, err := uc.jwtService.GenerateTokenPair(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &entity.AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh rotates the pair. The old refresh jti is revoked with SETNX so a
// token replayed concurrently can only be exchanged once.
func (uc *authUseCase) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := uc.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errs.Unauthorized("invalid refresh token")
	}

	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Status != entity.UserStatusActive {
		return nil, errs.Forbidden("account is " + string(user.Status))
	}

	revoked, err := uc.revoke(ctx, claims)
	if err != nil {
		uc.logger.Error("Failed to revoke refresh token: %v", err)
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if !revoked {
		return nil, errs.Unauthorized("refresh token has been revoked")
	}

	tokens, err := uc.jwtService.GenerateTokenPair(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokens, nil
}

func (uc *authUseCase) Logout(ctx context.Context, refreshToken string) error {
	claims, err := uc.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return errs.Unauthorized("invalid refresh token")
	}
	if _, err := uc.revoke(ctx, claims); err != nil {
		uc.logger.Error("Failed to revoke refresh token: %v", err)
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

func (uc *authUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *authUseCase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errs.Validation("current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	return uc.setPassword(ctx, user.ID, newPassword)
}

// RequestPasswordReset returns the issued token, or "" for unknown emails so
// callers cannot tell the two apart.
func (uc *authUseCase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", nil
		}
		uc.logger.Error("Failed to load user for password reset: %v", err)
		return "", fmt.Errorf("failed to request password reset: %w", err)
	}
	if uc.store == nil {
		return "", errs.Validation("password reset is unavailable")
	}

	token, err := randomHex(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := uc.store.Set(ctx, passwordResetPrefix+token, user.ID, passwordResetTTL); err != nil {
		uc.logger.Error("Failed to store reset token: %v", err)
		return "", fmt.Errorf("failed to request password reset: %w", err)
	}

	uc.logger.Info("Password reset requested for user %s", user.ID)
	return token, nil
}

func (uc *authUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if uc.store == nil || token == "" {
		return errs.Validation("invalid or expired reset token")
	}

	userID, err := uc.store.Take(ctx, passwordResetPrefix+token)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return errs.Validation("invalid or expired reset token")
		}
		uc.logger.Error("Failed to read reset token: %v", err)
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return uc.setPassword(ctx, userID, newPassword)
}

var (
	customerPermissions = []string{
		"profile:read", "profile:write", "points:read", "rewards:read", "rewards:redeem",
	}
	affiliatePermissions = []string{
		"profile:read", "profile:write", "affiliate:dashboard", "affiliate:referrals",
		"affiliate:commissions", "affiliate:payouts",
	}
	adminPermissions = []string{
		"users:read", "users:write", "customers:read", "customers:write",
		"loyalty:read", "loyalty:write", "rewards:read", "rewards:write", "rewards:fulfill",
		"tiers:read", "tiers:write", "affiliates:read", "affiliates:write", "affiliates:payouts",
		"whatsapp:send", "whatsapp:templates", "erp:sync", "analytics:read",
	}
)

func (uc *authUseCase) Permissions(role entity.UserRole) entity.Permissions {
	var perms []string
	switch role {
	case entity.RoleAdmin:
		perms = adminPermissions
	case entity.RoleAffiliate:
		perms = affiliatePermissions
	case entity.RoleCustomer:
		perms = customerPermissions
	}
	return entity.Permissions{Role: role, Permissions: append([]string{}, perms...)}
}

// revoke reports false when the jti was already revoked.
func (uc *authUseCase) revoke(ctx context.Context, claims *jwt.Claims) (bool, error) {
	if uc.store == nil || claims.ID == "" {
		return true, nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return uc.store.SetNX(ctx, revokedTokenPrefix+claims.ID, "1", ttl)
}

func (uc *authUseCase) setPassword(ctx context.Context, userID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := uc.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		uc.logger.Error("Failed to update password for user %s: %v", userID, err)
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errs.Validation("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func validateContact(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Validation("name is required")
	}
	if len(name) > 100 {
		return errs.Validation("name must be at most 100 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > 255 {
		return errs.Validation("invalid email: %s", email)
	}
	phone = strings.TrimSpace(phone)
	if phone == "" || len(phone) > 20 {
		return errs.Validation("phone is required and must be at most 20 characters")
	}
	return nil
}

func newCustomerRecord(dateOfBirth *time.Time, erpID string) *entity.Customer {
	return &entity.Customer{
		ERPID:       erpID,
		Tier:        entity.TierBronze,
		Status:      entity.CustomerStatusActive,
		DateOfBirth: dateOfBirth,
		JoinedDate:  time.Now().UTC(),
	}
}
