package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zenmart/auth-service/internal/constants"
	"github.com/zenmart/auth-service/internal/dto"
	apperrors "github.com/zenmart/auth-service/internal/errors"
	"github.com/zenmart/auth-service/internal/model"
	"github.com/zenmart/auth-service/internal/notifier"
	"github.com/zenmart/auth-service/internal/repository"
	ctxutil "github.com/zenmart/auth-service/pkg/context"
	"github.com/zenmart/auth-service/pkg/logger"
	"gorm.io/gorm"
)

// Result is the uniform envelope every auth flow returns. Business outcomes
// (bad password, unknown token) are carried here, never as Go errors; only
// infrastructure failures propagate as errors.
type Result struct {
	Success bool
	Status  int
	Message string
	Data    any
}

func ok(status int, message string, data any) *Result {
	return &Result{Success: true, Status: status, Message: message, Data: data}
}

func fail(status int, message string) *Result {
	return &Result{Success: false, Status: status, Message: message}
}

// AuthService orchestrates the register/login/refresh/reset/logout flows.
// It owns the lifecycle transitions of users and sessions; all mutable
// state lives behind the repositories.
type AuthService struct {
	userRepo  *repository.UserRepository
	tokenRepo *repository.RefreshTokenRepository
	hasher    *PasswordHasher
	tokens    *TokenService
	resets    *ResetTokenManager
	notify    notifier.Notifier
	baseURL   string
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokenRepo *repository.RefreshTokenRepository,
	hasher *PasswordHasher,
	tokens *TokenService,
	resets *ResetTokenManager,
	notify notifier.Notifier,
	baseURL string,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    hasher,
		tokens:    tokens,
		resets:    resets,
		notify:    notify,
		baseURL:   baseURL,
	}
}

// issueSession mints an access/refresh pair and persists the refresh token.
func (s *AuthService) issueSession(ctx context.Context, userID uint, role string) (*dto.AuthTokens, error) {
	accessToken, err := s.tokens.IssueAccessToken(userID, role)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	expiresAt := time.Now().Add(s.tokens.RefreshTTL())
	if err := s.tokenRepo.Create(ctx, refreshToken, userID, expiresAt); err != nil {
		return nil, err
	}

	return &dto.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates a user and opens a first session.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*Result, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	logger.InfoWithContext(ctx, "Registration attempt").
		String("email", email).
		Log()

	exists, err := s.userRepo.ExistsByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		logger.WarnWithContext(ctx, "Registration rejected, email or phone in use").
			String("email", email).
			Log()
		return fail(http.StatusBadRequest, "User already exists with this email or phone"), nil
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Role:     constants.RoleCustomer,
	}
	if phone != "" {
		user.Phone = &phone
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The uniqueness check above races with concurrent registration;
		// the unique constraint is the final arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail(http.StatusBadRequest, "User already exists with this email or phone"), nil
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	tokens, err := s.issueSession(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User registered").
		String("email", email).
		Int("user_id", int(user.ID)).
		Log()

	return ok(http.StatusCreated, "User registered successfully", dto.AuthData{
		User: dto.AuthUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
		Tokens: *tokens,
	}), nil
}

// Login authenticates credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Result, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	email = strings.ToLower(strings.TrimSpace(email))

	logger.InfoWithContext(ctx, "Login attempt").
		String("email", email).
		Log()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, "User not found"), nil
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.hasher.Verify(password, user.Password) {
		logger.WarnWithContext(ctx, "Login rejected, bad password").
			String("email", email).
			Int("user_id", int(user.ID)).
			Log()
		return fail(http.StatusUnauthorized, "Invalid credentials"), nil
	}

	tokens, err := s.issueSession(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Non-fatal bookkeeping
		logger.WarnWithContext(ctx, "Failed to update last login").
			Int("user_id", int(user.ID)).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "Login successful").
		String("email", email).
		Int("user_id", int(user.ID)).
		Log()

	return ok(http.StatusOK, "Login successful", dto.AuthData{
		User: dto.AuthUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
		Tokens: *tokens,
	}), nil
}

// Refresh rotates a refresh token: the presented token must verify
// cryptographically AND match a live session row. The old row is deleted
// and a new pair issued in its place.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Refresh")

	logger.InfoWithContext(ctx, "Token refresh attempt").
		Int("token_length", len(refreshToken)).
		Log()

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token failed verification").
			Err(err).
			Log()
		return fail(http.StatusUnauthorized, "Invalid or expired refresh token"), nil
	}

	if _, err := s.tokenRepo.FindActive(ctx, refreshToken, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusUnauthorized, "Invalid or expired refresh token"), nil
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusUnauthorized, "Invalid or expired refresh token"), nil
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	newAccess, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	newRefresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	expiresAt := time.Now().Add(s.tokens.RefreshTTL())
	if err := s.tokenRepo.Rotate(ctx, refreshToken, newRefresh, user.ID, expiresAt); err != nil {
		// A concurrent refresh already consumed the old row: the second
		// writer is rejected rather than issued a duplicate session.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusUnauthorized, "Invalid or expired refresh token"), nil
		}
		return nil, err
	}

	logger.InfoWithContext(ctx, "Token refreshed").
		Int("user_id", int(user.ID)).
		Log()

	return ok(http.StatusOK, "Token refreshed successfully", dto.TokensData{
		Tokens: dto.AuthTokens{
			AccessToken:  newAccess,
			RefreshToken: newRefresh,
		},
	}), nil
}

// RequestPasswordReset issues a reset token for the account registered to
// email and hands the reset link to the notifier. Delivery is
// fire-and-forget; a delivery failure never fails the request.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*Result, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RequestPasswordReset")

	email = strings.ToLower(strings.TrimSpace(email))

	logger.InfoWithContext(ctx, "Password reset requested").
		String("email", email).
		Log()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(http.StatusNotFound, "User not found"), nil
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token, err := s.resets.Issue(ctx, user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)

	if s.notify != nil {
		recipient := notifier.Recipient{Name: user.Name, Email: user.Email}
		if user.Phone != nil {
			recipient.Phone = *user.Phone
		}
		go func(to notifier.Recipient, link string) {
			if err := s.notify.SendResetLink(context.Background(), to, link); err != nil {
				logger.GetLogger().Warn("Failed to deliver reset link")
			}
		}(recipient, resetLink)
	}

	return ok(http.StatusOK, "Password reset link sent", dto.ResetLinkData{
		ResetLink: resetLink,
	}), nil
}

// ResetPassword consumes a reset token and applies the new password. The
// consume-and-clear is atomic in the store, so a token can be spent once.
// All existing sessions of the user are revoked afterwards.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (*Result, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ResetPassword")

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Capture the owner before consuming so their sessions can be revoked.
	// The guarded update below remains the single-use arbiter.
	owner, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	consumed, err := s.resets.Consume(ctx, token, hashed)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !consumed {
		logger.WarnWithContext(ctx, "Reset token rejected").
			Log()
		return fail(http.StatusBadRequest, "Invalid or expired reset token"), nil
	}

	if owner != nil {
		if _, err := s.tokenRepo.DeleteAllForUser(ctx, owner.ID); err != nil {
			logger.WarnWithContext(ctx, "Failed to revoke sessions after password reset").
				Int("user_id", int(owner.ID)).
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "Password reset completed").
		Log()

	return ok(http.StatusOK, "Password reset successfully", nil), nil
}

// Logout deletes the session matching the supplied refresh token. Absence
// of a matching session is not an error; the operation is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) (*Result, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	if _, err := s.tokenRepo.DeleteByToken(ctx, refreshToken); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Logout completed").
		Log()

	return ok(http.StatusOK, "Logged out successfully", nil), nil
}
