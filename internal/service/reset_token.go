package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zenmart/auth-service/internal/constants"
	"github.com/zenmart/auth-service/internal/repository"
	ctxutil "github.com/zenmart/auth-service/pkg/context"
	"github.com/zenmart/auth-service/pkg/logger"
)

// ResetTokenManager issues single-use password-reset tokens stored on the
// user record. Consumption happens through the user repository's guarded
// update so reset and clear are one atomic statement.
type ResetTokenManager struct {
	userRepo *repository.UserRepository
	tokenTTL time.Duration
}

func NewResetTokenManager(userRepo *repository.UserRepository, tokenTTL time.Duration) *ResetTokenManager {
	return &ResetTokenManager{
		userRepo: userRepo,
		tokenTTL: tokenTTL,
	}
}

// Issue generates a random reset token for the user and writes it onto the
// user row, overwriting any prior token so at most one is active.
func (m *ResetTokenManager) Issue(ctx context.Context, userID uint) (string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Issue")

	buf := make([]byte, constants.ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expiry := time.Now().Add(m.tokenTTL)

	if err := m.userRepo.SetResetToken(ctx, userID, token, expiry); err != nil {
		return "", err
	}

	logger.InfoWithContext(ctx, "Reset token issued").
		Int("user_id", int(userID)).
		Log()

	return token, nil
}

// Consume atomically applies the new password hash to the user holding a
// valid token and clears the token fields. Returns false when the token is
// unknown, expired, or already used.
func (m *ResetTokenManager) Consume(ctx context.Context, token, passwordHash string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Consume")
	return m.userRepo.ConsumeResetToken(ctx, token, passwordHash)
}
