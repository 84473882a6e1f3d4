package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/zenmart/auth-service/internal/errors"
	"github.com/zenmart/auth-service/internal/model"
	ctxutil "github.com/zenmart/auth-service/pkg/context"
	"github.com/zenmart/auth-service/pkg/logger"
	"gorm.io/gorm"
)

// RefreshTokenRepository is the session store: the sole persistence boundary
// for issued refresh tokens.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create inserts a session record. A duplicate token string is a conflict,
// never a silent no-op.
func (r *RefreshTokenRepository) Create(ctx context.Context, token string, userID uint, expiresAt time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	record := &model.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.WarnWithContext(ctx, "Refresh token collision").
				Int("user_id", int(userID)).
				Log()
			return apperrors.WrapError(apperrors.ErrDuplicateToken, err)
		}
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			Int("user_id", int(userID)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Refresh token stored").
		Int("user_id", int(userID)).
		Log()

	return nil
}

// FindActive returns the session record for token owned by userID with
// expires_at in the future. Expired rows are left in place; sweeping them
// is CleanupExpired's job.
func (r *RefreshTokenRepository) FindActive(ctx context.Context, token string, userID uint) (*model.RefreshToken, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindActive")

	var record model.RefreshToken
	result := r.db.WithContext(ctx).
		Where("token = ? AND user_id = ? AND expires_at > ?", token, userID, time.Now()).
		First(&record)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "No active session for token").
			Int("user_id", int(userID)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &record, nil
}

// Rotate replaces an old session with a new one in a single transaction.
// If the old token row is already gone (a concurrent refresh consumed it)
// the transaction aborts and the caller treats the token as invalid, so a
// rotated-away token can never be honored twice.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldToken, newToken string, userID uint, expiresAt time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Rotate")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("token = ?", oldToken).Delete(&model.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(&model.RefreshToken{
			Token:     newToken,
			UserID:    userID,
			ExpiresAt: expiresAt,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.WrapError(apperrors.ErrDuplicateToken, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token rotation failed").
			Int("user_id", int(userID)).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Refresh token rotated").
		Int("user_id", int(userID)).
		Duration(time.Since(start)).
		Log()

	return nil
}

// DeleteByToken removes all session rows matching the token value.
// Deleting a token that does not exist is not an error (idempotent logout).
func (r *RefreshTokenRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteByToken")

	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete refresh token").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.DebugWithContext(ctx, "Refresh tokens deleted by token").
		Int64("deleted", result.RowsAffected).
		Log()

	return result.RowsAffected, nil
}

// DeleteAllForUser removes every session owned by a user.
func (r *RefreshTokenRepository) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteAllForUser")

	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete user sessions").
			Int("user_id", int(userID)).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.InfoWithContext(ctx, "User sessions deleted").
		Int("user_id", int(userID)).
		Int64("deleted", result.RowsAffected).
		Log()

	return result.RowsAffected, nil
}

// CountForUser returns the number of stored sessions for a user.
func (r *RefreshTokenRepository) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RefreshToken{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CleanupExpired removes expired session rows (batch sweep).
func (r *RefreshTokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CleanupExpired")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to cleanup expired sessions").
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.InfoWithContext(ctx, "Expired sessions cleaned up").
		Int64("cleaned_count", result.RowsAffected).
		Duration(time.Since(start)).
		Log()

	return result.RowsAffected, nil
}
