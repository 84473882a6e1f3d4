package repository

import (
	"context"
	"time"

	"github.com/zenmart/auth-service/internal/model"
	ctxutil "github.com/zenmart/auth-service/pkg/context"
	"github.com/zenmart/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			Int("user_id", int(id)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail finds a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByEmail")

	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// ExistsByEmailOrPhone reports whether a user already holds the email or,
// when phone is non-empty, the phone number.
func (r *UserRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ExistsByEmailOrPhone")

	var count int64
	query := r.db.WithContext(ctx).Model(&model.User{})
	if phone != "" {
		query = query.Where("email = ? OR phone = ?", email, phone)
	} else {
		query = query.Where("email = ?", email)
	}

	if err := query.Count(&count).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to check user existence").
			String("email", email).
			Err(err).
			Log()
		return false, err
	}

	return count > 0, nil
}

// Create creates a new user. Unique violations on email/phone surface as
// gorm.ErrDuplicatedKey; the persistence layer stays the final arbiter of
// uniqueness under concurrent registration.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("email", user.Email).
		Int("user_id", int(user.ID)).
		Duration(time.Since(start)).
		Log()

	return nil
}

// SetResetToken writes a reset token and its expiry onto the user record,
// overwriting any prior token. One active reset token per user.
func (r *UserRepository) SetResetToken(ctx context.Context, id uint, token string, expiry time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "SetResetToken")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to set reset token").
			Int("user_id", int(id)).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Reset token stored").
		Int("user_id", int(id)).
		Log()

	return nil
}

// ConsumeResetToken atomically sets the new password hash and clears the
// reset token fields for the user holding a non-expired matching token.
// The single guarded UPDATE is what enforces single use: of two concurrent
// attempts with the same token, exactly one sees RowsAffected == 1.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ConsumeResetToken")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).
		Updates(map[string]interface{}{
			"password":           passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to consume reset token").
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		logger.DebugWithContext(ctx, "Reset token invalid or expired").
			Duration(time.Since(start)).
			Log()
		return false, nil
	}

	logger.InfoWithContext(ctx, "Password reset and token cleared").
		Duration(time.Since(start)).
		Log()

	return true, nil
}

// FindByResetToken finds the user currently holding a non-expired reset
// token. Read-only; consumption goes through ConsumeResetToken.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "FindByResetToken")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).
		First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "No user for reset token").
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateLastLogin")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("last_login", time.Now())
	if result.Error != nil {
		logger.WarnWithContext(ctx, "Failed to update last login").
			Int("user_id", int(id)).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// GetAll returns users with pagination and optional search over name, email
// and phone.
func (r *UserRepository) GetAll(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAll")

	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})
	if search != "" {
		searchPattern := "%" + search + "%"
		query = query.Where(
			"name LIKE ? OR email LIKE ? OR phone LIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Limit(limit).Offset(offset).Order("id").Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Int("limit", limit).
			Int("offset", offset).
			Err(err).
			Log()
		return nil, 0, err
	}

	return users, total, nil
}
