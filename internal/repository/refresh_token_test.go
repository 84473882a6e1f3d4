package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenmart/auth-service/internal/constants"
	apperrors "github.com/zenmart/auth-service/internal/errors"
	"github.com/zenmart/auth-service/internal/testutil"
	"gorm.io/gorm"
)

func TestRefreshTokenRepository_CreateAndFindActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, repo.Create(ctx, "token-a", user.ID, expiresAt))

	row, err := repo.FindActive(ctx, "token-a", user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, row.UserID)
	assert.Equal(t, "token-a", row.Token)
}

func TestRefreshTokenRepository_FindActiveWrongUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)
	require.NoError(t, repo.Create(ctx, "token-a", user.ID, time.Now().Add(time.Hour)))

	_, err := repo.FindActive(ctx, "token-a", user.ID+1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRefreshTokenRepository_FindActiveExcludesExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)
	require.NoError(t, repo.Create(ctx, "stale", user.ID, time.Now().Add(-time.Minute)))

	_, err := repo.FindActive(ctx, "stale", user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRefreshTokenRepository_CreateDuplicateConflict(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)
	require.NoError(t, repo.Create(ctx, "dup", user.ID, time.Now().Add(time.Hour)))

	err := repo.Create(ctx, "dup", user.ID, time.Now().Add(time.Hour))
	require.Error(t, err)
	domainErr := apperrors.GetDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "DUPLICATE_TOKEN", domainErr.Code)
}

func TestRefreshTokenRepository_Rotate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)
	require.NoError(t, repo.Create(ctx, "old", user.ID, time.Now().Add(time.Hour)))

	require.NoError(t, repo.Rotate(ctx, "old", "new", user.ID, time.Now().Add(time.Hour)))

	_, err := repo.FindActive(ctx, "old", user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	row, err := repo.FindActive(ctx, "new", user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, row.UserID)

	count, err := repo.CountForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRefreshTokenRepository_RotateConsumedToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)
	require.NoError(t, repo.Create(ctx, "old", user.ID, time.Now().Add(time.Hour)))
	require.NoError(t, repo.Rotate(ctx, "old", "first", user.ID, time.Now().Add(time.Hour)))

	// A second rotation of the same original token must fail, and must not
	// create another session row.
	err := repo.Rotate(ctx, "old", "second", user.ID, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.CountForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRefreshTokenRepository_DeleteByTokenIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)
	require.NoError(t, repo.Create(ctx, "token-a", user.ID, time.Now().Add(time.Hour)))

	deleted, err := repo.DeleteByToken(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = repo.DeleteByToken(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	deleted, err = repo.DeleteByToken(ctx, "never-existed")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestRefreshTokenRepository_DeleteAllForUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com", "password2", constants.RoleCustomer)

	require.NoError(t, repo.Create(ctx, "a1", alice.ID, time.Now().Add(time.Hour)))
	require.NoError(t, repo.Create(ctx, "a2", alice.ID, time.Now().Add(time.Hour)))
	require.NoError(t, repo.Create(ctx, "b1", bob.ID, time.Now().Add(time.Hour)))

	deleted, err := repo.DeleteAllForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := repo.CountForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRefreshTokenRepository_CleanupExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "password1", constants.RoleCustomer)
	require.NoError(t, repo.Create(ctx, "live", user.ID, time.Now().Add(time.Hour)))
	require.NoError(t, repo.Create(ctx, "stale-1", user.ID, time.Now().Add(-time.Hour)))
	require.NoError(t, repo.Create(ctx, "stale-2", user.ID, time.Now().Add(-time.Minute)))

	removed, err := repo.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	count, err := repo.CountForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
