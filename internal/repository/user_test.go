package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenmart/auth-service/internal/constants"
	"github.com/zenmart/auth-service/internal/model"
	"github.com/zenmart/auth-service/internal/testutil"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hashed",
		Role:     constants.RoleCustomer,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &model.User{Name: "Alice", Email: "alice@example.com", Password: "h", Role: constants.RoleCustomer}
	require.NoError(t, repo.Create(ctx, first))

	second := &model.User{Name: "Other", Email: "alice@example.com", Password: "h", Role: constants.RoleCustomer}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_ExistsByEmailOrPhone(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	phone := "0812345678901"
	user := &model.User{Name: "Alice", Email: "alice@example.com", Phone: &phone, Password: "h", Role: constants.RoleCustomer}
	require.NoError(t, repo.Create(ctx, user))

	exists, err := repo.ExistsByEmailOrPhone(ctx, "alice@example.com", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmailOrPhone(ctx, "other@example.com", phone)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmailOrPhone(ctx, "other@example.com", "0999999999999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_ConsumeResetToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "old-password", constants.RoleCustomer)
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "reset-abc", time.Now().Add(15*time.Minute)))

	consumed, err := repo.ConsumeResetToken(ctx, "reset-abc", "new-hash")
	require.NoError(t, err)
	assert.True(t, consumed)

	// The token is single use: a replay finds nothing to consume.
	consumed, err = repo.ConsumeResetToken(ctx, "reset-abc", "other-hash")
	require.NoError(t, err)
	assert.False(t, consumed)

	updated, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.Password)
	assert.Nil(t, updated.ResetToken)
	assert.Nil(t, updated.ResetTokenExpiry)
}

func TestUserRepository_ConsumeExpiredResetToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Alice", "alice@example.com", "old-password", constants.RoleCustomer)
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "reset-abc", time.Now().Add(-time.Minute)))

	consumed, err := repo.ConsumeResetToken(ctx, "reset-abc", "new-hash")
	require.NoError(t, err)
	assert.False(t, consumed)

	unchanged, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "new-hash", unchanged.Password)
}

func TestUserRepository_ConsumeUnknownResetToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	consumed, err := repo.ConsumeResetToken(ctx, "never-issued", "new-hash")
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestUserRepository_GetAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	testutil.CreateUser(t, db, "Alice", "alice@example.com", "p1", constants.RoleCustomer)
	testutil.CreateUser(t, db, "Bob", "bob@example.com", "p2", constants.RoleVendor)
	testutil.CreateUser(t, db, "Carol", "carol@example.com", "p3", constants.RoleAdmin)

	users, total, err := repo.GetAll(ctx, 2, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, total, err = repo.GetAll(ctx, 10, 0, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)
}
