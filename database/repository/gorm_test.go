package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/secureauth/secureauth/database"
	"github.com/secureauth/secureauth/database/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGorm(t *testing.T) *GormUserRepository {
	t.Helper()
	t.Setenv("SA_BCRYPT_COST", "4")
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.InitDB(dbPath))
	t.Cleanup(func() {
		_ = database.CloseDB()
	})
	return NewGormUserRepository(database.GetDB())
}

func gormUser(email string) *model.User {
	return &model.User{
		Id:           uuid.NewString(),
		Firstname:    "Test",
		Lastname:     "User",
		Email:        email,
		PasswordHash: "x",
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestGormInsertLowercasesAndRejectsDuplicates(t *testing.T) {
	repo := setupGorm(t)

	u := gormUser("Jane@Example.COM")
	require.NoError(t, repo.Insert(u))
	assert.Equal(t, "jane@example.com", u.Email)

	found, err := repo.FindByEmail("JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.Id, found.Id)

	assert.ErrorIs(t, repo.Insert(gormUser("jane@example.com")), ErrDuplicate)
}

func TestGormUpdateUnknownId(t *testing.T) {
	repo := setupGorm(t)

	_, err := repo.Update("missing", map[string]any{"firstname": "X"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete("missing"), ErrNotFound)
	assert.ErrorIs(t, repo.RecordLoginFailure("missing", 5, time.Hour), ErrNotFound)
}

func TestGormLoginFailureThreshold(t *testing.T) {
	repo := setupGorm(t)
	u := gormUser("jane@example.com")
	require.NoError(t, repo.Insert(u))

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.RecordLoginFailure(u.Id, 3, time.Hour))
	}
	got, err := repo.FindById(u.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.FailedAttempts)
	assert.Nil(t, got.LockedUntil)

	// third failure crosses the threshold inside the same UPDATE
	require.NoError(t, repo.RecordLoginFailure(u.Id, 3, time.Hour))
	got, err = repo.FindById(u.Id)
	require.NoError(t, err)
	assert.Equal(t, 3, got.FailedAttempts)
	require.NotNil(t, got.LockedUntil)
	assert.True(t, got.IsLocked(time.Now()))

	require.NoError(t, repo.RecordLoginSuccess(u.Id, time.Now()))
	got, err = repo.FindById(u.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FailedAttempts)
	assert.Nil(t, got.LockedUntil)
	assert.NotNil(t, got.LastLogin)
}

func TestGormClearExpiredLocks(t *testing.T) {
	repo := setupGorm(t)
	expired := gormUser("expired@example.com")
	live := gormUser("live@example.com")
	require.NoError(t, repo.Insert(expired))
	require.NoError(t, repo.Insert(live))

	require.NoError(t, repo.RecordLoginFailure(expired.Id, 1, -time.Minute))
	require.NoError(t, repo.RecordLoginFailure(live.Id, 1, time.Hour))

	cleared, err := repo.ClearExpiredLocks(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	got, err := repo.FindById(expired.Id)
	require.NoError(t, err)
	assert.Nil(t, got.LockedUntil)
	assert.Equal(t, 1, got.FailedAttempts)

	got, err = repo.FindById(live.Id)
	require.NoError(t, err)
	assert.NotNil(t, got.LockedUntil)
}

func TestGormCountPredicates(t *testing.T) {
	repo := setupGorm(t)

	// a seeded admin account already exists on a fresh database
	require.NoError(t, repo.Insert(gormUser("u1@example.com")))
	inactive := gormUser("u2@example.com")
	inactive.IsActive = false
	require.NoError(t, repo.Insert(inactive))

	total, err := repo.Count(Predicate{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	active := true
	n, err := repo.Count(Predicate{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	admin := model.RoleAdmin
	n, err = repo.Count(Predicate{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
