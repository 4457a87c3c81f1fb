package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/secureauth/secureauth/database/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheUser(email string) *model.User {
	return &model.User{
		Id:           uuid.NewString(),
		Firstname:    "Test",
		Lastname:     "User",
		Email:        email,
		PasswordHash: "x",
		Role:         model.RoleUser,
		IsActive:     true,
	}
}

func TestCacheInsertRejectsDuplicateEmail(t *testing.T) {
	repo := NewCacheUserRepository()

	require.NoError(t, repo.Insert(cacheUser("jane@example.com")))
	assert.ErrorIs(t, repo.Insert(cacheUser("JANE@example.com")), ErrDuplicate)
}

func TestCacheFindByEmailIsCaseInsensitive(t *testing.T) {
	repo := NewCacheUserRepository()
	u := cacheUser("Jane@Example.com")
	require.NoError(t, repo.Insert(u))

	found, err := repo.FindByEmail("jane@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, u.Id, found.Id)
	assert.Equal(t, "jane@example.com", found.Email)
}

func TestCacheDeleteFreesEmail(t *testing.T) {
	repo := NewCacheUserRepository()
	u := cacheUser("jane@example.com")
	require.NoError(t, repo.Insert(u))
	require.NoError(t, repo.Delete(u.Id))

	_, err := repo.FindById(u.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, repo.Insert(cacheUser("jane@example.com")))
	assert.ErrorIs(t, repo.Delete("missing"), ErrNotFound)
}

func TestCacheListNewestFirst(t *testing.T) {
	repo := NewCacheUserRepository()
	older := cacheUser("old@example.com")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := cacheUser("new@example.com")
	newer.CreatedAt = time.Now()
	require.NoError(t, repo.Insert(older))
	require.NoError(t, repo.Insert(newer))

	users, total, err := repo.List(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Equal(t, "new@example.com", users[0].Email)
	assert.Equal(t, "old@example.com", users[1].Email)
}

func TestCacheConcurrentLoginFailures(t *testing.T) {
	repo := NewCacheUserRepository()
	u := cacheUser("jane@example.com")
	require.NoError(t, repo.Insert(u))

	const attempts = 20
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.RecordLoginFailure(u.Id, 5, time.Hour))
		}()
	}
	wg.Wait()

	got, err := repo.FindById(u.Id)
	require.NoError(t, err)
	assert.Equal(t, attempts, got.FailedAttempts)
	require.NotNil(t, got.LockedUntil)
}

func TestCacheLoginSuccessResetsFailureState(t *testing.T) {
	repo := NewCacheUserRepository()
	u := cacheUser("jane@example.com")
	require.NoError(t, repo.Insert(u))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.RecordLoginFailure(u.Id, 5, time.Hour))
	}
	at := time.Now()
	require.NoError(t, repo.RecordLoginSuccess(u.Id, at))

	got, err := repo.FindById(u.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FailedAttempts)
	assert.Nil(t, got.LockedUntil)
	require.NotNil(t, got.LastLogin)
	assert.WithinDuration(t, at, *got.LastLogin, time.Second)
}

func TestCacheClearExpiredLocks(t *testing.T) {
	repo := NewCacheUserRepository()
	expired := cacheUser("expired@example.com")
	live := cacheUser("live@example.com")
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
	// the counter survives the sweep
	assert.Equal(t, 1, got.FailedAttempts)

	got, err = repo.FindById(live.Id)
	require.NoError(t, err)
	assert.NotNil(t, got.LockedUntil)
}
