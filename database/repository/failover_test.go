package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/secureauth/secureauth/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenRepo fails every operation with a fixed error, standing in for a
// primary backend that lost its connection.
type brokenRepo struct {
	err error
}

func (r *brokenRepo) FindByEmail(string) (*model.User, error) { return nil, r.err }
func (r *brokenRepo) FindById(string) (*model.User, error)    { return nil, r.err }
func (r *brokenRepo) Insert(*model.User) error                { return r.err }
func (r *brokenRepo) Update(string, map[string]any) (*model.User, error) {
	return nil, r.err
}
func (r *brokenRepo) Delete(string) error                      { return r.err }
func (r *brokenRepo) List(int, int) ([]model.User, int64, error) { return nil, 0, r.err }
func (r *brokenRepo) Count(Predicate) (int64, error)           { return 0, r.err }
func (r *brokenRepo) RecordLoginFailure(string, int, time.Duration) error {
	return r.err
}
func (r *brokenRepo) RecordLoginSuccess(string, time.Time) error { return r.err }
func (r *brokenRepo) ClearExpiredLocks(time.Time) (int64, error) { return 0, r.err }

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(ErrNotFound))
	assert.False(t, IsTransient(ErrDuplicate))
	assert.True(t, IsTransient(errors.New("connection refused")))
}

func TestFailoverDegradesOnTransientErrors(t *testing.T) {
	fallback := NewCacheUserRepository()
	u := cacheUser("jane@example.com")
	require.NoError(t, fallback.Insert(u))

	repo := NewFailoverUserRepository(&brokenRepo{err: errors.New("connection refused")}, fallback)

	found, err := repo.FindByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.Id, found.Id)

	require.NoError(t, repo.RecordLoginFailure(u.Id, 5, time.Hour))
	got, err := repo.FindById(u.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.FailedAttempts)

	_, total, err := repo.List(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestFailoverPassesDomainErrorsThrough(t *testing.T) {
	fallback := NewCacheUserRepository()
	require.NoError(t, fallback.Insert(cacheUser("jane@example.com")))

	// primary answers authoritatively; the fallback must not be consulted
	repo := NewFailoverUserRepository(&brokenRepo{err: ErrNotFound}, fallback)

	_, err := repo.FindByEmail("jane@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	repo = NewFailoverUserRepository(&brokenRepo{err: ErrDuplicate}, fallback)
	assert.ErrorIs(t, repo.Insert(cacheUser("new@example.com")), ErrDuplicate)
}
