// Package repository abstracts user persistence behind a single
// interface with interchangeable backends: the authoritative sqlite
// store, a local in-process cache for offline operation, and a failover
// wrapper that degrades from one to the other on connectivity loss.
package repository

import (
	"errors"
	"time"

	"github.com/secureauth/secureauth/database/model"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when an insert collides with an
	// existing email.
	ErrDuplicate = errors.New("duplicate email")
)

// Predicate selects users for Count. Nil fields match everything.
type Predicate struct {
	Role         *string
	IsActive     *bool
	CreatedAfter *time.Time
}

// UserRepository is the persistence capability the services are written
// against. Emails are compared case-insensitively by every
// implementation; callers may pass any casing.
type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindById(id string) (*model.User, error)
	Insert(user *model.User) error
	// Update applies the given column values and returns the fresh
	// record. UpdatedAt is stamped by the implementation.
	Update(id string, fields map[string]any) (*model.User, error)
	Delete(id string) error
	// List returns a page of users, newest first, with the total count.
	List(page, limit int) ([]model.User, int64, error)
	Count(p Predicate) (int64, error)

	// RecordLoginFailure increments the failure counter and sets the
	// lock expiry once the threshold is reached, as one atomic
	// conditional update. The counter is not reset when the lock is
	// applied.
	RecordLoginFailure(id string, threshold int, lockDuration time.Duration) error
	// RecordLoginSuccess clears the failure state and stamps the last
	// login time.
	RecordLoginSuccess(id string, at time.Time) error
	// ClearExpiredLocks drops lock expiries that have passed. Attempt
	// counters are left alone; they reset on the next successful login.
	ClearExpiredLocks(now time.Time) (int64, error)
}

// IsTransient reports whether err looks like a connectivity or driver
// failure rather than a domain outcome. Failover treats only these as
// grounds for degrading to the local backend.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDuplicate)
}
