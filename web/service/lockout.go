package service

import (
	"time"

	"github.com/secureauth/secureauth/config"
	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/database/repository"
)

// LockoutPolicy tracks failed login attempts per account and locks the
// account once the threshold is reached. The counter and the lock
// expiry live on the user record; increments happen inside the
// repository as one atomic update so concurrent wrong-password storms
// never lose a lockout.
type LockoutPolicy struct {
	repo repository.UserRepository

	// Threshold is the number of consecutive failures that triggers a
	// lock; LockDuration is how long the lock lasts.
	Threshold    int
	LockDuration time.Duration
}

// NewLockoutPolicy builds the policy with tunables from configuration.
func NewLockoutPolicy(repo repository.UserRepository) *LockoutPolicy {
	return &LockoutPolicy{
		repo:         repo,
		Threshold:    config.GetLockoutThreshold(),
		LockDuration: config.GetLockoutDuration(),
	}
}

// RecordFailure counts a failed attempt. Reaching the threshold sets
// the lock expiry without resetting the counter.
func (p *LockoutPolicy) RecordFailure(userId string) error {
	return p.repo.RecordLoginFailure(userId, p.Threshold, p.LockDuration)
}

// RecordSuccess clears the failure state and stamps the login time.
func (p *LockoutPolicy) RecordSuccess(userId string, at time.Time) error {
	return p.repo.RecordLoginSuccess(userId, at)
}

// IsLocked reports whether the account is inside a lockout window.
func (p *LockoutPolicy) IsLocked(user *model.User) bool {
	return user.IsLocked(time.Now())
}
