package repository

import (
	"time"

	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/logger"
)

// FailoverUserRepository tries the primary backend first and replays
// the operation against the fallback only when the primary failed with
// a transport-class error. Domain outcomes (not found, duplicate) pass
// through untouched.
type FailoverUserRepository struct {
	primary  UserRepository
	fallback UserRepository
}

func NewFailoverUserRepository(primary, fallback UserRepository) *FailoverUserRepository {
	return &FailoverUserRepository{primary: primary, fallback: fallback}
}

func (r *FailoverUserRepository) degraded(op string, err error) bool {
	if !IsTransient(err) {
		return false
	}
	logger.Warningf("primary repository failed on %s, using local fallback: %v", op, err)
	return true
}

func (r *FailoverUserRepository) FindByEmail(email string) (*model.User, error) {
	u, err := r.primary.FindByEmail(email)
	if r.degraded("FindByEmail", err) {
		return r.fallback.FindByEmail(email)
	}
	return u, err
}

func (r *FailoverUserRepository) FindById(id string) (*model.User, error) {
	u, err := r.primary.FindById(id)
	if r.degraded("FindById", err) {
		return r.fallback.FindById(id)
	}
	return u, err
}

func (r *FailoverUserRepository) Insert(user *model.User) error {
	err := r.primary.Insert(user)
	if r.degraded("Insert", err) {
		return r.fallback.Insert(user)
	}
	return err
}

func (r *FailoverUserRepository) Update(id string, fields map[string]any) (*model.User, error) {
	u, err := r.primary.Update(id, fields)
	if r.degraded("Update", err) {
		return r.fallback.Update(id, fields)
	}
	return u, err
}

func (r *FailoverUserRepository) Delete(id string) error {
	err := r.primary.Delete(id)
	if r.degraded("Delete", err) {
		return r.fallback.Delete(id)
	}
	return err
}

func (r *FailoverUserRepository) List(page, limit int) ([]model.User, int64, error) {
	users, total, err := r.primary.List(page, limit)
	if r.degraded("List", err) {
		return r.fallback.List(page, limit)
	}
	return users, total, err
}

func (r *FailoverUserRepository) Count(p Predicate) (int64, error) {
	n, err := r.primary.Count(p)
	if r.degraded("Count", err) {
		return r.fallback.Count(p)
	}
	return n, err
}

func (r *FailoverUserRepository) RecordLoginFailure(id string, threshold int, lockDuration time.Duration) error {
	err := r.primary.RecordLoginFailure(id, threshold, lockDuration)
	if r.degraded("RecordLoginFailure", err) {
		return r.fallback.RecordLoginFailure(id, threshold, lockDuration)
	}
	return err
}

func (r *FailoverUserRepository) RecordLoginSuccess(id string, at time.Time) error {
	err := r.primary.RecordLoginSuccess(id, at)
	if r.degraded("RecordLoginSuccess", err) {
		return r.fallback.RecordLoginSuccess(id, at)
	}
	return err
}

func (r *FailoverUserRepository) ClearExpiredLocks(now time.Time) (int64, error) {
	n, err := r.primary.ClearExpiredLocks(now)
	if r.degraded("ClearExpiredLocks", err) {
		return r.fallback.ClearExpiredLocks(now)
	}
	return n, err
}
