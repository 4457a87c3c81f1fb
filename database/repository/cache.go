package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/secureauth/secureauth/database/model"

	gocache "github.com/patrickmn/go-cache"
)

const (
	userKeyPrefix  = "user:"
	emailKeyPrefix = "email:"
)

// CacheUserRepository is the local backend used for offline operation.
// Records live in a go-cache instance without expiry; a single mutex
// serializes mutations, which keeps lockout increments atomic within
// the process.
type CacheUserRepository struct {
	mu    sync.Mutex
	store *gocache.Cache
}

func NewCacheUserRepository() *CacheUserRepository {
	return &CacheUserRepository{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Seed inserts users ignoring duplicates. Used to pre-populate the
// offline store with known accounts.
func (r *CacheUserRepository) Seed(users []model.User) {
	for i := range users {
		_ = r.Insert(&users[i])
	}
}

func (r *CacheUserRepository) get(id string) (*model.User, bool) {
	v, ok := r.store.Get(userKeyPrefix + id)
	if !ok {
		return nil, false
	}
	u, ok := v.(model.User)
	if !ok {
		return nil, false
	}
	return &u, true
}

func (r *CacheUserRepository) put(u *model.User) {
	r.store.Set(userKeyPrefix+u.Id, *u, gocache.NoExpiration)
	r.store.Set(emailKeyPrefix+strings.ToLower(u.Email), u.Id, gocache.NoExpiration)
}

func (r *CacheUserRepository) FindByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.store.Get(emailKeyPrefix + strings.ToLower(email))
	if !ok {
		return nil, ErrNotFound
	}
	id, _ := v.(string)
	u, ok := r.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *CacheUserRepository) FindById(id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *CacheUserRepository) Insert(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	if _, ok := r.store.Get(emailKeyPrefix + user.Email); ok {
		return ErrDuplicate
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.put(user)
	return nil
}

func (r *CacheUserRepository) Update(id string, fields map[string]any) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	applyFields(u, fields)
	u.UpdatedAt = time.Now()
	r.put(u)
	return u, nil
}

func (r *CacheUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	r.store.Delete(userKeyPrefix + id)
	r.store.Delete(emailKeyPrefix + strings.ToLower(u.Email))
	return nil
}

func (r *CacheUserRepository) all() []model.User {
	items := r.store.Items()
	users := make([]model.User, 0, len(items))
	for key, item := range items {
		if !strings.HasPrefix(key, userKeyPrefix) {
			continue
		}
		if u, ok := item.Object.(model.User); ok {
			users = append(users, u)
		}
	}
	return users
}

func (r *CacheUserRepository) List(page, limit int) ([]model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := r.all()
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	total := int64(len(users))
	start := (page - 1) * limit
	if start >= len(users) {
		return []model.User{}, total, nil
	}
	end := start + limit
	if end > len(users) {
		end = len(users)
	}
	return users[start:end], total, nil
}

func (r *CacheUserRepository) Count(p Predicate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, u := range r.all() {
		if p.Role != nil && u.Role != *p.Role {
			continue
		}
		if p.IsActive != nil && u.IsActive != *p.IsActive {
			continue
		}
		if p.CreatedAfter != nil && u.CreatedAt.Before(*p.CreatedAfter) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *CacheUserRepository) RecordLoginFailure(id string, threshold int, lockDuration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	u.FailedAttempts++
	if u.FailedAttempts >= threshold {
		until := now.Add(lockDuration)
		u.LockedUntil = &until
	}
	u.UpdatedAt = now
	r.put(u)
	return nil
}

func (r *CacheUserRepository) RecordLoginSuccess(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.get(id)
	if !ok {
		return ErrNotFound
	}
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.LastLogin = &at
	u.UpdatedAt = at
	r.put(u)
	return nil
}

func (r *CacheUserRepository) ClearExpiredLocks(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cleared int64
	for _, u := range r.all() {
		if u.LockedUntil != nil && !u.LockedUntil.After(now) {
			u.LockedUntil = nil
			u.UpdatedAt = now
			r.put(&u)
			cleared++
		}
	}
	return cleared, nil
}

// applyFields mirrors the column-name updates the gorm backend accepts,
// so the two backends stay interchangeable behind UserRepository.
func applyFields(u *model.User, fields map[string]any) {
	for col, v := range fields {
		switch col {
		case "firstname":
			if s, ok := v.(string); ok {
				u.Firstname = s
			}
		case "lastname":
			if s, ok := v.(string); ok {
				u.Lastname = s
			}
		case "email":
			if s, ok := v.(string); ok {
				u.Email = strings.ToLower(s)
			}
		case "password_hash":
			if s, ok := v.(string); ok {
				u.PasswordHash = s
			}
		case "role":
			if s, ok := v.(string); ok {
				u.Role = s
			}
		case "is_active":
			if b, ok := v.(bool); ok {
				u.IsActive = b
			}
		case "failed_attempts":
			if n, ok := v.(int); ok {
				u.FailedAttempts = n
			}
		case "locked_until":
			switch t := v.(type) {
			case nil:
				u.LockedUntil = nil
			case time.Time:
				u.LockedUntil = &t
			case *time.Time:
				u.LockedUntil = t
			}
		}
	}
}
