package repository

import (
	"strings"
	"time"

	"github.com/secureauth/secureauth/database"
	"github.com/secureauth/secureauth/database/model"

	"gorm.io/gorm"
)

// GormUserRepository is the authoritative backend on top of the shared
// gorm connection.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository returns a repository bound to the given
// connection, or to the global one when db is nil.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		db = database.GetDB()
	}
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByEmail(email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.Model(model.User{}).
		Where("email = ?", strings.ToLower(email)).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *GormUserRepository) FindById(id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *GormUserRepository) Insert(user *model.User) error {
	user.Email = strings.ToLower(user.Email)
	err := r.db.Create(user).Error
	if database.IsDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *GormUserRepository) Update(id string, fields map[string]any) (*model.User, error) {
	res := r.db.Model(model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindById(id)
}

func (r *GormUserRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) List(page, limit int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.Model(model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []model.User
	err := r.db.Model(model.User{}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).
		Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *GormUserRepository) Count(p Predicate) (int64, error) {
	q := r.db.Model(model.User{})
	if p.Role != nil {
		q = q.Where("role = ?", *p.Role)
	}
	if p.IsActive != nil {
		q = q.Where("is_active = ?", *p.IsActive)
	}
	if p.CreatedAfter != nil {
		q = q.Where("created_at >= ?", *p.CreatedAfter)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// RecordLoginFailure runs as a single UPDATE so concurrent failed
// attempts never lose increments or a lockout.
func (r *GormUserRepository) RecordLoginFailure(id string, threshold int, lockDuration time.Duration) error {
	now := time.Now()
	res := r.db.Model(model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"failed_attempts": gorm.Expr("failed_attempts + 1"),
			"locked_until": gorm.Expr(
				"CASE WHEN failed_attempts + 1 >= ? THEN ? ELSE locked_until END",
				threshold, now.Add(lockDuration),
			),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) RecordLoginSuccess(id string, at time.Time) error {
	res := r.db.Model(model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"failed_attempts": 0,
			"locked_until":    nil,
			"last_login":      at,
			"updated_at":      at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) ClearExpiredLocks(now time.Time) (int64, error) {
	res := r.db.Model(model.User{}).
		Where("locked_until IS NOT NULL AND locked_until <= ?", now).
		Update("locked_until", nil)
	return res.RowsAffected, res.Error
}
