package service

import (
	"errors"
	"time"

	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/database/repository"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/web/entity"
)

const defaultPageLimit = 50

// Actor identifies who is performing an admin operation. Controllers
// fill it from the verified token.
type Actor struct {
	Id   string
	Role string
}

// UserAdminService implements the role-gated administration surface.
// Every mutation goes through the authorization matrix here, on the
// server; whatever the client showed or hid is irrelevant.
type UserAdminService struct {
	repo repository.UserRepository
}

func NewUserAdminService(repo repository.UserRepository) *UserAdminService {
	return &UserAdminService{repo: repo}
}

// ListUsers returns a page of users, newest first.
func (s *UserAdminService) ListUsers(page, limit int) (*entity.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = defaultPageLimit
	}
	users, total, err := s.repo.List(page, limit)
	if err != nil {
		return nil, err
	}
	views := make([]entity.UserView, 0, len(users))
	for i := range users {
		views = append(views, entity.ToUserView(&users[i]))
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &entity.UserPage{
		Users: views,
		Pagination: entity.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalUsers:  total,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	}, nil
}

func (s *UserAdminService) GetUser(id string) (*entity.UserView, error) {
	user, err := s.repo.FindById(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	view := entity.ToUserView(user)
	return &view, nil
}

// UpdateRole changes the target's role after consulting the matrix.
func (s *UserAdminService) UpdateRole(actor Actor, targetId, role string) (*entity.UserView, error) {
	if !model.ValidRole(role) {
		ve := newValidationErrors()
		ve.add("role", "role must be one of: user, moderator, admin")
		return nil, ve
	}
	target, err := s.repo.FindById(targetId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanAssignRole(actor.Role, actor.Id, target.Role, target.Id, role) {
		logger.Warningf("role change denied: actor=%s(%s) target=%s(%s) requested=%s",
			actor.Id, actor.Role, target.Id, target.Role, role)
		return nil, ErrForbidden
	}
	updated, err := s.repo.Update(targetId, map[string]any{"role": role})
	if err != nil {
		return nil, err
	}
	logger.Infof("role of %s changed to %s by %s", updated.Email, role, actor.Id)
	view := entity.ToUserView(updated)
	return &view, nil
}

// SetStatus activates or deactivates the target account. Admin-only,
// never self.
func (s *UserAdminService) SetStatus(actor Actor, targetId string, active bool) (*entity.UserView, error) {
	if !CanToggleStatus(actor.Role, actor.Id, targetId) {
		return nil, ErrForbidden
	}
	updated, err := s.repo.Update(targetId, map[string]any{"is_active": active})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	logger.Infof("account %s set active=%v by %s", updated.Email, active, actor.Id)
	view := entity.ToUserView(updated)
	return &view, nil
}

// DeleteUser removes the target account. Admin-only, never self.
func (s *UserAdminService) DeleteUser(actor Actor, targetId string) error {
	if !CanDeleteUser(actor.Role, actor.Id, targetId) {
		return ErrForbidden
	}
	err := s.repo.Delete(targetId)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err == nil {
		logger.Infof("account %s deleted by %s", targetId, actor.Id)
	}
	return err
}

// Stats aggregates the dashboard counters.
func (s *UserAdminService) Stats() (*entity.Stats, error) {
	active := true
	admin := model.RoleAdmin
	moderator := model.RoleModerator
	regular := model.RoleUser
	recentSince := time.Now().AddDate(0, 0, -30)

	stats := &entity.Stats{}
	counts := []struct {
		dst  *int64
		pred repository.Predicate
	}{
		{&stats.TotalUsers, repository.Predicate{}},
		{&stats.ActiveUsers, repository.Predicate{IsActive: &active}},
		{&stats.AdminUsers, repository.Predicate{Role: &admin}},
		{&stats.ModeratorUsers, repository.Predicate{Role: &moderator}},
		{&stats.RegularUsers, repository.Predicate{Role: &regular}},
		{&stats.RecentUsers, repository.Predicate{CreatedAfter: &recentSince}},
	}
	for _, c := range counts {
		n, err := s.repo.Count(c.pred)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers
	return stats, nil
}
