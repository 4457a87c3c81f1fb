package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/database/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo repository.UserRepository, email, role string, active bool) *model.User {
	t.Helper()
	u := &model.User{
		Id:           uuid.NewString(),
		Firstname:    "Test",
		Lastname:     "User",
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, repo.Insert(u))
	return u
}

func TestListUsersPagination(t *testing.T) {
	repo := repository.NewCacheUserRepository()
	svc := NewUserAdminService(repo)

	for i := 0; i < 7; i++ {
		seedUser(t, repo, fmt.Sprintf("u%d@example.com", i), model.RoleUser, true)
	}

	page, err := svc.ListUsers(1, 3)
	require.NoError(t, err)
	assert.Len(t, page.Users, 3)
	assert.Equal(t, int64(7), page.Pagination.TotalUsers)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)

	page, err = svc.ListUsers(3, 3)
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	// out-of-range page is empty but keeps the totals
	page, err = svc.ListUsers(9, 3)
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.Equal(t, int64(7), page.Pagination.TotalUsers)

	// nonsense paging falls back to defaults
	page, err = svc.ListUsers(0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Len(t, page.Users, 7)
}

func TestUpdateRoleAppliesMatrix(t *testing.T) {
	repo := repository.NewCacheUserRepository()
	svc := NewUserAdminService(repo)

	admin := seedUser(t, repo, "admin@example.com", model.RoleAdmin, true)
	moderator := seedUser(t, repo, "mod@example.com", model.RoleModerator, true)
	user := seedUser(t, repo, "user@example.com", model.RoleUser, true)

	view, err := svc.UpdateRole(Actor{Id: admin.Id, Role: admin.Role}, user.Id, model.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, view.Role)

	_, err = svc.UpdateRole(Actor{Id: moderator.Id, Role: moderator.Role}, user.Id, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateRole(Actor{Id: moderator.Id, Role: moderator.Role}, admin.Id, model.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateRole(Actor{Id: admin.Id, Role: admin.Role}, admin.Id, model.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateRole(Actor{Id: admin.Id, Role: admin.Role}, user.Id, "owner")
	_, ok := AsValidationErrors(err)
	assert.True(t, ok)

	_, err = svc.UpdateRole(Actor{Id: admin.Id, Role: admin.Role}, "missing", model.RoleUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusAdminOnlyNeverSelf(t *testing.T) {
	repo := repository.NewCacheUserRepository()
	svc := NewUserAdminService(repo)

	admin := seedUser(t, repo, "admin@example.com", model.RoleAdmin, true)
	moderator := seedUser(t, repo, "mod@example.com", model.RoleModerator, true)
	user := seedUser(t, repo, "user@example.com", model.RoleUser, true)

	view, err := svc.SetStatus(Actor{Id: admin.Id, Role: admin.Role}, user.Id, false)
	require.NoError(t, err)
	assert.False(t, view.IsActive)

	_, err = svc.SetStatus(Actor{Id: admin.Id, Role: admin.Role}, admin.Id, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetStatus(Actor{Id: moderator.Id, Role: moderator.Role}, user.Id, true)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteUserAdminOnlyNeverSelf(t *testing.T) {
	repo := repository.NewCacheUserRepository()
	svc := NewUserAdminService(repo)

	admin := seedUser(t, repo, "admin@example.com", model.RoleAdmin, true)
	user := seedUser(t, repo, "user@example.com", model.RoleUser, true)

	assert.ErrorIs(t, svc.DeleteUser(Actor{Id: admin.Id, Role: admin.Role}, admin.Id), ErrForbidden)

	require.NoError(t, svc.DeleteUser(Actor{Id: admin.Id, Role: admin.Role}, user.Id))
	_, err := svc.GetUser(user.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteUser(Actor{Id: admin.Id, Role: admin.Role}, user.Id), ErrNotFound)
}

func TestStatsCounters(t *testing.T) {
	repo := repository.NewCacheUserRepository()
	svc := NewUserAdminService(repo)

	seedUser(t, repo, "admin@example.com", model.RoleAdmin, true)
	seedUser(t, repo, "mod@example.com", model.RoleModerator, true)
	seedUser(t, repo, "u1@example.com", model.RoleUser, true)
	old := seedUser(t, repo, "u2@example.com", model.RoleUser, false)

	// push one account outside the recent window
	old.CreatedAt = time.Now().AddDate(0, -2, 0)
	require.NoError(t, repo.Delete(old.Id))
	require.NoError(t, repo.Insert(old))

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.InactiveUsers)
	assert.Equal(t, int64(1), stats.AdminUsers)
	assert.Equal(t, int64(1), stats.ModeratorUsers)
	assert.Equal(t, int64(2), stats.RegularUsers)
	assert.Equal(t, int64(3), stats.RecentUsers)
}
