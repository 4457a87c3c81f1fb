package service

import "github.com/secureauth/secureauth/database/model"

// Authorization matrix. Pure functions; the admin service applies them
// server-side before any mutation, so client-side checks are advisory
// only.
//
//	actor      may set target role to    forbidden
//	admin      user, moderator, admin    own role
//	moderator  user, moderator           admin targets, admin role, own role
//	user       -                         everything

// CanAssignRole decides whether actor may change target's role to
// requested. Self-role changes are always rejected.
func CanAssignRole(actorRole, actorId, targetRole, targetId, requested string) bool {
	if !model.ValidRole(requested) {
		return false
	}
	if actorId == targetId {
		return false
	}
	switch actorRole {
	case model.RoleAdmin:
		return true
	case model.RoleModerator:
		return targetRole != model.RoleAdmin && requested != model.RoleAdmin
	default:
		return false
	}
}

// CanDeleteUser decides whether actor may delete target. Only admins
// delete users, and never themselves.
func CanDeleteUser(actorRole, actorId, targetId string) bool {
	return actorRole == model.RoleAdmin && actorId != targetId
}

// CanToggleStatus decides whether actor may activate or deactivate
// target. Admin-only, never self.
func CanToggleStatus(actorRole, actorId, targetId string) bool {
	return actorRole == model.RoleAdmin && actorId != targetId
}
