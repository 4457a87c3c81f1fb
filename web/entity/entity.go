// Package entity defines the JSON shapes exchanged by the SecureAuth
// web layer.
package entity

import (
	"time"

	"github.com/secureauth/secureauth/database/model"
)

// Msg represents a standard API response with success status, message
// text, and optional data object.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
	Obj     any    `json:"obj,omitempty"`
}

// UserView is the public projection of a user record. The password
// hash and the lockout counters never leave the service layer.
type UserView struct {
	Id        string     `json:"id"`
	Firstname string     `json:"firstname"`
	Lastname  string     `json:"lastname"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ToUserView projects a persisted user onto its public shape.
func ToUserView(u *model.User) UserView {
	return UserView{
		Id:        u.Id,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// Pagination describes a page of the admin user listing.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalUsers  int64 `json:"totalUsers"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// UserPage is the admin listing payload.
type UserPage struct {
	Users      []UserView `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// Stats aggregates account counts for the admin dashboard.
type Stats struct {
	TotalUsers     int64 `json:"totalUsers"`
	ActiveUsers    int64 `json:"activeUsers"`
	InactiveUsers  int64 `json:"inactiveUsers"`
	AdminUsers     int64 `json:"adminUsers"`
	ModeratorUsers int64 `json:"moderatorUsers"`
	RegularUsers   int64 `json:"regularUsers"`
	RecentUsers    int64 `json:"recentUsers"`
}

// LoginResult carries the issued token plus the user snapshot the
// client keeps in its session record.
type LoginResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}
