// Package model defines the persisted entities of the SecureAuth service.
package model

import "time"

// Role values. Every user carries exactly one of these.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

// User is the identity record. Email is the login key and is stored
// lowercased; the unique index makes duplicate registration a
// constraint violation even under concurrent inserts.
type User struct {
	Id           string `json:"id" gorm:"primaryKey;size:36"`
	Firstname    string `json:"firstname" gorm:"not null"`
	Lastname     string `json:"lastname" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Role         string `json:"role" gorm:"not null;default:user"`
	IsActive     bool   `json:"isActive" gorm:"not null;default:true"`

	FailedAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil    *time.Time `json:"-"`
	LastLogin      *time.Time `json:"lastLogin"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsLocked reports whether the account is inside a lockout window.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
