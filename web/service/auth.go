// Package service implements the authentication core and the
// role-gated user administration of the SecureAuth service. Services
// are written against the repository interface, so the same logic runs
// over the sqlite store and the local offline cache.
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/secureauth/secureauth/config"
	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/database/repository"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/util/crypto"
	"github.com/secureauth/secureauth/web/entity"

	"github.com/google/uuid"
)

// PasswordHasher is the one-way credential transform. The server uses
// bcrypt; the offline client store swaps in the isolated fast digest.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(digest, plain string) bool
}

// BcryptHasher hashes with bcrypt at the given cost.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{Cost: config.GetBcryptCost()}
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	return crypto.HashPassword(plain, h.Cost)
}

func (h BcryptHasher) Verify(digest, plain string) bool {
	return crypto.CheckPasswordHash(digest, plain)
}

// TokenIssuer mints and checks bearer tokens. TokenService is the
// production implementation; the offline client substitutes its
// plain-encoded codec.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
	Validate(token string) (*Claims, error)
}

// AuthService orchestrates registration, login, token verification,
// password change and profile updates.
type AuthService struct {
	repo    repository.UserRepository
	tokens  TokenIssuer
	hasher  PasswordHasher
	lockout *LockoutPolicy
}

func NewAuthService(repo repository.UserRepository, tokens TokenIssuer, hasher PasswordHasher, lockout *LockoutPolicy) *AuthService {
	return &AuthService{
		repo:    repo,
		tokens:  tokens,
		hasher:  hasher,
		lockout: lockout,
	}
}

// Register validates every field, rejects duplicate emails
// case-insensitively and persists a new active user with the default
// role. The returned view never contains the hash.
func (s *AuthService) Register(firstname, lastname, email, password string) (*entity.UserView, error) {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistration(firstname, lastname, email, password); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Id:           uuid.NewString(),
		Firstname:    firstname,
		Lastname:     lastname,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := s.repo.Insert(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}

	logger.Infof("user registered: %s", user.Email)
	view := entity.ToUserView(user)
	return &view, nil
}

// Login authenticates the credentials and issues a bearer token.
// Unknown email and wrong password produce the same failure, a locked
// account rejects even a correct password, and a deactivated account
// cannot log in at all.
func (s *AuthService) Login(email, password string) (*entity.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if s.lockout.IsLocked(user) {
		logger.Warningf("login rejected, account locked: %s", user.Email)
		return nil, ErrAccountLocked
	}
	if !user.IsActive {
		logger.Warningf("login rejected, account inactive: %s", user.Email)
		return nil, ErrAccountInactive
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		if err := s.lockout.RecordFailure(user.Id); err != nil {
			logger.Warning("recording failed login attempt:", err)
		}
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.lockout.RecordSuccess(user.Id, now); err != nil {
		return nil, err
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	logger.Infof("login succeeded: %s", user.Email)
	return &entity.LoginResult{Token: token, User: entity.ToUserView(user)}, nil
}

// Verify checks the token and re-fetches the user so revoked accounts
// fail even while their token is unexpired.
func (s *AuthService) Verify(token string) (*entity.UserView, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindById(claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	view := entity.ToUserView(user)
	return &view, nil
}

// ChangePassword re-verifies the current password before re-hashing.
// A wrong current password leaves the stored hash untouched.
// Outstanding tokens for the account stay valid; they carry no session
// generation to invalidate.
func (s *AuthService) ChangePassword(userId, current, newPassword string) error {
	user, err := s.repo.FindById(userId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !s.hasher.Verify(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if PasswordStrength(newPassword) < minPasswordScore {
		ve := newValidationErrors()
		ve.add("newPassword", "password is too weak")
		return ve
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	_, err = s.repo.Update(userId, map[string]any{"password_hash": hash})
	return err
}

// UpdateProfile mutates the name fields only and returns the fresh
// public view for the client's session snapshot.
func (s *AuthService) UpdateProfile(userId, firstname, lastname string) (*entity.UserView, error) {
	firstname = strings.TrimSpace(firstname)
	lastname = strings.TrimSpace(lastname)
	if err := validateProfile(firstname, lastname); err != nil {
		return nil, err
	}
	user, err := s.repo.Update(userId, map[string]any{
		"firstname": firstname,
		"lastname":  lastname,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	view := entity.ToUserView(user)
	return &view, nil
}
