package client

import (
	"encoding/base64"
	"time"

	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/database/repository"
	"github.com/secureauth/secureauth/util/crypto"
	"github.com/secureauth/secureauth/web/service"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// insecureHasher is the offline credential transform. It exists so the
// fallback store never needs bcrypt's cost on every demo login; it must
// never hash anything that leaves the local process.
type insecureHasher struct{}

func (insecureHasher) Hash(plain string) (string, error) {
	return crypto.InsecureDigest(plain), nil
}

func (insecureHasher) Verify(digest, plain string) bool {
	return crypto.CheckInsecureDigest(digest, plain)
}

// plainTokenCodec encodes claims as unsigned base64 JSON, matching the
// original offline mode. These tokens are NOT tamper-evident and are
// only ever validated by the process that issued them.
type plainTokenCodec struct {
	ttl time.Duration
}

type plainToken struct {
	Id       string    `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IssuedAt time.Time `json:"iat"`
}

func (c plainTokenCodec) Issue(user *model.User) (string, error) {
	payload, err := json.Marshal(plainToken{
		Id:       user.Id,
		Email:    user.Email,
		Role:     user.Role,
		IssuedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

func (c plainTokenCodec) Validate(token string) (*service.Claims, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, service.ErrInvalidCredentials
	}
	var pt plainToken
	if err := json.Unmarshal(data, &pt); err != nil {
		return nil, service.ErrInvalidCredentials
	}
	if time.Since(pt.IssuedAt) >= c.ttl {
		return nil, service.ErrInvalidCredentials
	}
	return &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  pt.Id,
			IssuedAt: jwt.NewNumericDate(pt.IssuedAt),
		},
		Email: pt.Email,
		Role:  pt.Role,
	}, nil
}

// Local is the offline backend: the full authentication core running
// over the in-process cache repository with demo accounts seeded, the
// way the original app degraded to browser storage.
type Local struct {
	Auth  *service.AuthService
	Admin *service.UserAdminService
	repo  *repository.CacheUserRepository
}

// NewLocal builds the offline backend with the well-known demo
// accounts.
func NewLocal(ttl time.Duration) *Local {
	repo := repository.NewCacheUserRepository()
	repo.Seed(demoUsers())

	hasher := insecureHasher{}
	tokens := plainTokenCodec{ttl: ttl}
	lockout := service.NewLockoutPolicy(repo)
	return &Local{
		Auth:  service.NewAuthService(repo, tokens, hasher, lockout),
		Admin: service.NewUserAdminService(repo),
		repo:  repo,
	}
}

func demoUsers() []model.User {
	now := time.Now()
	seed := []struct {
		firstname, lastname, email, password, role string
	}{
		{"Admin", "User", "admin@example.com", "admin123", model.RoleAdmin},
		{"Jane", "Smith", "user@example.com", "user123", model.RoleUser},
		{"Moderator", "User", "moderator@example.com", "mod123", model.RoleModerator},
	}
	users := make([]model.User, 0, len(seed))
	for _, s := range seed {
		users = append(users, model.User{
			Id:           uuid.NewString(),
			Firstname:    s.firstname,
			Lastname:     s.lastname,
			Email:        s.email,
			PasswordHash: crypto.InsecureDigest(s.password),
			Role:         s.role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return users
}
