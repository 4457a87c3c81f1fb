package service

import (
	"errors"
	"time"

	"github.com/secureauth/secureauth/config"
	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/util/common"
	"github.com/secureauth/secureauth/util/random"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by a bearer token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenService issues and validates HS256-signed bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds the service from configuration. Without a
// configured secret it generates a throwaway one in debug mode and
// refuses to start otherwise.
func NewTokenService() (*TokenService, error) {
	secret := config.GetJWTSecret()
	if secret == "" {
		if !config.IsDebug() {
			return nil, common.NewError("SA_JWT_SECRET must be set")
		}
		secret = random.Seq(32)
		logger.Warning("SA_JWT_SECRET not set, generated a throwaway secret; issued tokens will not survive a restart")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    config.GetTokenTTL(),
	}, nil
}

// Issue mints a token for the user: subject is the user id, email and
// role ride along, expiry is issuance plus the configured TTL.
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: user.Email,
		Role:  user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses and verifies a token. It fails closed: any parse
// error, signature mismatch, wrong algorithm or expiry yields the same
// ErrInvalidCredentials without detail.
func (s *TokenService) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		logger.Debug("token validation failed:", err)
		return nil, ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
