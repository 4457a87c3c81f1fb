package client

import (
	"errors"
	"sync"
	"time"

	"github.com/secureauth/secureauth/client/session"
	"github.com/secureauth/secureauth/config"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/web/entity"
)

// ErrBusy is returned when a login or registration is already in
// flight. The caller is expected to disable its trigger until the
// first call resolves.
var ErrBusy = errors.New("another authentication request is in flight")

// Client is the dual-mode façade: operations go to the server first
// and are replayed against the local backend only on transport
// failures. Authenticated rejections (401/403/423) always propagate.
type Client struct {
	api      *API
	local    *Local
	sessions *session.Store

	mu      sync.Mutex
	inLogin bool
	gen     int // bumped on logout so late responses are discarded
	offline bool
}

// New builds a client against the given base URL. onExpire fires when
// the inactivity timeout logs the session out.
func New(baseURL string, onExpire func()) *Client {
	c := &Client{
		api:   NewAPI(baseURL),
		local: NewLocal(config.GetTokenTTL()),
	}
	c.sessions = session.NewStore(func() {
		logger.Info("session expired due to inactivity")
		c.mu.Lock()
		c.gen++
		c.offline = false
		c.mu.Unlock()
		c.api.SetToken("")
		if onExpire != nil {
			onExpire()
		}
	})
	return c
}

// Offline reports whether the last authentication ran against the
// local fallback backend.
func (c *Client) Offline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offline
}

func (c *Client) beginAuth() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inLogin {
		return 0, ErrBusy
	}
	c.inLogin = true
	return c.gen, nil
}

func (c *Client) endAuth() {
	c.mu.Lock()
	c.inLogin = false
	c.mu.Unlock()
}

// stale reports whether the session was cleared while the call was in
// flight; late results must be discarded, not resurrected.
func (c *Client) stale(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen != gen
}

// Login authenticates and persists the session under the requested
// persistence. On a transport failure the same login runs against the
// local demo store.
func (c *Client) Login(email, password string, rememberMe bool) (*session.Session, error) {
	gen, err := c.beginAuth()
	if err != nil {
		return nil, err
	}
	defer c.endAuth()

	offline := false
	result, err := c.api.Login(email, password)
	if err != nil {
		if !errors.Is(err, ErrTransport) {
			return nil, err
		}
		logger.Warning("server unreachable, using offline mode:", err)
		result, err = c.local.Auth.Login(email, password)
		if err != nil {
			return nil, err
		}
		offline = true
	}

	if c.stale(gen) {
		logger.Debug("discarding login result: session cleared while in flight")
		return nil, errors.New("login cancelled")
	}

	sess := &session.Session{
		User:       result.User,
		Token:      result.Token,
		LoginTime:  time.Now(),
		RememberMe: rememberMe,
	}
	if err := c.sessions.Save(sess); err != nil {
		return nil, err
	}
	c.api.SetToken(result.Token)
	c.mu.Lock()
	c.offline = offline
	c.mu.Unlock()
	return sess, nil
}

// Register creates an account. It does not log in; the original app
// follows registration with an explicit login.
func (c *Client) Register(firstname, lastname, email, password string) (*entity.UserView, error) {
	if _, err := c.beginAuth(); err != nil {
		return nil, err
	}
	defer c.endAuth()

	user, err := c.api.Register(firstname, lastname, email, password)
	if err != nil {
		if !errors.Is(err, ErrTransport) {
			return nil, err
		}
		logger.Warning("server unreachable, registering in offline mode:", err)
		user, err = c.local.Auth.Register(firstname, lastname, email, password)
		if err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Resume restores a persisted session if one exists and is still
// valid, and re-installs its token.
func (c *Client) Resume() (*session.Session, error) {
	sess, err := c.sessions.Load()
	if err != nil || sess == nil {
		return nil, err
	}
	c.api.SetToken(sess.Token)
	return sess, nil
}

// Refresh resets the inactivity countdown. Call on user activity; a
// no-op when no session exists.
func (c *Client) Refresh() error {
	return c.sessions.Touch()
}

// Logout clears the session everywhere. Idempotent; the server call is
// best-effort since tokens are stateless.
func (c *Client) Logout() {
	c.mu.Lock()
	c.gen++
	c.offline = false
	c.mu.Unlock()

	if err := c.api.Logout(); err != nil && !errors.Is(err, ErrTransport) {
		logger.Debug("server logout:", err)
	}
	c.sessions.Clear()
}

// UpdateProfile mutates the name fields and refreshes the session's
// user snapshot.
func (c *Client) UpdateProfile(firstname, lastname string) (*entity.UserView, error) {
	sess, err := c.sessions.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New("not logged in")
	}

	user, err := c.api.UpdateProfile(firstname, lastname)
	if err != nil {
		if !errors.Is(err, ErrTransport) {
			return nil, err
		}
		user, err = c.local.Auth.UpdateProfile(sess.User.Id, firstname, lastname)
		if err != nil {
			return nil, err
		}
	}

	sess.User = *user
	if err := c.sessions.Save(sess); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword rotates the credential. The session record and token
// stay valid; other sessions are not invalidated.
func (c *Client) ChangePassword(current, newPassword string) error {
	err := c.api.ChangePassword(current, newPassword)
	if err == nil || !errors.Is(err, ErrTransport) {
		return err
	}
	sess, loadErr := c.sessions.Load()
	if loadErr != nil || sess == nil {
		return err
	}
	return c.local.Auth.ChangePassword(sess.User.Id, current, newPassword)
}
