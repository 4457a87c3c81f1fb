// Package session persists the client-held session record and enforces
// its expiry policy. A remember-me session lives in the user config
// directory and survives restarts for up to the configured maximum age;
// an ephemeral session lives in the OS temp directory and expires after
// the inactivity timeout.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/secureauth/secureauth/config"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/web/entity"
)

const sessionFileName = "secureauth_session.json"

// Session is the client-held proof of authentication. User is a
// snapshot taken at login; it goes stale until the next login or
// explicit profile sync.
type Session struct {
	User       entity.UserView `json:"user"`
	Token      string          `json:"token"`
	LoginTime  time.Time       `json:"loginTime"`
	RememberMe bool            `json:"rememberMe"`
}

// Store reads and writes the session record across the two storage
// scopes and runs the inactivity timer. All methods are safe for
// concurrent use; the timer firing while another operation is in
// flight is expected.
type Store struct {
	mu sync.Mutex

	persistentDir string
	ephemeralDir  string

	maxAge      time.Duration
	idleTimeout time.Duration

	idleTimer *time.Timer
	onExpire  func()
}

// NewStore builds a store with scopes and timeouts from configuration.
// onExpire is invoked from the timer goroutine when the inactivity
// timeout elapses; it may be nil.
func NewStore(onExpire func()) *Store {
	persistentDir, err := os.UserConfigDir()
	if err != nil {
		persistentDir = os.TempDir()
	}
	return &Store{
		persistentDir: filepath.Join(persistentDir, config.GetName()),
		ephemeralDir:  os.TempDir(),
		maxAge:        config.GetSessionMaxAge(),
		idleTimeout:   config.GetSessionIdleTimeout(),
		onExpire:      onExpire,
	}
}

func (s *Store) persistentPath() string {
	return filepath.Join(s.persistentDir, sessionFileName)
}

func (s *Store) ephemeralPath() string {
	return filepath.Join(s.ephemeralDir, sessionFileName)
}

// Save writes the session to the scope matching its persistence and
// clears the other scope, so at most one record exists. Saving starts
// the inactivity timer for ephemeral sessions.
func (s *Store) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	path := s.ephemeralPath()
	other := s.persistentPath()
	if sess.RememberMe {
		path = s.persistentPath()
		other = s.ephemeralPath()
		if err := os.MkdirAll(s.persistentDir, 0o700); err != nil {
			return err
		}
	}
	_ = os.Remove(other)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}

	s.resetTimerLocked(sess.RememberMe)
	return nil
}

// Load returns the stored session if one exists and is still inside
// its maximum age. Expired records are purged and reported as absent.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.persistentPath(), s.ephemeralPath()} {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		sess := &Session{}
		if err := json.Unmarshal(data, sess); err != nil {
			logger.Warning("discarding unreadable session record:", err)
			_ = os.Remove(path)
			continue
		}

		maxAge := s.idleTimeout
		if sess.RememberMe {
			maxAge = s.maxAge
		}
		if time.Since(sess.LoginTime) >= maxAge {
			_ = os.Remove(path)
			continue
		}

		s.resetTimerLocked(sess.RememberMe)
		return sess, nil
	}
	return nil, nil
}

// Touch restamps the session's login time and resets the inactivity
// countdown. Called on user activity.
func (s *Store) Touch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.persistentPath(), s.ephemeralPath()} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		sess := &Session{}
		if err := json.Unmarshal(data, sess); err != nil {
			continue
		}
		sess.LoginTime = time.Now()
		out, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, out, 0o600); err != nil {
			return err
		}
		s.resetTimerLocked(sess.RememberMe)
		return nil
	}
	return nil
}

// Clear removes the record from both scopes and cancels any pending
// inactivity timer. Clearing an already-clear store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = os.Remove(s.persistentPath())
	_ = os.Remove(s.ephemeralPath())
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
}

// resetTimerLocked restarts the inactivity countdown. Remember-me
// sessions do not expire on inactivity.
func (s *Store) resetTimerLocked(rememberMe bool) {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
	if rememberMe {
		return
	}
	s.idleTimer = time.AfterFunc(s.idleTimeout, func() {
		s.Clear()
		if s.onExpire != nil {
			s.onExpire()
		}
	})
}
