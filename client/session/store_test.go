package session

import (
	"os"
	"testing"
	"time"

	"github.com/secureauth/secureauth/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, onExpire func()) *Store {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TMPDIR", t.TempDir())
	store := NewStore(onExpire)
	t.Cleanup(store.Clear)
	return store
}

func sampleSession(rememberMe bool) *Session {
	return &Session{
		User: entity.UserView{
			Id:        "u1",
			Firstname: "Jane",
			Lastname:  "Smith",
			Email:     "jane@example.com",
			Role:      "user",
			IsActive:  true,
		},
		Token:      "token-1",
		LoginTime:  time.Now(),
		RememberMe: rememberMe,
	}
}

func TestSaveLoadRememberMe(t *testing.T) {
	store := setupStore(t, nil)

	require.NoError(t, store.Save(sampleSession(true)))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.User.Id)
	assert.Equal(t, "token-1", got.Token)
	assert.True(t, got.RememberMe)

	_, err = os.Stat(store.persistentPath())
	assert.NoError(t, err)
}

func TestSaveReplacesOtherScope(t *testing.T) {
	store := setupStore(t, nil)

	require.NoError(t, store.Save(sampleSession(false)))
	_, err := os.Stat(store.ephemeralPath())
	require.NoError(t, err)

	require.NoError(t, store.Save(sampleSession(true)))
	_, err = os.Stat(store.ephemeralPath())
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.persistentPath())
	assert.NoError(t, err)
}

func TestLoadPurgesExpiredRecord(t *testing.T) {
	t.Setenv("SA_SESSION_MAX_AGE", "1h")
	store := setupStore(t, nil)

	sess := sampleSession(true)
	sess.LoginTime = time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.Save(sess))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = os.Stat(store.persistentPath())
	assert.True(t, os.IsNotExist(err))
}

func TestLoadPurgesCorruptRecord(t *testing.T) {
	store := setupStore(t, nil)

	require.NoError(t, os.WriteFile(store.ephemeralPath(), []byte("{not json"), 0o600))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = os.Stat(store.ephemeralPath())
	assert.True(t, os.IsNotExist(err))
}

func TestInactivityTimerClearsEphemeralSession(t *testing.T) {
	t.Setenv("SA_SESSION_IDLE_TIMEOUT", "100ms")
	expired := make(chan struct{})
	store := setupStore(t, func() { close(expired) })

	require.NoError(t, store.Save(sampleSession(false)))

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("inactivity timer did not fire")
	}

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRememberMeSessionHasNoInactivityTimer(t *testing.T) {
	t.Setenv("SA_SESSION_IDLE_TIMEOUT", "100ms")
	expired := make(chan struct{}, 1)
	store := setupStore(t, func() { expired <- struct{}{} })

	require.NoError(t, store.Save(sampleSession(true)))

	select {
	case <-expired:
		t.Fatal("remember-me session must not expire on inactivity")
	case <-time.After(300 * time.Millisecond):
	}

	got, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestTouchExtendsEphemeralSession(t *testing.T) {
	t.Setenv("SA_SESSION_IDLE_TIMEOUT", "500ms")
	store := setupStore(t, nil)

	sess := sampleSession(false)
	sess.LoginTime = time.Now().Add(-400 * time.Millisecond)
	require.NoError(t, store.Save(sess))

	require.NoError(t, store.Touch())

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.WithinDuration(t, time.Now(), got.LoginTime, time.Second)
}

func TestClearIsIdempotent(t *testing.T) {
	store := setupStore(t, nil)

	require.NoError(t, store.Save(sampleSession(false)))
	store.Clear()
	store.Clear()

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}
