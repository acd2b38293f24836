package session_test

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/session"
)

func openStore(t *testing.T) (*session.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state", "session.json")

	s, err := session.Open(path)
	require.NoError(t, err)

	return s, path
}

func TestStore_TokensSurviveReopen(t *testing.T) {
	s, path := openStore(t)

	require.NoError(t, s.SetTokens(api.TokenPair{AccessToken: "tok-1", RefreshToken: "refresh-1"}))
	require.NoError(t, s.SetMonthlyLimit(5000000))

	reopened, err := session.Open(path)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", reopened.AccessToken())
	assert.Equal(t, "refresh-1", reopened.RefreshToken())
	assert.Equal(t, int64(5000000), reopened.MonthlyLimit(0))
}

func TestStore_ClearTokensDropsProfileToo(t *testing.T) {
	s, _ := openStore(t)

	require.NoError(t, s.SetTokens(api.TokenPair{AccessToken: "tok", RefreshToken: "refresh"}))
	require.NoError(t, s.SetProfile(api.User{ID: "u-1", Email: "arjun@example.com"}))

	require.NoError(t, s.ClearTokens())

	assert.Empty(t, s.AccessToken())

	_, ok := s.Profile()
	assert.False(t, ok)
}

func TestStore_MonthlyLimitFallback(t *testing.T) {
	s, _ := openStore(t)
	assert.Equal(t, int64(5000000), s.MonthlyLimit(5000000))
}

func TestStore_DismissedNotifications(t *testing.T) {
	s, _ := openStore(t)

	assert.False(t, s.IsDismissed("alert-1"))

	require.NoError(t, s.DismissNotification("alert-1"))
	require.NoError(t, s.DismissNotification("alert-1")) // idempotent

	assert.True(t, s.IsDismissed("alert-1"))
	assert.False(t, s.IsDismissed("alert-2"))
}

// fakeJWT builds an unsigned token with the given expiry; expiry
// peeking must not require a valid signature.
func fakeJWT(t *testing.T, exp time.Time) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	claims, err := json.Marshal(map[string]any{"exp": exp.Unix(), "sub": "u-1"})
	require.NoError(t, err)

	payload := base64.RawURLEncoding.EncodeToString(claims)

	return fmt.Sprintf("%s.%s.%s", header, payload, base64.RawURLEncoding.EncodeToString([]byte("sig")))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, err := session.TokenExpiry(fakeJWT(t, exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))

	_, err = session.TokenExpiry("not-a-token")
	assert.Error(t, err)
}

func TestStore_HasLiveSession(t *testing.T) {
	s, _ := openStore(t)
	now := time.Now()

	assert.False(t, s.HasLiveSession(now), "no token stored")

	require.NoError(t, s.SetTokens(api.TokenPair{AccessToken: fakeJWT(t, now.Add(-time.Minute))}))
	assert.False(t, s.HasLiveSession(now), "expired token")

	require.NoError(t, s.SetTokens(api.TokenPair{AccessToken: fakeJWT(t, now.Add(time.Hour))}))
	assert.True(t, s.HasLiveSession(now))
}
