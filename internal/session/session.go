// Package session persists client-side state between runs: the token
// pair, the signed-in profile, and UI preferences. Everything lives in
// one JSON file under namespaced keys so adding a setting never needs a
// schema change.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arjunks/kharcha/internal/api"
)

const (
	keyAccessToken   = "auth.access_token"
	keyRefreshToken  = "auth.refresh_token"
	keyProfile       = "auth.profile"
	keyMonthlyLimit  = "budget.monthly_limit"
	keyDismissed     = "alerts.dismissed"
	keyUIPreferences = "ui.preferences"
)

// Store is a file-backed string-keyed JSON store.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the store at path, creating an empty one when the file
// does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string]json.RawMessage)}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	if err := json.Unmarshal(b, &s.data); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}

	return s, nil
}

// set marshals the value under key and flushes to disk. Callers must
// hold the lock.
func (s *Store) set(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding session key %s: %w", key, err)
	}

	s.data[key] = b

	return s.flush()
}

// get unmarshals the value under key into out; ok is false when the
// key is absent. Callers must hold the lock.
func (s *Store) get(key string, out any) (bool, error) {
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decoding session key %s: %w", key, err)
	}

	return true, nil
}

func (s *Store) flush() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}

	return nil
}

// AccessToken returns the stored access token, or "".
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tok string
	if ok, err := s.get(keyAccessToken, &tok); !ok || err != nil {
		return ""
	}

	return tok
}

// RefreshToken returns the stored refresh token, or "".
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tok string
	if ok, err := s.get(keyRefreshToken, &tok); !ok || err != nil {
		return ""
	}

	return tok
}

// SetTokens persists a freshly issued token pair.
func (s *Store) SetTokens(pair api.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(pair.AccessToken)
	if err != nil {
		return err
	}

	s.data[keyAccessToken] = b

	return s.set(keyRefreshToken, pair.RefreshToken)
}

// ClearTokens drops the token pair and the cached profile.
func (s *Store) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, keyAccessToken)
	delete(s.data, keyRefreshToken)
	delete(s.data, keyProfile)

	return s.flush()
}

// SetProfile caches the signed-in user so the UI can greet without a
// round trip.
func (s *Store) SetProfile(u api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.set(keyProfile, u)
}

// Profile returns the cached profile; ok is false when signed out.
func (s *Store) Profile() (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u api.User

	ok, err := s.get(keyProfile, &u)
	if err != nil {
		return api.User{}, false
	}

	return u, ok
}

// SetMonthlyLimit stores the whole-account monthly ceiling in paise.
func (s *Store) SetMonthlyLimit(paise int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.set(keyMonthlyLimit, paise)
}

// MonthlyLimit returns the stored ceiling, or fallback when unset.
func (s *Store) MonthlyLimit(fallback int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var paise int64
	if ok, err := s.get(keyMonthlyLimit, &paise); !ok || err != nil {
		return fallback
	}

	return paise
}

// DismissNotification records that the user dismissed a notification so
// it is not shown again.
func (s *Store) DismissNotification(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	if _, err := s.get(keyDismissed, &ids); err != nil {
		return err
	}

	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}

	return s.set(keyDismissed, append(ids, id))
}

// IsDismissed reports whether a notification was dismissed.
func (s *Store) IsDismissed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	if ok, err := s.get(keyDismissed, &ids); !ok || err != nil {
		return false
	}

	for _, existing := range ids {
		if existing == id {
			return true
		}
	}

	return false
}

// Preferences is the persisted slice of UI state.
type Preferences struct {
	DefaultView  string `json:"default_view,omitempty"`
	ShowPaise    bool   `json:"show_paise"`
	UpcomingDays int    `json:"upcoming_days,omitempty"`
}

func (s *Store) SetPreferences(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.set(keyUIPreferences, p)
}

func (s *Store) GetPreferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Preferences{ShowPaise: true, UpcomingDays: 7}
	if _, err := s.get(keyUIPreferences, &p); err != nil {
		return Preferences{ShowPaise: true, UpcomingDays: 7}
	}

	return p
}

// TokenExpiry reads the exp claim of a JWT without verifying the
// signature. The client only uses it to decide whether a stored session
// is worth presenting; the server always re-verifies.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry")
	}

	return exp.Time, nil
}

// HasLiveSession reports whether a non-expired access token is stored.
func (s *Store) HasLiveSession(now time.Time) bool {
	tok := s.AccessToken()
	if tok == "" {
		return false
	}

	exp, err := TokenExpiry(tok)
	if err != nil {
		return false
	}

	return exp.After(now)
}
