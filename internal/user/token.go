package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for expired, malformed or mistyped tokens.
var ErrInvalidToken = errors.New("invalid token")

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeReset   = "reset"
)

// TokenIssuer mints and verifies the HS256 token pairs the API hands
// out. Access tokens are short-lived; refresh tokens only ever buy a
// new pair.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// TokenPair is one issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime, seconds
}

func (ti *TokenIssuer) Issue(userID uuid.UUID, now time.Time) (TokenPair, error) {
	access, err := ti.sign(userID, tokenTypeAccess, now, ti.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("signing access token: %w", err)
	}

	refresh, err := ti.sign(userID, tokenTypeRefresh, now, ti.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("signing refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(ti.accessTTL.Seconds()),
	}, nil
}

func (ti *TokenIssuer) sign(userID uuid.UUID, typ string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"typ": typ,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// IssueReset mints a password reset token. Reset tokens share the
// access TTL; they are single-purpose and never grant API access.
func (ti *TokenIssuer) IssueReset(userID uuid.UUID, now time.Time) (string, error) {
	return ti.sign(userID, tokenTypeReset, now, ti.accessTTL)
}

// VerifyReset validates a password reset token and returns its subject.
func (ti *TokenIssuer) VerifyReset(token string) (uuid.UUID, error) {
	return ti.verify(token, tokenTypeReset)
}

// VerifyAccess validates an access token and returns its subject.
func (ti *TokenIssuer) VerifyAccess(token string) (uuid.UUID, error) {
	return ti.verify(token, tokenTypeAccess)
}

// VerifyRefresh validates a refresh token and returns its subject.
func (ti *TokenIssuer) VerifyRefresh(token string) (uuid.UUID, error) {
	return ti.verify(token, tokenTypeRefresh)
}

func (ti *TokenIssuer) verify(token, wantType string) (uuid.UUID, error) {
	claims := jwt.MapClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return ti.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	if typ, _ := claims["typ"].(string); typ != wantType {
		return uuid.Nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}
