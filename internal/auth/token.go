package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

const (
	// AccessTTL bounds how long an issued session token stays valid.
	AccessTTL  = 30 * time.Minute
	RefreshTTL = 24 * time.Hour
)

// Claims carries the authenticated identity inside a token
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Pair bundles the access and refresh tokens issued at login
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Manager issues and verifies signed tokens
type Manager struct {
	secret []byte
}

// NewManager creates a token manager with the given signing secret
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// GeneratePair issues an access/refresh token pair for the user
func (m *Manager) GeneratePair(userID int64, username string) (*Pair, error) {
	now := time.Now()

	access, err := m.sign(userID, username, "access", now, AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(userID, username, "refresh", now, RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) sign(userID int64, username, subject string, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
		},
	})
	return token.SignedString(m.secret)
}

// ParseAccess verifies an access token and returns its claims
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, "access")
}

// Refresh verifies a refresh token and issues a fresh pair
func (m *Manager) Refresh(refreshToken string) (*Pair, error) {
	claims, err := m.parse(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	return m.GeneratePair(claims.UserID, claims.Username)
}

func (m *Manager) parse(tokenStr, subject string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	claims := token.Claims.(*Claims)
	if claims.Subject != subject {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
