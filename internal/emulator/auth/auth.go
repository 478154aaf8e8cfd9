// Package auth implements account registration and JWT session management
// for the emulated backend.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/braindumpster/braindumpster-go/internal/common"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Claims carries the standard registered claims plus the user identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

type user struct {
	id           string
	email        string
	displayName  string
	passwordHash string
}

// Manager owns users and token issuance. Access tokens are HS256 JWTs with a
// short TTL; refresh tokens are opaque, stored server-side and rotated on
// every refresh.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	mu      sync.Mutex
	byEmail map[string]*user
	refresh map[string]refreshRecord // token -> owner
}

type refreshRecord struct {
	userID    string
	expiresAt time.Time
}

func NewManager(secret []byte, accessTTL, refreshTTL time.Duration) *Manager {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &Manager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		byEmail:    make(map[string]*user),
		refresh:    make(map[string]refreshRecord),
	}
}

func (m *Manager) Register(email, password, displayName string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[email]; exists {
		return ErrEmailTaken
	}
	m.byEmail[email] = &user{
		id:           uuid.NewString(),
		email:        email,
		displayName:  displayName,
		passwordHash: string(hash),
	}
	return nil
}

// Login verifies the credentials and issues a token pair.
func (m *Manager) Login(email, password string) (userID, access, refresh string, err error) {
	m.mu.Lock()
	u, ok := m.byEmail[email]
	m.mu.Unlock()
	if !ok {
		return "", "", "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) != nil {
		return "", "", "", ErrInvalidCredentials
	}

	access, err = m.generateAccess(u.id)
	if err != nil {
		return "", "", "", err
	}
	refresh = m.issueRefresh(u.id)
	return u.id, access, refresh, nil
}

// Refresh rotates the token pair. The presented refresh token is invalidated
// whether or not it was still alive.
func (m *Manager) Refresh(token string) (access, refresh string, err error) {
	m.mu.Lock()
	rec, ok := m.refresh[token]
	delete(m.refresh, token)
	m.mu.Unlock()

	if !ok {
		return "", "", common.ErrInvalidToken
	}
	if time.Now().After(rec.expiresAt) {
		return "", "", common.ErrRefreshTokenExpired
	}

	access, err = m.generateAccess(rec.userID)
	if err != nil {
		return "", "", err
	}
	return access, m.issueRefresh(rec.userID), nil
}

// VerifyAccess validates an access token and returns its user. Expired
// tokens map to common.ErrTokenExpired so handlers can signal a refreshable
// failure.
func (m *Manager) VerifyAccess(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}

func (m *Manager) generateAccess(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.accessTTL)),
		},
		UserID: userID,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) issueRefresh(userID string) string {
	token := uuid.NewString()
	m.mu.Lock()
	m.refresh[token] = refreshRecord{userID: userID, expiresAt: time.Now().Add(m.refreshTTL)}
	m.mu.Unlock()
	return token
}
