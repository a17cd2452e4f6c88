// Package session implements the self-contained, role-bearing session token.
// The token caches the user's role so most requests never touch the identity
// store; a stale token is re-read from the store at most once per refresh
// window.
package session

import (
	"errors"
	"time"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultRefreshWindow bounds identity-store reads to one per user per window.
const DefaultRefreshWindow = 5 * time.Minute

var (
	ErrInvalidToken = errors.New("invalid session token")
)

// Freshness is the refresh state of a token relative to the refresh window.
type Freshness int

const (
	Fresh Freshness = iota
	Stale
)

// Claims is the signed payload of a session token.
type Claims struct {
	UserID      string      `json:"uid"`
	Role        domain.Role `json:"role"`
	Email       string      `json:"email"`
	Name        string      `json:"name,omitempty"`
	Image       string      `json:"image,omitempty"`
	LandingPath string      `json:"landingPath"`
	RefreshedAt int64       `json:"refreshedAt"`
	jwt.RegisteredClaims
}

// State reports whether the token's cached role is still considered fresh.
func (c *Claims) State(now time.Time, window time.Duration) Freshness {
	if c.RefreshedAt == 0 {
		return Stale
	}
	if now.Sub(time.Unix(c.RefreshedAt, 0)) > window {
		return Stale
	}
	return Fresh
}

// View is the externally visible projection of a session token.
type View struct {
	ID          string      `json:"id"`
	Role        domain.Role `json:"role"`
	Email       string      `json:"email"`
	Name        string      `json:"name,omitempty"`
	Image       string      `json:"image,omitempty"`
	LandingPath string      `json:"landingPath"`
}

// Project copies the identity fields into a session view. The landing path
// is recomputed from the current role, never taken from the stored hint, so
// a role change shows up immediately even inside the refresh window.
func (c *Claims) Project() View {
	role := c.Role
	if !role.IsValid() {
		role = domain.RoleClient
	}
	return View{
		ID:          c.UserID,
		Role:        role,
		Email:       c.Email,
		Name:        c.Name,
		Image:       c.Image,
		LandingPath: role.LandingPath(),
	}
}

// Manager issues, parses, and refreshes session tokens.
type Manager struct {
	secret        []byte
	ttl           time.Duration
	refreshWindow time.Duration
	now           func() time.Time
}

func NewManager(secret string, ttl, refreshWindow time.Duration) *Manager {
	if refreshWindow <= 0 {
		refreshWindow = DefaultRefreshWindow
	}
	return &Manager{
		secret:        []byte(secret),
		ttl:           ttl,
		refreshWindow: refreshWindow,
		now:           time.Now,
	}
}

// RefreshWindow returns the configured freshness threshold.
func (m *Manager) RefreshWindow() time.Duration {
	return m.refreshWindow
}

// Issue creates a token for a freshly authenticated user.
func (m *Manager) Issue(user *domain.User) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:      user.ID.String(),
		Role:        user.Role,
		Email:       user.Email,
		Name:        user.Name,
		Image:       user.Image,
		LandingPath: user.Role.LandingPath(),
		RefreshedAt: now.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature and returns the claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Reissue stamps the claims with a store-confirmed role and signs a new
// token. The landing path and freshness marker follow the role.
func (m *Manager) Reissue(claims *Claims, role domain.Role) (*Claims, string, error) {
	now := m.now()
	next := *claims
	next.Role = role
	next.LandingPath = role.LandingPath()
	next.RefreshedAt = now.Unix()
	next.IssuedAt = jwt.NewNumericDate(now)
	next.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &next)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, "", err
	}
	return &next, signed, nil
}
