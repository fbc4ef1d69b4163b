package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role is the capability a viewer holds for one tournament. Organizers run
// the tournament, competitors submit results, observers only watch.
type Role string

const (
	RoleOrganizer  Role = "organizer"
	RoleCompetitor Role = "competitor"
	RoleObserver   Role = "observer"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOrganizer, RoleCompetitor, RoleObserver:
		return Role(s), true
	}
	return "", false
}

// Capability binds a role to a single tournament id. It is carried as a
// signed token so the coordinator can check it before accepting a mutation,
// instead of trusting a bare role string from the client.
type Capability struct {
	TournamentID string
	Role         Role
}

// CanMutate reports whether the capability allows replacing the snapshot of
// the given tournament. Observers are read-only; a capability never reaches
// across tournaments.
func (c *Capability) CanMutate(tournamentID string) bool {
	if c == nil || c.TournamentID != tournamentID {
		return false
	}
	return c.Role == RoleOrganizer || c.Role == RoleCompetitor
}

// CanAdminister reports whether the capability allows organizer-only
// operations (creating the canonical snapshot, regenerating the bracket).
func (c *Capability) CanAdminister(tournamentID string) bool {
	return c != nil && c.TournamentID == tournamentID && c.Role == RoleOrganizer
}

var ErrInvalidToken = errors.New("invalid capability token")

// Manager issues and verifies HS256 capability tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

func (m *Manager) Issue(cap Capability) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"tid":  cap.TournamentID,
		"role": string(cap.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Verify(tokenString string) (*Capability, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	tid, _ := claims["tid"].(string)
	roleStr, _ := claims["role"].(string)
	role, ok := ParseRole(roleStr)
	if tid == "" || !ok {
		return nil, ErrInvalidToken
	}
	return &Capability{TournamentID: tid, Role: role}, nil
}
