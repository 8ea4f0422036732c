package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StaticProvider is an in-process Provider used with the memory store driver.
// ID tokens must be registered up front; session cookies are random opaque values.
type StaticProvider struct {
	mu       sync.Mutex
	tokens   map[string]Principal
	sessions map[string]staticSession
	claims   map[string]map[string]interface{}
	// ClaimsErr, when set, is returned by SetCustomClaims.
	ClaimsErr error
}

type staticSession struct {
	uid       string
	expiresAt time.Time
}

// NewStaticProvider returns an empty StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		tokens:   make(map[string]Principal),
		sessions: make(map[string]staticSession),
		claims:   make(map[string]map[string]interface{}),
	}
}

// Register makes idToken verify as p.
func (s *StaticProvider) Register(idToken string, p Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[idToken] = p
}

func (s *StaticProvider) VerifyIDToken(_ context.Context, idToken string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.tokens[idToken]
	if !ok {
		return nil, ErrInvalidCredential
	}
	return s.withClaims(p), nil
}

func (s *StaticProvider) CreateSessionCookie(_ context.Context, idToken string, expiresIn time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.tokens[idToken]
	if !ok {
		return "", ErrInvalidCredential
	}
	cookie := "static-session-" + uuid.NewString()
	s.sessions[cookie] = staticSession{uid: p.UID, expiresAt: time.Now().Add(expiresIn)}
	return cookie, nil
}

func (s *StaticProvider) VerifySessionCookie(_ context.Context, cookie string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[cookie]
	if !ok || time.Now().After(session.expiresAt) {
		return nil, ErrInvalidCredential
	}
	for _, p := range s.tokens {
		if p.UID == session.uid {
			return s.withClaims(p), nil
		}
	}
	return nil, ErrInvalidCredential
}

// RevokeRefreshTokens drops every session of uid.
func (s *StaticProvider) RevokeRefreshTokens(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for cookie, session := range s.sessions {
		if session.uid == uid {
			delete(s.sessions, cookie)
		}
	}
	return nil
}

func (s *StaticProvider) SetCustomClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClaimsErr != nil {
		return fmt.Errorf("setting custom claims for %s: %w", uid, s.ClaimsErr)
	}
	s.claims[uid] = claims
	return nil
}

// withClaims overlays claims set through SetCustomClaims. Caller holds mu.
func (s *StaticProvider) withClaims(p Principal) *Principal {
	merged := make(map[string]interface{}, len(p.Claims))
	for k, v := range p.Claims {
		merged[k] = v
	}
	for k, v := range s.claims[p.UID] {
		merged[k] = v
	}
	if p.Email != "" {
		merged["email"] = p.Email
	}
	if p.Name != "" {
		merged["name"] = p.Name
	}
	out := PrincipalFromClaims(p.UID, merged)
	if _, ok := merged["role"]; !ok && p.Role != "" {
		out.Role = p.Role
	}
	if _, ok := merged["admin"]; !ok {
		out.Admin = p.Admin
	}
	return out
}
