package identity

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// FirebaseProvider implements Provider with the Firebase Admin Auth client.
type FirebaseProvider struct {
	client *auth.Client
	logger *zap.Logger
}

// NewFirebaseProvider panics when client is nil; routes cannot be secured without it.
func NewFirebaseProvider(client *auth.Client, logger *zap.Logger) *FirebaseProvider {
	if client == nil {
		panic("Firebase Auth client is not initialized for identity provider")
	}
	return &FirebaseProvider{client: client, logger: logger}
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*Principal, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		p.logger.Debug("ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return PrincipalFromClaims(token.UID, token.Claims), nil
}

func (p *FirebaseProvider) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	cookie, err := p.client.SessionCookie(ctx, idToken, expiresIn)
	if err != nil {
		if auth.IsIDTokenInvalid(err) || auth.IsIDTokenExpired(err) || auth.IsIDTokenRevoked(err) {
			return "", fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		}
		return "", fmt.Errorf("creating session cookie: %w", err)
	}
	return cookie, nil
}

func (p *FirebaseProvider) VerifySessionCookie(ctx context.Context, cookie string) (*Principal, error) {
	token, err := p.client.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		p.logger.Debug("Session cookie verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return PrincipalFromClaims(token.UID, token.Claims), nil
}

func (p *FirebaseProvider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("revoking refresh tokens for %s: %w", uid, err)
	}
	return nil
}

func (p *FirebaseProvider) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if err := p.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return fmt.Errorf("setting custom claims for %s: %w", uid, err)
	}
	return nil
}
