package services

import (
	"class-timetable/models"
	"context"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/idtoken"
)

// AuthConfig holds the Google OAuth client settings
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuth2 builds the code-flow configuration. Drive read access is requested so
// timetables can be imported straight from the user's Drive.
func (c AuthConfig) OAuth2() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			drive.DriveReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

// TokenValidator verifies a Google ID token for the given audience
type TokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// AuthService handles authentication business logic
type AuthService struct {
	repo          AuthRepository
	sessionStore  SessionStore
	cfg           AuthConfig
	validateToken TokenValidator
}

// NewAuthService creates a new auth service
func NewAuthService(repo AuthRepository, sessionStore SessionStore, cfg AuthConfig) *AuthService {
	return &AuthService{
		repo:          repo,
		sessionStore:  sessionStore,
		cfg:           cfg,
		validateToken: idtoken.Validate,
	}
}

// SetTokenValidator replaces the ID token verifier
func (as *AuthService) SetTokenValidator(v TokenValidator) {
	as.validateToken = v
}

// AuthCodeURL returns the Google consent URL for the redirect login. Offline access
// is requested so Drive imports keep working after the access token expires.
func (as *AuthService) AuthCodeURL(state string) string {
	return as.cfg.OAuth2().AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// LoginWithIDToken handles login via a Google Sign-In ID token
func (as *AuthService) LoginWithIDToken(ctx context.Context, idToken string) (*models.Session, error) {
	user, err := as.userFromIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	if err := as.repo.UpsertUser(user); err != nil {
		return nil, err
	}

	// No OAuth tokens: Drive import needs the code flow
	return as.sessionStore.Create(user, "", "", time.Time{})
}

// LoginWithCode exchanges an OAuth authorization code and starts a session
func (as *AuthService) LoginWithCode(ctx context.Context, code string) (*models.Session, error) {
	token, err := as.cfg.OAuth2().Exchange(ctx, code, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, ErrInvalidAuthCode
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, ErrInvalidToken
	}

	user, err := as.userFromIDToken(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	if err := as.repo.UpsertUser(user); err != nil {
		return nil, err
	}

	return as.sessionStore.Create(user, token.AccessToken, token.RefreshToken, token.Expiry)
}

func (as *AuthService) userFromIDToken(ctx context.Context, idToken string) (*models.User, error) {
	payload, err := as.validateToken(ctx, idToken, as.cfg.ClientID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	if payload.Subject == "" || email == "" {
		return nil, ErrInvalidUserInfo
	}

	now := time.Now()
	return &models.User{
		ID:          payload.Subject,
		GoogleID:    payload.Subject,
		Email:       email,
		Name:        name,
		Picture:     picture,
		CreatedAt:   now,
		LastLoginAt: now,
	}, nil
}

// Logout handles user logout
func (as *AuthService) Logout(sessionID string) error {
	return as.sessionStore.Delete(sessionID)
}

// GetSessionInfo returns current session information
func (as *AuthService) GetSessionInfo(sessionID string) (*models.Session, error) {
	sess, err := as.sessionStore.Get(sessionID)
	if err != nil || sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Token returns the session's OAuth token, refreshing it when it expires within
// five minutes. Returns nil when the session never granted Drive access.
func (as *AuthService) Token(ctx context.Context, sess *models.Session) (*oauth2.Token, error) {
	if sess == nil || sess.AccessToken == "" {
		return nil, nil
	}

	current := &oauth2.Token{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		Expiry:       sess.TokenExpiry,
	}
	if time.Until(sess.TokenExpiry) > 5*time.Minute {
		return current, nil
	}

	if sess.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	// A past expiry forces the token source to refresh
	current.Expiry = time.Unix(1, 0)
	newToken, err := as.cfg.OAuth2().TokenSource(ctx, current).Token()
	if err != nil {
		return nil, ErrTokenRefreshFailed
	}

	if err := as.sessionStore.UpdateUserToken(sess.UserID, newToken.AccessToken, newToken.RefreshToken, newToken.Expiry); err != nil {
		slog.Warn("failed to persist refreshed token", "user_id", sess.UserID, "error", err)
	}

	sess.AccessToken = newToken.AccessToken
	if newToken.RefreshToken != "" {
		sess.RefreshToken = newToken.RefreshToken
	}
	sess.TokenExpiry = newToken.Expiry

	return newToken, nil
}
