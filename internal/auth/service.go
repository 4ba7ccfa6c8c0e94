package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"earlywrapped/internal/session"
	"earlywrapped/pkg/apperror"
	"earlywrapped/pkg/logger"
	"earlywrapped/pkg/oauth2"
)

const (
	defaultTokenType = "Bearer"

	successPath = "/auth/success"
	errorPath   = "/auth/error"
)

// ProfileFetcher reads the profile of the token's owner.
type ProfileFetcher interface {
	CurrentUser(ctx context.Context) (json.RawMessage, error)
}

// ProfileSource builds a ProfileFetcher bound to an access token.
type ProfileSource func(accessToken string) ProfileFetcher

// Outcome is a redirect plus the cookie changes that go with it.
type Outcome struct {
	RedirectURL string
	Mutations   []session.Mutation
}

type Service struct {
	provider    oauth2.Provider
	profiles    ProfileSource
	frontendURL string
	timeout     time.Duration
	logger      logger.Logger
	newState    func() (string, error)
}

func NewService(provider oauth2.Provider, profiles ProfileSource, frontendURL string, timeout time.Duration, log logger.Logger) *Service {
	return &Service{
		provider:    provider,
		profiles:    profiles,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		timeout:     timeout,
		logger:      log,
		newState:    oauth2.GenerateState,
	}
}

// Login starts the authorization code flow.
func (s *Service) Login() (*Outcome, error) {
	state, err := s.newState()
	if err != nil {
		s.logger.Error("failed to generate state", logger.Err(err))
		return nil, apperror.Upstream("Failed to initiate login", err)
	}

	return &Outcome{
		RedirectURL: s.provider.AuthURL(state),
		Mutations:   []session.Mutation{session.SetState(state)},
	}, nil
}

// Callback finishes the flow started by Login. The state cookie is consumed
// only on success.
func (s *Service) Callback(ctx context.Context, cookies session.Cookies, params CallbackParams) (*Outcome, error) {
	if params.Error != "" {
		s.logger.Warn("authorization denied", logger.Field{Key: "reason", Value: params.Error})
		return &Outcome{
			RedirectURL: s.frontendURL + errorPath + "?" + url.Values{"error": {params.Error}}.Encode(),
		}, nil
	}

	if params.Code == "" {
		return nil, apperror.Client("No authorization code received")
	}

	if err := oauth2.VerifyState(cookies.State, params.State); err != nil {
		s.logger.Warn("state verification failed", logger.Err(err))
		return nil, apperror.Client("Invalid state parameter")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tokens, err := s.provider.Exchange(ctx, params.Code)
	if errors.Is(err, oauth2.ErrNoAccessToken) {
		return nil, apperror.Client("Failed to get access token")
	}
	if err != nil {
		s.logger.Error("code exchange failed", logger.Err(err))
		return nil, apperror.Upstream("Authentication failed", err)
	}

	raw, err := s.profiles(tokens.AccessToken).CurrentUser(ctx)
	if err != nil {
		s.logger.Error("profile fetch after login failed", logger.Err(err))
		return nil, apperror.Upstream("Authentication failed", err)
	}
	profile, err := parseProfile(raw)
	if err != nil {
		s.logger.Error("invalid profile after login", logger.Err(err))
		return nil, apperror.Upstream("Authentication failed", err)
	}

	mutations := []session.Mutation{session.SetAccessToken(tokens.AccessToken, tokens.ExpiresIn)}
	if tokens.RefreshToken != "" {
		mutations = append(mutations, session.SetRefreshToken(tokens.RefreshToken))
	}
	mutations = append(mutations, session.SetUser(profile.ID), session.DeleteState())

	s.logger.Info("user authenticated", logger.Field{Key: "user_id", Value: profile.ID})

	return &Outcome{
		RedirectURL: s.frontendURL + successPath,
		Mutations:   mutations,
	}, nil
}

// Refresh trades the refresh token cookie for a new access token. The refresh
// cookie is only rewritten when Spotify rotates it.
func (s *Service) Refresh(ctx context.Context, cookies session.Cookies) (*TokenResponse, []session.Mutation, error) {
	if cookies.RefreshToken == "" {
		return nil, nil, apperror.Auth("No refresh token found")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tokens, err := s.provider.Refresh(ctx, cookies.RefreshToken)
	if errors.Is(err, oauth2.ErrNoAccessToken) {
		return nil, nil, apperror.Client("Failed to refresh token")
	}
	if err != nil {
		s.logger.Error("token refresh failed", logger.Err(err))
		return nil, nil, apperror.Upstream("Failed to refresh token", err)
	}

	mutations := []session.Mutation{session.SetAccessToken(tokens.AccessToken, tokens.ExpiresIn)}
	if tokens.RefreshToken != "" {
		mutations = append(mutations, session.SetRefreshToken(tokens.RefreshToken))
	}

	resp := &TokenResponse{
		AccessToken: tokens.AccessToken,
		TokenType:   tokens.TokenType,
		ExpiresIn:   tokens.ExpiresIn,
		Scope:       tokens.Scope,
	}
	if resp.TokenType == "" {
		resp.TokenType = defaultTokenType
	}
	if resp.ExpiresIn <= 0 {
		resp.ExpiresIn = session.DefaultAccessMaxAge
	}

	return resp, mutations, nil
}

// Logout clears every session cookie whether or not it was set.
func (s *Service) Logout() (*LogoutResponse, []session.Mutation) {
	return &LogoutResponse{Message: "Logged out successfully", Success: true}, session.ClearAll()
}

func (s *Service) Me(ctx context.Context, cookies session.Cookies) (*UserProfile, error) {
	if !cookies.Authenticated() {
		return nil, apperror.Auth("Not authenticated")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, err := s.profiles(cookies.AccessToken).CurrentUser(ctx)
	if err != nil {
		return nil, apperror.Upstream("Failed to fetch user profile", err)
	}
	profile, err := parseProfile(raw)
	if err != nil {
		s.logger.Error("invalid user profile", logger.Err(err))
		return nil, apperror.Upstream("Failed to fetch user profile", err)
	}

	return profile, nil
}

// Check only looks at cookie presence. The token itself is not validated.
func (s *Service) Check(cookies session.Cookies) *CheckResponse {
	if cookies.Authenticated() {
		return &CheckResponse{Authenticated: true, Message: "User is authenticated"}
	}
	return &CheckResponse{Authenticated: false, Message: "User is not authenticated"}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
