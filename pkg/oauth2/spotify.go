package oauth2

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// SpotifyConfig holds the registered application's credentials.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// AccountsURL is the accounts service root, e.g. https://accounts.spotify.com
	AccountsURL string
}

// SpotifyProvider implements Provider against the Spotify accounts service.
type SpotifyProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func NewSpotifyProvider(cfg SpotifyConfig, httpClient *http.Client) *SpotifyProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &SpotifyProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AccountsURL + "/authorize",
				TokenURL:  cfg.AccountsURL + "/api/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: httpClient,
	}
}

// AuthURL always asks Spotify to show the consent dialog so users can
// switch accounts.
func (p *SpotifyProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

func (p *SpotifyProvider) Exchange(ctx context.Context, code string) (*TokenSet, error) {
	tok, err := p.config.Exchange(p.withClient(ctx), code)
	if missingAccessToken(err) {
		return nil, ErrNoAccessToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, ErrNoAccessToken
	}

	return toTokenSet(tok), nil
}

func (p *SpotifyProvider) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	tokenSource := p.config.TokenSource(p.withClient(ctx), &oauth2.Token{
		RefreshToken: refreshToken,
	})

	tok, err := tokenSource.Token()
	if missingAccessToken(err) {
		return nil, ErrNoAccessToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, ErrNoAccessToken
	}

	tokenSet := toTokenSet(tok)
	// x/oauth2 carries the old refresh token forward when none is returned
	if tokenSet.RefreshToken == refreshToken {
		tokenSet.RefreshToken = ""
	}

	return tokenSet, nil
}

// missingAccessToken reports a 2xx token response without access_token.
// x/oauth2 rejects those with a plain error instead of a RetrieveError.
func missingAccessToken(err error) bool {
	if err == nil {
		return false
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return false
	}
	return strings.Contains(err.Error(), "missing access_token")
}

func (p *SpotifyProvider) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

func toTokenSet(tok *oauth2.Token) *TokenSet {
	tokenSet := &TokenSet{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
	}

	if v, ok := tok.Extra("expires_in").(float64); ok && v > 0 {
		tokenSet.ExpiresIn = int(v)
	} else if !tok.Expiry.IsZero() {
		tokenSet.ExpiresIn = int(math.Round(time.Until(tok.Expiry).Seconds()))
	}

	if scope, ok := tok.Extra("scope").(string); ok {
		tokenSet.Scope = scope
	}

	return tokenSet
}
