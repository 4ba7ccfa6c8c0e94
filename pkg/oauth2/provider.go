package oauth2

import (
	"context"
	"errors"
)

var ErrNoAccessToken = errors.New("no access token in token response")

// Provider is the token-exchange side of the authorization-code flow.
// Implementations must be safe for concurrent use.
type Provider interface {
	// AuthURL builds the authorization redirect carrying state.
	AuthURL(state string) string
	// Exchange trades a one-time authorization code for a token pair.
	Exchange(ctx context.Context, code string) (*TokenSet, error)
	// Refresh obtains a new access token. RefreshToken on the result is only
	// set when the provider rotated it.
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
}

// TokenSet is the token endpoint response as handed to callers.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}
