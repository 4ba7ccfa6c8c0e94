package auth

import "encoding/json"

// UserProfile is the subset of the Spotify user object the frontend uses.
// Fields missing upstream are omitted; images is always a list.
type UserProfile struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name,omitempty"`
	Email        string            `json:"email,omitempty"`
	Country      string            `json:"country,omitempty"`
	Product      string            `json:"product,omitempty"`
	Images       []json.RawMessage `json:"images"`
	Followers    json.RawMessage   `json:"followers,omitempty" swaggertype:"object"`
	ExternalURLs json.RawMessage   `json:"external_urls,omitempty" swaggertype:"object"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type LogoutResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type CheckResponse struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
}

// CallbackParams are the query parameters Spotify sends back.
type CallbackParams struct {
	Code  string
	State string
	Error string
}
