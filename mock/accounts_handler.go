package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const (
	accessPrefix  = "mock-access-"
	refreshPrefix = "mock-refresh-"
	mockScopes    = "user-read-private user-read-email user-top-read user-read-recently-played user-library-read playlist-read-private"
)

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
}

// issued codes are single use
var codes = struct {
	sync.Mutex
	pending map[string]bool
}{pending: map[string]bool{}}

func randomToken(prefix string) string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return prefix + hex.EncodeToString(b)
}

// AuthorizeHandler skips the consent screen and sends the browser straight
// back with a code, or with error=access_denied when deny=1 is passed.
func AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	redirect, err := url.Parse(q.Get("redirect_uri"))
	if err != nil || redirect.Scheme == "" || q.Get("client_id") == "" {
		http.Error(w, "INVALID_CLIENT: Invalid redirect URI", http.StatusBadRequest)
		return
	}

	params := redirect.Query()
	if q.Get("deny") == "1" {
		params.Set("error", "access_denied")
	} else {
		code := randomToken("mock-code-")
		codes.Lock()
		codes.pending[code] = true
		codes.Unlock()
		params.Set("code", code)
	}
	params.Set("state", q.Get("state"))
	redirect.RawQuery = params.Encode()

	http.Redirect(w, r, redirect.String(), http.StatusFound)
}

func TokenHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, _, ok := r.BasicAuth(); !ok {
		tokenError(w, http.StatusBadRequest, "invalid_client", "Invalid client")
		return
	}
	if err := r.ParseForm(); err != nil {
		tokenError(w, http.StatusBadRequest, "invalid_request", "Malformed body")
		return
	}

	resp := TokenResponse{
		AccessToken: randomToken(accessPrefix),
		TokenType:   "Bearer",
		ExpiresIn:   3600,
		Scope:       mockScopes,
	}

	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		code := r.PostForm.Get("code")
		codes.Lock()
		valid := codes.pending[code]
		delete(codes.pending, code)
		codes.Unlock()
		if !valid {
			tokenError(w, http.StatusBadRequest, "invalid_grant", "Invalid authorization code")
			return
		}
		resp.RefreshToken = randomToken(refreshPrefix)

	case "refresh_token":
		if !strings.HasPrefix(r.PostForm.Get("refresh_token"), refreshPrefix) {
			tokenError(w, http.StatusBadRequest, "invalid_grant", "Invalid refresh token")
			return
		}
		// Spotify usually keeps the refresh token, so none is returned

	default:
		tokenError(w, http.StatusBadRequest, "unsupported_grant_type", "grant_type must be authorization_code or refresh_token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func tokenError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":             code,
		"error_description": description,
	})
}
