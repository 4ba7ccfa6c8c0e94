// Package session keeps the browser-held auth state. Nothing is stored
// server side: handlers read a Cookies value from the request and hand back
// a list of Mutations to apply to the response.
package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "spotify_access_token"
	RefreshTokenCookie = "spotify_refresh_token"
	UserCookie         = "user_profile"
	StateCookie        = "spotify_auth_state"
)

// Lifetimes in seconds.
const (
	StateMaxAge         = 600
	DefaultAccessMaxAge = 3600
	LongLivedMaxAge     = 30 * 24 * 60 * 60
)

// Cookies is the session as sent by the browser. Empty fields mean the
// cookie was absent.
type Cookies struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	State        string
}

func (c Cookies) Authenticated() bool {
	return c.AccessToken != ""
}

// Read extracts the session cookies from the request.
func Read(c *gin.Context) Cookies {
	return Cookies{
		AccessToken:  value(c, AccessTokenCookie),
		RefreshToken: value(c, RefreshTokenCookie),
		UserID:       value(c, UserCookie),
		State:        value(c, StateCookie),
	}
}

func value(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}

// Mutation sets or deletes one cookie.
type Mutation struct {
	Name     string
	Value    string
	MaxAge   int
	HTTPOnly bool
	Delete   bool
}

func SetState(state string) Mutation {
	return Mutation{Name: StateCookie, Value: state, MaxAge: StateMaxAge, HTTPOnly: true}
}

// SetAccessToken lives as long as the token. expiresIn <= 0 falls back to
// DefaultAccessMaxAge.
func SetAccessToken(token string, expiresIn int) Mutation {
	if expiresIn <= 0 {
		expiresIn = DefaultAccessMaxAge
	}
	return Mutation{Name: AccessTokenCookie, Value: token, MaxAge: expiresIn, HTTPOnly: true}
}

func SetRefreshToken(token string) Mutation {
	return Mutation{Name: RefreshTokenCookie, Value: token, MaxAge: LongLivedMaxAge, HTTPOnly: true}
}

// SetUser is readable from JavaScript so the frontend knows who is signed in.
func SetUser(userID string) Mutation {
	return Mutation{Name: UserCookie, Value: userID, MaxAge: LongLivedMaxAge}
}

func DeleteState() Mutation {
	return Mutation{Name: StateCookie, HTTPOnly: true, Delete: true}
}

// ClearAll deletes every session cookie.
func ClearAll() []Mutation {
	return []Mutation{
		{Name: AccessTokenCookie, HTTPOnly: true, Delete: true},
		{Name: RefreshTokenCookie, HTTPOnly: true, Delete: true},
		{Name: UserCookie, Delete: true},
		DeleteState(),
	}
}

// Writer applies mutations to a gin response. Every cookie is site wide and
// SameSite=Lax.
type Writer struct {
	Secure bool
}

func NewWriter(secure bool) Writer {
	return Writer{Secure: secure}
}

func (w Writer) Apply(c *gin.Context, mutations []Mutation) {
	c.SetSameSite(http.SameSiteLaxMode)

	for _, m := range mutations {
		if m.Delete {
			c.SetCookie(m.Name, "", -1, "/", "", w.Secure, m.HTTPOnly)
			continue
		}
		c.SetCookie(m.Name, m.Value, m.MaxAge, "/", "", w.Secure, m.HTTPOnly)
	}
}
