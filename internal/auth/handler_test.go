package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"earlywrapped/internal/session"
	"earlywrapped/pkg/logger"
	"earlywrapped/pkg/oauth2"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	provider *MockProvider
	profiles *MockProfiles
}

func newTestServer() *testServer {
	provider := new(MockProvider)
	profiles := new(MockProfiles)
	svc := NewService(provider, profiles.Source(), frontend, time.Second, logger.Nop())

	r := gin.New()
	NewAuthHandler(svc, session.NewWriter(false)).RegisterRoutes(r)

	return &testServer{router: r, provider: provider, profiles: profiles}
}

func (s *testServer) do(method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func responseCookies(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestLoginHandler_RedirectsWithStateCookie(t *testing.T) {
	s := newTestServer()
	s.provider.On("AuthURL", mock.AnythingOfType("string")).Return("https://accounts.example/authorize")

	w := s.do(http.MethodGet, "/auth/login")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://accounts.example/authorize", w.Header().Get("Location"))

	cookies := responseCookies(w)
	state := cookies[session.StateCookie]
	require.NotNil(t, state)
	assert.NotEmpty(t, state.Value)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, session.StateMaxAge, state.MaxAge)

	s.provider.AssertCalled(t, "AuthURL", state.Value)
}

func TestCallbackHandler_AccessDenied(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/auth/callback?error=access_denied&state=s1",
		&http.Cookie{Name: session.StateCookie, Value: "s1"})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, frontend+"/auth/error?error=access_denied", w.Header().Get("Location"))
	assert.Empty(t, w.Result().Cookies())
}

func TestCallbackHandler_StateMismatchSetsNoCookies(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/auth/callback?code=c&state=forged",
		&http.Cookie{Name: session.StateCookie, Value: "s1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid state parameter","code":"VALIDATION_ERROR"}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
	s.provider.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
}

func TestCallbackHandler_MissingCode(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/auth/callback?state=s1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"No authorization code received","code":"VALIDATION_ERROR"}`, w.Body.String())
}

func TestCallbackHandler_RoundTripAndReplay(t *testing.T) {
	s := newTestServer()
	s.provider.On("AuthURL", mock.AnythingOfType("string")).Return("https://accounts.example/authorize")
	s.provider.On("Exchange", mock.Anything, "code-1").Return(&oauth2.TokenSet{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresIn:    3600,
	}, nil)
	s.profiles.On("CurrentUser", mock.Anything).Return(profileJSON, nil)

	login := s.do(http.MethodGet, "/auth/login")
	state := responseCookies(login)[session.StateCookie]
	require.NotNil(t, state)

	w := s.do(http.MethodGet, "/auth/callback?code=code-1&state="+state.Value,
		&http.Cookie{Name: session.StateCookie, Value: state.Value})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, frontend+"/auth/success", w.Header().Get("Location"))

	cookies := responseCookies(w)
	require.NotNil(t, cookies[session.AccessTokenCookie])
	assert.Equal(t, "access-1", cookies[session.AccessTokenCookie].Value)
	assert.Equal(t, "refresh-1", cookies[session.RefreshTokenCookie].Value)
	assert.Equal(t, "wrapped-user", cookies[session.UserCookie].Value)
	assert.False(t, cookies[session.UserCookie].HttpOnly)
	require.NotNil(t, cookies[session.StateCookie])
	assert.Less(t, cookies[session.StateCookie].MaxAge, 0)

	// the browser dropped the state cookie, so the same callback fails
	replay := s.do(http.MethodGet, "/auth/callback?code=code-1&state="+state.Value)

	assert.Equal(t, http.StatusBadRequest, replay.Code)
	assert.Empty(t, replay.Result().Cookies())
	s.provider.AssertNumberOfCalls(t, "Exchange", 1)
}

func TestRefreshHandler(t *testing.T) {
	s := newTestServer()
	s.provider.On("Refresh", mock.Anything, "refresh-1").Return(&oauth2.TokenSet{
		AccessToken: "access-2",
		TokenType:   "Bearer",
		ExpiresIn:   3600,
		Scope:       "user-read-private",
	}, nil)

	w := s.do(http.MethodPost, "/auth/refresh", &http.Cookie{Name: session.RefreshTokenCookie, Value: "refresh-1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"access-2","token_type":"Bearer","expires_in":3600,"scope":"user-read-private"}`, w.Body.String())

	cookies := responseCookies(w)
	assert.Equal(t, "access-2", cookies[session.AccessTokenCookie].Value)
	assert.Nil(t, cookies[session.RefreshTokenCookie])
}

func TestRefreshHandler_NoCookie(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/auth/refresh")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"No refresh token found","code":"UNAUTHORIZED"}`, w.Body.String())
}

func TestLogoutThenCheck(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodPost, "/auth/logout")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully","success":true}`, w.Body.String())

	cookies := responseCookies(w)
	for _, name := range []string{session.AccessTokenCookie, session.RefreshTokenCookie, session.UserCookie, session.StateCookie} {
		require.NotNil(t, cookies[name], name)
		assert.Less(t, cookies[name].MaxAge, 0, name)
	}

	// no cookies left in the browser after logout
	check := s.do(http.MethodGet, "/auth/check")

	var body CheckResponse
	require.NoError(t, json.Unmarshal(check.Body.Bytes(), &body))
	assert.False(t, body.Authenticated)
}

func TestCheckHandler_Authenticated(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/auth/check", &http.Cookie{Name: session.AccessTokenCookie, Value: "a"})

	assert.JSONEq(t, `{"authenticated":true,"message":"User is authenticated"}`, w.Body.String())
}

func TestMeHandler(t *testing.T) {
	s := newTestServer()
	s.profiles.On("CurrentUser", mock.Anything).Return(profileJSON, nil)

	w := s.do(http.MethodGet, "/auth/me", &http.Cookie{Name: session.AccessTokenCookie, Value: "a"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id": "wrapped-user",
		"display_name": "Wrapped User",
		"email": "user@example.com",
		"country": "ID",
		"product": "premium",
		"images": [],
		"followers": {"href": null, "total": 12},
		"external_urls": {"spotify": "https://open.spotify.com/user/wrapped-user"}
	}`, w.Body.String())
}

func TestMeHandler_Unauthenticated(t *testing.T) {
	s := newTestServer()

	w := s.do(http.MethodGet, "/auth/me")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated","code":"UNAUTHORIZED"}`, w.Body.String())
}
