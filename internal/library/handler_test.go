package library

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"earlywrapped/internal/session"
	"earlywrapped/pkg/spotify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() (*gin.Engine, *factorySpy) {
	svc, spy := newService()
	r := gin.New()
	NewLibraryHandler(svc).RegisterRoutes(r)
	return r, spy
}

func get(r *gin.Engine, target string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authenticated {
		req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "access-1"})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_UnauthenticatedNeverBuildsClient(t *testing.T) {
	r, spy := newRouter()

	targets := []string{
		"/api/user/profile",
		"/api/user/top-tracks",
		"/api/user/top-artists",
		"/api/user/recently-played",
		"/api/user/saved-tracks",
		"/api/user/playlists",
		"/api/user/audio-features?track_ids=a,b",
		"/api/user/track/4uLU6hMCjMI75M1A2tKUQC",
		"/api/user/artist/0OdUWJ0sBjDrqHygGUXeCF",
	}

	for _, target := range targets {
		w := get(r, target, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
		assert.JSONEq(t, `{"detail":"Not authenticated. Please login with Spotify.","code":"UNAUTHORIZED"}`, w.Body.String(), target)
	}

	assert.Empty(t, spy.tokens)
	spy.client.AssertExpectations(t)
}

func TestHandler_ValidationBeforeUpstream(t *testing.T) {
	r, spy := newRouter()

	tests := []struct {
		target string
		detail string
	}{
		{"/api/user/top-tracks?time_range=forever", "Invalid time_range. Must be one of: short_term, medium_term, long_term"},
		{"/api/user/top-artists?time_range=yearly", "Invalid time_range. Must be one of: short_term, medium_term, long_term"},
		{"/api/user/top-tracks?limit=0", "limit must be between 1 and 50"},
		{"/api/user/top-artists?limit=51", "limit must be between 1 and 50"},
		{"/api/user/recently-played?limit=100", "limit must be between 1 and 50"},
		{"/api/user/saved-tracks?limit=abc", "limit must be between 1 and 50"},
		{"/api/user/playlists?offset=-3", "offset must be >= 0"},
		{"/api/user/audio-features?track_ids=", "No track IDs provided"},
		{"/api/user/audio-features?track_ids=%20,%20", "No track IDs provided"},
		{"/api/user/audio-features", "No track IDs provided"},
	}

	for _, tt := range tests {
		w := get(r, tt.target, true)
		require.Equal(t, http.StatusBadRequest, w.Code, tt.target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.detail, body["detail"], tt.target)
		assert.Equal(t, "VALIDATION_ERROR", body["code"], tt.target)
	}

	assert.Empty(t, spy.tokens)
}

func TestHandler_AudioFeaturesTooManyIDs(t *testing.T) {
	r, spy := newRouter()

	ids := make([]string, 101)
	for i := range ids {
		ids[i] = "id" + strings.Repeat("x", i%7) + string(rune('a'+i%26))
	}

	w := get(r, "/api/user/audio-features?track_ids="+strings.Join(ids, ","), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Maximum 100 track IDs allowed per request")
	assert.Empty(t, spy.tokens)
}

func TestHandler_TopTracksDefaults(t *testing.T) {
	r, spy := newRouter()
	spy.client.On("TopTracks", mock.Anything, "medium_term", 20, 0).
		Return(json.RawMessage(`{"items":[{"id":"t1"}],"total":1}`), nil)

	w := get(r, "/api/user/top-tracks", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"success": true,
		"time_range": "medium_term",
		"limit": 20,
		"offset": 0,
		"total": 1,
		"data": [{"id":"t1"}]
	}`, w.Body.String())
}

func TestHandler_RecentlyPlayed(t *testing.T) {
	r, spy := newRouter()
	before := int64(1704067200000)
	spy.client.On("RecentlyPlayed", mock.Anything, 50, (*int64)(nil), &before).
		Return(json.RawMessage(`{"items":[],"cursors":{"after":"1","before":"0"}}`), nil)

	w := get(r, "/api/user/recently-played?limit=50&before=1704067200000", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"limit":50,"data":[],"cursors":{"after":"1","before":"0"}}`, w.Body.String())
}

func TestHandler_PlaylistsAndSavedTracks(t *testing.T) {
	r, spy := newRouter()
	spy.client.On("Playlists", mock.Anything, 5, 10).
		Return(json.RawMessage(`{"items":[{"id":"p1"}],"total":11}`), nil)
	spy.client.On("SavedTracks", mock.Anything, 1, 0).
		Return(json.RawMessage(`{"items":[{"added_at":"2024-02-02T00:00:00Z","track":{"id":"t"}}],"total":300}`), nil)

	w := get(r, "/api/user/playlists?limit=5&offset=10", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"limit":5,"offset":10,"total":11,"data":[{"id":"p1"}]}`, w.Body.String())

	w = get(r, "/api/user/saved-tracks?limit=1", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"limit":1,"offset":0,"total":300,"data":[{"added_at":"2024-02-02T00:00:00Z","track":{"id":"t"}}]}`, w.Body.String())
}

func TestHandler_AudioFeaturesTrimsIDs(t *testing.T) {
	r, spy := newRouter()
	spy.client.On("AudioFeatures", mock.Anything, []string{"a", "b"}).
		Return(json.RawMessage(`[{"id":"a"},{"id":"b"}]`), nil)

	w := get(r, "/api/user/audio-features?track_ids=%20a%20,,b,", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"count":2,"data":[{"id":"a"},{"id":"b"}]}`, w.Body.String())
}

func TestHandler_SingleLookups(t *testing.T) {
	r, spy := newRouter()
	spy.client.On("CurrentUser", mock.Anything).Return(json.RawMessage(`{"id":"wrapped-user"}`), nil)
	spy.client.On("Track", mock.Anything, "t1").Return(json.RawMessage(`{"id":"t1","name":"Song"}`), nil)
	spy.client.On("Artist", mock.Anything, "a1").Return(json.RawMessage(`{"id":"a1","name":"Band"}`), nil)

	w := get(r, "/api/user/profile", true)
	assert.JSONEq(t, `{"success":true,"data":{"id":"wrapped-user"}}`, w.Body.String())

	w = get(r, "/api/user/track/t1", true)
	assert.JSONEq(t, `{"success":true,"data":{"id":"t1","name":"Song"}}`, w.Body.String())

	w = get(r, "/api/user/artist/a1", true)
	assert.JSONEq(t, `{"success":true,"data":{"id":"a1","name":"Band"}}`, w.Body.String())
}

func TestHandler_UpstreamErrorHidesDetail(t *testing.T) {
	r, spy := newRouter()
	spy.client.On("Track", mock.Anything, "gone").
		Return(nil, &spotify.APIError{Status: http.StatusNotFound, Message: "Non existing id: 'spotify:track:gone'"})

	w := get(r, "/api/user/track/gone", true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Failed to fetch track","code":"UPSTREAM_FAILURE"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "Non existing id")
}
