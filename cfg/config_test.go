package cfg

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp keeps a developer's .env out of the test.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func setRequired(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "client-secret")
	t.Setenv("SECRET_KEY", "signing-secret")
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	setRequired(t)

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", config.AppEnv)
	assert.Equal(t, "8000", config.AppPort)
	assert.True(t, config.Debug)
	assert.False(t, config.SecureCookies())
	assert.Equal(t, 10*time.Second, config.UpstreamTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, config.AllowedOrigins)
	assert.Equal(t, "http://localhost:3000", config.FrontendURL())
	assert.Equal(t, "http://127.0.0.1:8000/auth/callback", config.Spotify.RedirectURI)
	assert.Equal(t, "https://accounts.spotify.com", config.Spotify.AccountsURL)
	assert.Equal(t, "https://api.spotify.com/v1", config.Spotify.APIBaseURL)
	assert.Contains(t, config.Spotify.Scopes, "user-top-read")
	assert.Len(t, config.Spotify.Scopes, 6)
	assert.False(t, config.Observability.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	chdirTemp(t)
	setRequired(t)
	t.Setenv("DEBUG", "false")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", " https://wrapped.example.com , ,https://www.wrapped.example.com")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "3")
	t.Setenv("SPOTIFY_API_URL", "http://localhost:8081/v1/")

	config, err := Load()
	require.NoError(t, err)

	assert.True(t, config.SecureCookies())
	assert.Equal(t, []string{"https://wrapped.example.com", "https://www.wrapped.example.com"}, config.AllowedOrigins)
	assert.Equal(t, "https://wrapped.example.com", config.FrontendURL())
	assert.Equal(t, 3*time.Second, config.UpstreamTimeout)
	assert.Equal(t, "http://localhost:8081/v1", config.Spotify.APIBaseURL)
	assert.Equal(t, "production", config.Observability.Environment)
}

func TestLoad_ReportsEveryMissingVariable(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing env: SPOTIFY_CLIENT_ID")
	assert.Contains(t, err.Error(), "missing env: SPOTIFY_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "missing env: SECRET_KEY")
}

func TestLoad_ConversionErrors(t *testing.T) {
	chdirTemp(t)
	setRequired(t)
	t.Setenv("DEBUG", "sometimes")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "ten")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversion failed env: DEBUG")
	assert.Contains(t, err.Error(), "conversion failed env: UPSTREAM_TIMEOUT_SECONDS")
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	chdirTemp(t)
	// godotenv never overrides a variable that is already set, even to ""
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	require.NoError(t, os.Unsetenv("SPOTIFY_CLIENT_ID"))
	t.Setenv("SPOTIFY_CLIENT_SECRET", "from-env-secret")
	t.Setenv("SECRET_KEY", "k")
	require.NoError(t, os.WriteFile(".env", []byte("SPOTIFY_CLIENT_ID=from-dotenv\n"), 0o600))

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", config.Spotify.ClientID)
	assert.Equal(t, "from-env-secret", config.Spotify.ClientSecret)
}

func TestLoad_InvalidOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins string
	}{
		{"missing scheme", "localhost:3000"},
		{"bare host", "wrapped.example.com"},
		{"wildcard", "*"},
		{"non http scheme", "ftp://wrapped.example.com"},
		{"one bad entry", "http://localhost:3000, 127.0.0.1:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			setRequired(t)
			t.Setenv("ALLOWED_ORIGINS", tt.origins)

			config, err := Load()
			assert.Nil(t, config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid env: ALLOWED_ORIGINS")
		})
	}
}

func TestLoad_OriginWithPort(t *testing.T) {
	chdirTemp(t)
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "http://127.0.0.1:5173")

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5173", config.FrontendURL())
}
