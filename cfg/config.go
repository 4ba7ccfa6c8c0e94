package cfg

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultScopes = "user-read-private user-read-email user-top-read " +
		"user-read-recently-played user-library-read playlist-read-private"
	defaultOrigins = "http://localhost:3000,http://127.0.0.1:3000"
)

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AccountsURL  string
	APIBaseURL   string
}

type ObservabilityConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

type Config struct {
	AppEnv          string
	AppPort         string
	Debug           bool
	SecretKey       string
	DatabaseURL     string
	NodeID          int64
	AllowedOrigins  []string
	UpstreamTimeout time.Duration
	Spotify         SpotifyConfig
	Observability   ObservabilityConfig
}

// FrontendURL is where the browser is sent after the OAuth callback.
func (c *Config) FrontendURL() string {
	if len(c.AllowedOrigins) == 0 {
		return ""
	}
	return c.AllowedOrigins[0]
}

// SecureCookies is true outside debug mode.
func (c *Config) SecureCookies() bool {
	return !c.Debug
}

func Load() (*Config, error) {
	var errs []error

	// .env is optional, the environment alone is enough
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	clientID := mustEnv("SPOTIFY_CLIENT_ID", &errs)
	clientSecret := mustEnv("SPOTIFY_CLIENT_SECRET", &errs)
	secretKey := mustEnv("SECRET_KEY", &errs)

	appEnv := envOr("APP_ENV", "development")
	debug := boolEnv("DEBUG", true, &errs)
	timeoutSeconds := intEnv("UPSTREAM_TIMEOUT_SECONDS", 10, &errs)
	nodeID := intEnv("NODE_ID", 1, &errs)
	otelEnabled := boolEnv("OTEL_ENABLED", false, &errs)

	if timeoutSeconds <= 0 {
		errs = append(errs, errors.New("invalid env: UPSTREAM_TIMEOUT_SECONDS must be positive"))
	}

	origins := splitList(envOr("ALLOWED_ORIGINS", defaultOrigins), ",")
	if len(origins) == 0 {
		errs = append(errs, errors.New("invalid env: ALLOWED_ORIGINS is empty"))
	}
	for _, origin := range origins {
		if !validOrigin(origin) {
			errs = append(errs, errors.New("invalid env: ALLOWED_ORIGINS entry "+origin+" must be an http(s) origin"))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:          appEnv,
		AppPort:         envOr("APP_PORT", "8000"),
		Debug:           debug,
		SecretKey:       secretKey,
		DatabaseURL:     envOr("DATABASE_URL", "sqlite:///./early_wrapped.db"),
		NodeID:          int64(nodeID),
		AllowedOrigins:  origins,
		UpstreamTimeout: time.Duration(timeoutSeconds) * time.Second,
		Spotify: SpotifyConfig{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURI:  envOr("SPOTIFY_REDIRECT_URI", "http://127.0.0.1:8000/auth/callback"),
			Scopes:       splitList(envOr("SPOTIFY_SCOPES", defaultScopes), " "),
			AccountsURL:  strings.TrimRight(envOr("SPOTIFY_ACCOUNTS_URL", "https://accounts.spotify.com"), "/"),
			APIBaseURL:   strings.TrimRight(envOr("SPOTIFY_API_URL", "https://api.spotify.com/v1"), "/"),
		},
		Observability: ObservabilityConfig{
			Enabled:      otelEnabled,
			OTLPEndpoint: envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envOr("OTEL_SERVICE_NAME", "early-wrapped-api"),
			Environment:  appEnv,
		},
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return v
}

func boolEnv(key string, fallback bool, errs *[]error) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return v
}

// validOrigin accepts scheme://host[:port] with an http or https scheme.
func validOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && u.Path == "" && u.RawQuery == "" && u.User == nil
}

// splitList splits on sep, trims entries and drops empty ones.
func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
