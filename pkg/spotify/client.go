// Package spotify is a thin adapter over the Spotify Web API. Every read
// returns the upstream JSON untouched so callers can pass it through.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"earlywrapped/pkg/logger"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.spotify.com/v1"

	// MaxAudioFeatureIDs is the upstream batch limit for /audio-features.
	MaxAudioFeatureIDs = 100

	instrumentationName = "earlywrapped/pkg/spotify"
)

// Client performs reads on behalf of one user. Build one per request with
// Factory.ForToken.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     logger.Logger
	tracer     trace.Tracer
	metrics    *instruments
}

type instruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments() *instruments {
	meter := otel.Meter(instrumentationName)
	// errors only come from invalid instrument names
	requests, _ := meter.Int64Counter("spotify.requests",
		metric.WithDescription("Spotify Web API calls by operation and status class"))
	duration, _ := meter.Float64Histogram("spotify.request.duration",
		metric.WithDescription("Spotify Web API call latency"),
		metric.WithUnit("s"))
	return &instruments{requests: requests, duration: duration}
}

// Factory holds the process-wide pieces shared by every Client.
type Factory struct {
	baseURL string
	base    *http.Client
	timeout time.Duration
	logger  logger.Logger
	metrics *instruments
}

func NewFactory(baseURL string, base *http.Client, timeout time.Duration, log logger.Logger) *Factory {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if base == nil {
		base = http.DefaultClient
	}

	return &Factory{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    base,
		timeout: timeout,
		logger:  log,
		metrics: newInstruments(),
	}
}

// ForToken returns a Client that authenticates with accessToken. The token is
// used as-is; an expired token surfaces as an upstream 401.
func (f *Factory) ForToken(accessToken string) *Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, f.base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	return &Client{
		httpClient: oauth2.NewClient(ctx, src),
		baseURL:    f.baseURL,
		timeout:    f.timeout,
		logger:     f.logger,
		tracer:     otel.Tracer(instrumentationName),
		metrics:    f.metrics,
	}
}

// APIError is a non-2xx answer from the Web API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
}

// CurrentUser returns the profile of the token's owner.
func (c *Client) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "current_user", "/me", nil)
}

// TopTracks returns the user's ranked top tracks for timeRange.
func (c *Client) TopTracks(ctx context.Context, timeRange string, limit, offset int) (json.RawMessage, error) {
	return c.get(ctx, "top_tracks", "/me/top/tracks", pageQuery(limit, offset, timeRange))
}

// TopArtists returns the user's ranked top artists for timeRange.
func (c *Client) TopArtists(ctx context.Context, timeRange string, limit, offset int) (json.RawMessage, error) {
	return c.get(ctx, "top_artists", "/me/top/artists", pageQuery(limit, offset, timeRange))
}

// RecentlyPlayed returns the cursor-paginated play history. after and before
// are Unix milliseconds and are only sent when non-nil.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int, after, before *int64) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if after != nil {
		q.Set("after", strconv.FormatInt(*after, 10))
	}
	if before != nil {
		q.Set("before", strconv.FormatInt(*before, 10))
	}
	return c.get(ctx, "recently_played", "/me/player/recently-played", q)
}

// SavedTracks returns the user's liked tracks.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (json.RawMessage, error) {
	return c.get(ctx, "saved_tracks", "/me/tracks", pageQuery(limit, offset, ""))
}

// Playlists returns playlists owned or followed by the user.
func (c *Client) Playlists(ctx context.Context, limit, offset int) (json.RawMessage, error) {
	return c.get(ctx, "playlists", "/me/playlists", pageQuery(limit, offset, ""))
}

// AudioFeatures returns the feature vectors for ids, in the same order. Only
// the first MaxAudioFeatureIDs ids are sent.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) (json.RawMessage, error) {
	if len(ids) > MaxAudioFeatureIDs {
		ids = ids[:MaxAudioFeatureIDs]
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	body, err := c.get(ctx, "audio_features", "/audio-features", q)
	if err != nil {
		return nil, err
	}

	features := gjson.GetBytes(body, "audio_features")
	if !features.IsArray() {
		return nil, fmt.Errorf("unexpected audio features payload")
	}
	return json.RawMessage(features.Raw), nil
}

// Track returns a single track.
func (c *Client) Track(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "track", "/tracks/"+url.PathEscape(id), nil)
}

// Artist returns a single artist.
func (c *Client) Artist(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "artist", "/artists/"+url.PathEscape(id), nil)
}

func pageQuery(limit, offset int, timeRange string) url.Values {
	q := url.Values{}
	if timeRange != "" {
		q.Set("time_range", timeRange)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return q
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, "spotify."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("spotify.path", path)),
	)
	defer span.End()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	start := time.Now()
	body, err := c.do(ctx, endpoint)
	c.record(ctx, op, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("spotify request failed",
			logger.Field{Key: "operation", Value: op},
			logger.Err(err),
		)
		return nil, err
	}

	return body, nil
}

func (c *Client) record(ctx context.Context, op string, start time.Time, err error) {
	outcome := "ok"
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		outcome = strconv.Itoa(apiErr.Status/100) + "xx"
	case err != nil:
		outcome = "error"
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	c.metrics.requests.Add(ctx, 1, attrs)
	c.metrics.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (c *Client) do(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("external api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to decode response: invalid JSON")
	}

	return json.RawMessage(body), nil
}
