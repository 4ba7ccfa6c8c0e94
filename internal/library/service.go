package library

import (
	"context"
	"encoding/json"

	"earlywrapped/internal/session"
	"earlywrapped/pkg/apperror"
	"earlywrapped/pkg/logger"

	"github.com/tidwall/gjson"
)

// DataClient is the set of Web API reads the router forwards to.
// *spotify.Client satisfies it.
type DataClient interface {
	CurrentUser(ctx context.Context) (json.RawMessage, error)
	TopTracks(ctx context.Context, timeRange string, limit, offset int) (json.RawMessage, error)
	TopArtists(ctx context.Context, timeRange string, limit, offset int) (json.RawMessage, error)
	RecentlyPlayed(ctx context.Context, limit int, after, before *int64) (json.RawMessage, error)
	SavedTracks(ctx context.Context, limit, offset int) (json.RawMessage, error)
	Playlists(ctx context.Context, limit, offset int) (json.RawMessage, error)
	AudioFeatures(ctx context.Context, ids []string) (json.RawMessage, error)
	Track(ctx context.Context, id string) (json.RawMessage, error)
	Artist(ctx context.Context, id string) (json.RawMessage, error)
}

// ClientFactory binds a DataClient to an access token.
type ClientFactory func(accessToken string) DataClient

var (
	emptyList   = json.RawMessage(`[]`)
	emptyObject = json.RawMessage(`{}`)
)

type Service struct {
	clients ClientFactory
	logger  logger.Logger
}

func NewService(clients ClientFactory, log logger.Logger) *Service {
	return &Service{
		clients: clients,
		logger:  log,
	}
}

// client is the shared precondition of every read: no token, no upstream
// client.
func (s *Service) client(cookies session.Cookies) (DataClient, error) {
	if !cookies.Authenticated() {
		return nil, apperror.Auth("Not authenticated. Please login with Spotify.")
	}
	return s.clients(cookies.AccessToken), nil
}

func (s *Service) fail(resource string, err error) error {
	msg := "Failed to fetch " + resource
	if !apperror.IsKind(err, apperror.KindClient) && !apperror.IsKind(err, apperror.KindAuth) {
		s.logger.Error("error fetching "+resource, logger.Err(err))
	}
	return apperror.Classify(err, msg)
}

func (s *Service) Profile(ctx context.Context, cookies session.Cookies) (*Envelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, s.fail("user profile", err)
	}

	return &Envelope{Success: true, Data: raw}, nil
}

func (s *Service) TopTracks(ctx context.Context, cookies session.Cookies, q RankQuery) (*RankedEnvelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.TopTracks(ctx, q.TimeRange, q.Limit, q.Offset)
	if err != nil {
		return nil, s.fail("top tracks", err)
	}

	return ranked(q, raw), nil
}

func (s *Service) TopArtists(ctx context.Context, cookies session.Cookies, q RankQuery) (*RankedEnvelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.TopArtists(ctx, q.TimeRange, q.Limit, q.Offset)
	if err != nil {
		return nil, s.fail("top artists", err)
	}

	return ranked(q, raw), nil
}

func (s *Service) RecentlyPlayed(ctx context.Context, cookies session.Cookies, q HistoryQuery) (*HistoryEnvelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.RecentlyPlayed(ctx, q.Limit, q.After, q.Before)
	if err != nil {
		return nil, s.fail("recently played tracks", err)
	}

	cursors := emptyObject
	if c := gjson.GetBytes(raw, "cursors"); c.IsObject() {
		cursors = json.RawMessage(c.Raw)
	}

	return &HistoryEnvelope{
		Success: true,
		Limit:   q.Limit,
		Data:    items(raw),
		Cursors: cursors,
	}, nil
}

func (s *Service) SavedTracks(ctx context.Context, cookies session.Cookies, q PageQuery) (*PageEnvelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.SavedTracks(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, s.fail("saved tracks", err)
	}

	return paged(q, raw), nil
}

func (s *Service) Playlists(ctx context.Context, cookies session.Cookies, q PageQuery) (*PageEnvelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.Playlists(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, s.fail("user playlists", err)
	}

	return paged(q, raw), nil
}

// AudioFeatures keeps upstream order; unknown ids come back as null entries.
func (s *Service) AudioFeatures(ctx context.Context, cookies session.Cookies, ids []string) (*FeaturesEnvelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, s.fail("audio features", err)
	}

	// the adapter guarantees raw is the audio_features array
	return &FeaturesEnvelope{
		Success: true,
		Count:   len(gjson.ParseBytes(raw).Array()),
		Data:    raw,
	}, nil
}

func (s *Service) Track(ctx context.Context, cookies session.Cookies, id string) (*Envelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.Track(ctx, id)
	if err != nil {
		return nil, s.fail("track", err)
	}

	return &Envelope{Success: true, Data: raw}, nil
}

func (s *Service) Artist(ctx context.Context, cookies session.Cookies, id string) (*Envelope, error) {
	client, err := s.client(cookies)
	if err != nil {
		return nil, err
	}

	raw, err := client.Artist(ctx, id)
	if err != nil {
		return nil, s.fail("artist", err)
	}

	return &Envelope{Success: true, Data: raw}, nil
}

func ranked(q RankQuery, raw json.RawMessage) *RankedEnvelope {
	return &RankedEnvelope{
		Success:   true,
		TimeRange: q.TimeRange,
		Limit:     q.Limit,
		Offset:    q.Offset,
		Total:     gjson.GetBytes(raw, "total").Int(),
		Data:      items(raw),
	}
}

func paged(q PageQuery, raw json.RawMessage) *PageEnvelope {
	return &PageEnvelope{
		Success: true,
		Limit:   q.Limit,
		Offset:  q.Offset,
		Total:   gjson.GetBytes(raw, "total").Int(),
		Data:    items(raw),
	}
}

func items(raw json.RawMessage) json.RawMessage {
	if v := gjson.GetBytes(raw, "items"); v.IsArray() {
		return json.RawMessage(v.Raw)
	}
	return emptyList
}
