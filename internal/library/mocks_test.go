package library

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

type MockDataClient struct {
	mock.Mock
}

func (m *MockDataClient) raw(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockDataClient) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	return m.raw(m.Called(ctx))
}

func (m *MockDataClient) TopTracks(ctx context.Context, timeRange string, limit, offset int) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, timeRange, limit, offset))
}

func (m *MockDataClient) TopArtists(ctx context.Context, timeRange string, limit, offset int) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, timeRange, limit, offset))
}

func (m *MockDataClient) RecentlyPlayed(ctx context.Context, limit int, after, before *int64) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, limit, after, before))
}

func (m *MockDataClient) SavedTracks(ctx context.Context, limit, offset int) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, limit, offset))
}

func (m *MockDataClient) Playlists(ctx context.Context, limit, offset int) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, limit, offset))
}

func (m *MockDataClient) AudioFeatures(ctx context.Context, ids []string) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, ids))
}

func (m *MockDataClient) Track(ctx context.Context, id string) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, id))
}

func (m *MockDataClient) Artist(ctx context.Context, id string) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, id))
}

// factorySpy records every token the router asked a client for.
type factorySpy struct {
	client *MockDataClient
	tokens []string
}

func (f *factorySpy) Factory() ClientFactory {
	return func(accessToken string) DataClient {
		f.tokens = append(f.tokens, accessToken)
		return f.client
	}
}
