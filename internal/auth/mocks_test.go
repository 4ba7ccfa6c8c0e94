package auth

import (
	"context"
	"encoding/json"

	"earlywrapped/pkg/oauth2"

	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) AuthURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*oauth2.TokenSet, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.TokenSet), args.Error(1)
}

func (m *MockProvider) Refresh(ctx context.Context, refreshToken string) (*oauth2.TokenSet, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.TokenSet), args.Error(1)
}

type MockProfiles struct {
	mock.Mock
	tokens []string
}

func (m *MockProfiles) Source() ProfileSource {
	return func(accessToken string) ProfileFetcher {
		m.tokens = append(m.tokens, accessToken)
		return m
	}
}

func (m *MockProfiles) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
