package oauth2

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateState(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		state, err := GenerateState()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(state)
		require.NoError(t, err, "state must be URL-safe base64")
		assert.Len(t, raw, StateBytes)

		_, dup := seen[state]
		assert.False(t, dup)
		seen[state] = struct{}{}
	}
}

func TestVerifyState(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		supplied string
		want     error
	}{
		{"match", "abc", "abc", nil},
		{"nothing stored", "", "abc", ErrStateMissing},
		{"nothing stored or supplied", "", "", ErrStateMissing},
		{"mismatch", "abc", "abd", ErrStateMismatch},
		{"missing supplied", "abc", "", ErrStateMismatch},
		{"prefix only", "abcdef", "abc", ErrStateMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyState(tt.stored, tt.supplied)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
