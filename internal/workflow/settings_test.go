package workflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_M2MTokenGenerationIsValid(t *testing.T) {
	require.NoError(t, M2MTokenGeneration.Validate())
	assert.True(t, M2MTokenGeneration.StopsOnFailure())
	assert.NoError(t, M2MTokenGeneration.Require(BindingM2MToken, BindingFetch, BindingEnv, BindingURL))
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{
			name:    "missing id",
			mutate:  func(s *Settings) { s.ID = " " },
			wantErr: "id is required",
		},
		{
			name:    "missing name",
			mutate:  func(s *Settings) { s.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "unknown trigger",
			mutate:  func(s *Settings) { s.Trigger = "user:tokens_generation" },
			wantErr: "unsupported trigger",
		},
		{
			name:    "unknown failure action",
			mutate:  func(s *Settings) { s.FailurePolicy.Action = "retry" },
			wantErr: "unsupported failure action",
		},
		{
			name:   "continue is accepted",
			mutate: func(s *Settings) { s.FailurePolicy.Action = FailureActionContinue },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := M2MTokenGeneration
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidSettings)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettings_RequireListsMissingBindings(t *testing.T) {
	s := M2MTokenGeneration
	s.Bindings = map[Binding]BindingOptions{BindingEnv: {}}

	err := s.Require(BindingM2MToken, BindingFetch, BindingEnv)
	require.ErrorIs(t, err, ErrBindingNotGranted)
	assert.Contains(t, err.Error(), "kinde.fetch, kinde.m2mToken")
}

func TestSettings_JSONMatchesHostRegistration(t *testing.T) {
	raw, err := json.Marshal(M2MTokenGeneration)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "m2mTokenGeneration",
		"name": "M2M custom claims",
		"failurePolicy": {"action": "stop"},
		"trigger": "m2m:token_generation",
		"bindings": {"kinde.m2mToken": {}, "kinde.fetch": {}, "kinde.env": {}, "url": {}}
	}`, string(raw))
}
