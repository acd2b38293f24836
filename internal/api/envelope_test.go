package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/kharcha/internal/api"
)

func TestEnvelope_FlattenErrors(t *testing.T) {
	type testCase struct {
		name string
		env  api.Envelope
		want string
	}

	tests := []testCase{
		{
			name: "no field errors falls back to error string",
			env:  api.Envelope{Error: "something broke"},
			want: "something broke",
		},
		{
			name: "single field single message",
			env: api.Envelope{Errors: map[string][]string{
				"amount": {"must be positive"},
			}},
			want: "amount: must be positive",
		},
		{
			name: "multiple messages joined with comma",
			env: api.Envelope{Errors: map[string][]string{
				"amount": {"must be positive", "must be a number"},
			}},
			want: "amount: must be positive, must be a number",
		},
		{
			name: "fields sorted for deterministic output",
			env: api.Envelope{Errors: map[string][]string{
				"date":   {"cannot be in the future"},
				"amount": {"must be positive"},
			}},
			want: "amount: must be positive; date: cannot be in the future",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Map iteration order is random; run repeatedly to catch
			// nondeterminism.
			for range 20 {
				assert.Equal(t, tc.want, tc.env.FlattenErrors())
			}
		})
	}
}

func TestEnvelope_SuccessFalseUnderOK(t *testing.T) {
	raw := `{"success":false,"error":"duplicate email"}`

	var env api.Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	assert.False(t, env.Success)
	assert.Equal(t, "duplicate email", env.FlattenErrors())
}

func TestEnvelope_DecodeRoundTrip(t *testing.T) {
	env, err := api.OK("created", api.BulkDeleteResponse{Deleted: 3})
	require.NoError(t, err)
	assert.True(t, env.Success)

	b, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded api.Envelope
	require.NoError(t, json.Unmarshal(b, &decoded))

	var out api.BulkDeleteResponse
	require.NoError(t, decoded.Decode(&out))
	assert.Equal(t, 3, out.Deleted)
}

func TestEnvelope_DecodeWithoutData(t *testing.T) {
	env := api.Fail("nope")
	assert.Error(t, env.Decode(&struct{}{}))
}
