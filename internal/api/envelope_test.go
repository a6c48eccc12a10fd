package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		status      int
		wantSuccess bool
		wantData    string
		wantMessage string
		wantErr     bool
	}{
		{
			name:        "wrapped success",
			body:        `{"success": true, "data": {"id": "1"}, "message": "ok"}`,
			status:      200,
			wantSuccess: true,
			wantData:    `{"id": "1"}`,
			wantMessage: "ok",
		},
		{
			name:        "explicit failure on 200",
			body:        `{"success": false, "message": "nope"}`,
			status:      200,
			wantSuccess: false,
			wantMessage: "nope",
		},
		{
			name:        "bare object passes through as data",
			body:        `{"id": "1", "title": "x"}`,
			status:      200,
			wantSuccess: true,
			wantData:    `{"id": "1", "title": "x"}`,
		},
		{
			name:        "array body passes through as data",
			body:        `[{"id": "1"}, {"id": "2"}]`,
			status:      200,
			wantSuccess: true,
			wantData:    `[{"id": "1"}, {"id": "2"}]`,
		},
		{
			name:        "empty body on success",
			body:        "",
			status:      204,
			wantSuccess: true,
		},
		{
			name:        "empty body on failure",
			body:        "",
			status:      500,
			wantSuccess: false,
		},
		{
			name:    "invalid body",
			body:    "not json",
			status:  200,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env, err := decodeEnvelope([]byte(tc.body), tc.status)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSuccess, env.Success)
			assert.Equal(t, tc.wantMessage, env.Message)
			if tc.wantData == "" {
				assert.Nil(t, env.Data)
			} else {
				assert.JSONEq(t, tc.wantData, string(env.Data))
			}
		})
	}
}

func TestEnvelope_DecodeWithoutData(t *testing.T) {
	t.Parallel()

	env := &Envelope{Success: true}
	var v map[string]any
	require.Error(t, env.Decode(&v))
}
