package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONReply(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		role    string
		wantErr bool
	}{
		{
			name:  "raw json",
			reply: `{"role": "manager"}`,
			role:  "manager",
		},
		{
			name:  "raw json with surrounding whitespace",
			reply: "\n  {\"role\": \"manager\"}  \n",
			role:  "manager",
		},
		{
			name:  "json fence",
			reply: "```json\n{\"role\": \"engineer\"}\n```",
			role:  "engineer",
		},
		{
			name:  "bare fence",
			reply: "```\n{\"role\": \"recruiter\"}\n```",
			role:  "recruiter",
		},
		{
			name:  "fence with prose around it",
			reply: "Here you go:\n```json\n{\"role\": \"sales\"}\n```\nLet me know!",
			role:  "sales",
		},
		{
			name:  "object embedded in prose",
			reply: `Sure, the result is {"role": "supervisor"}.`,
			role:  "supervisor",
		},
		{
			name:    "not json",
			reply:   "I could not find anything useful.",
			wantErr: true,
		},
		{
			name:    "array is not an object",
			reply:   `["manager"]`,
			wantErr: true,
		},
		{
			name:    "truncated json",
			reply:   `{"role": "mana`,
			wantErr: true,
		},
		{
			name:    "empty",
			reply:   "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseJSONReply(tc.reply)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrNoJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.role, result.Get("role").String())
		})
	}
}
