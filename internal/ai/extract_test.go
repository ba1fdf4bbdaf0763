package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare json",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "markdown fenced",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "prose around json",
			in:   `Sure! Here is your verdict: {"winner":"Draw"} Hope that helps.`,
			want: `{"winner":"Draw"}`,
		},
		{
			name: "nested braces",
			in:   `result: {"scores":{"playerA":70,"playerB":30}} done`,
			want: `{"scores":{"playerA":70,"playerB":30}}`,
		},
		{
			name: "no braces at all",
			in:   "PASS",
			want: "PASS",
		},
		{
			name: "only opening brace",
			in:   "oops {truncated",
			want: "oops {truncated",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.in))
		})
	}
}

func TestExtractJSONResultParses(t *testing.T) {
	raw := "The analysis follows.\n```json\n{\"claim_summary\": \"ok\", \"evidence_score\": 7}\n```\nThanks!"

	var analysis Analysis
	err := json.Unmarshal([]byte(ExtractJSON(raw)), &analysis)
	require.NoError(t, err)
	assert.Equal(t, "ok", analysis.ClaimSummary)
	assert.Equal(t, float64(7), analysis.EvidenceScore)
}
