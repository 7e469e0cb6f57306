package jsonsalvage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	type routerResult struct {
		Agent string `json:"agent"`
	}

	tests := []struct {
		name    string
		text    string
		wantOK  bool
		wantVal string
	}{
		{
			name:    "clean object",
			text:    `{"agent": "travel"}`,
			wantOK:  true,
			wantVal: "travel",
		},
		{
			name:    "markdown fenced",
			text:    "Here you go:\n```json\n{\"agent\": \"bill\"}\n```\nhope that helps",
			wantOK:  true,
			wantVal: "bill",
		},
		{
			name:    "prose preamble",
			text:    `Sure, the classification is {"agent": "unknown"} based on the input.`,
			wantOK:  true,
			wantVal: "unknown",
		},
		{
			name:   "unparseable",
			text:   "I cannot help with that request.",
			wantOK: false,
		},
		{
			name:   "empty",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out routerResult
			ok := Extract(tt.text, &out)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantVal, out.Agent)
			}
		})
	}
}

func TestExtractArrayTopLevel(t *testing.T) {
	var out []map[string]any
	ok := Extract(`preamble [{"topic": "dinner", "amount": 42}] trailing`, &out)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "dinner", out[0]["topic"])
}

func TestExtractRaw(t *testing.T) {
	raw, ok := ExtractRaw(`noise {"a": 1} noise`)
	require.True(t, ok)
	assert.JSONEq(t, `{"a": 1}`, string(raw))

	_, ok = ExtractRaw("   ")
	assert.False(t, ok)
}
