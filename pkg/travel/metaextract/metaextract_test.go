package metaextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		destination string
		days        *int
	}{
		{"paris trip with days", "A 3-day Paris trip for the whole family", "Europe", intPtr(3)},
		{"tokyo with nights", "5 nights in Tokyo sounds great", "Asia", intPtr(5)},
		{"for n days phrasing", "Let's plan for 7 days in Sydney", "Oceania", intPtr(7)},
		{"no destination keyword", "Let's just relax for 4 days somewhere quiet", "", intPtr(4)},
		{"no day count", "A trip to Cairo", "Africa", nil},
		{"plain text", "hello there", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, days := Extract(tt.text)
			assert.Equal(t, tt.destination, dest)
			if tt.days == nil {
				assert.Nil(t, days)
			} else {
				require.NotNil(t, days)
				assert.Equal(t, *tt.days, *days)
			}
		})
	}
}

func intPtr(n int) *int { return &n }
