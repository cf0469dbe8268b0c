package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tags stripped", "<p>Fleet telemetry</p>", "Fleet telemetry"},
		{"entities decoded", "Trucks &amp; trailers", "Trucks & trailers"},
		{"markdown link keeps text", "see [the report](https://example.com) here", "see the report here"},
		{"markdown image removed", "![logo](https://example.com/a.png) intro text", "intro text"},
		{"headers removed", "## Overview of results", "Overview of results"},
		{"whitespace collapsed", "a\n\n   b\tc", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHTML(tt.in))
		})
	}
}

func TestCleanHTMLWebNoise(t *testing.T) {
	got := CleanHTML("Axle sensors cut downtime. Subscribe")
	assert.NotContains(t, got, "Subscribe")
	assert.Contains(t, got, "Axle sensors cut downtime")
}

func TestTruncateSmartShortInputUntouched(t *testing.T) {
	assert.Equal(t, "short", TruncateSmart("short", 100))
}

func TestTruncateSmartPrefersSentenceBoundary(t *testing.T) {
	text := "First sentence is right here. Second sentence carries on for a while longer than the limit allows."
	got := TruncateSmart(text, 60)
	assert.Equal(t, "First sentence is right here.", got)
}

func TestTruncateSmartFallsBackToWordBoundary(t *testing.T) {
	text := strings.Repeat("word ", 40)
	got := TruncateSmart(text, 50)
	require.LessOrEqual(t, len(got), 54)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTruncateSmartKeepsRuneBoundaries(t *testing.T) {
	got := TruncateSmart(strings.Repeat("é", 100), 25)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 12)+"...", got)
}

func TestExtractSentences(t *testing.T) {
	text := "Too short. This one is long enough to keep around. And this second sentence also qualifies nicely. Third keeper sentence is here as well."
	got := ExtractSentences(text, 2)
	assert.Contains(t, got, "long enough to keep around")
	assert.Contains(t, got, "second sentence also qualifies")
	assert.NotContains(t, got, "Third keeper")
}

func TestParseBullets(t *testing.T) {
	reply := "- Growing demand for predictive maintenance across fleets\n* short\n• Telematics adoption keeps accelerating in Europe\n\nPlain line that is clearly long enough to keep"
	got := ParseBullets(reply, 20)
	require.Len(t, got, 3)
	assert.Equal(t, "Growing demand for predictive maintenance across fleets", got[0])
	assert.Equal(t, "Telematics adoption keeps accelerating in Europe", got[1])
}
