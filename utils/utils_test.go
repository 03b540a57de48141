package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertMarkdownToSlack(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Single bold word",
			input:    "This is **bold** text",
			expected: "This is *bold* text",
		},
		{
			name:     "Heading level 2",
			input:    "## Key Decisions",
			expected: "*Key Decisions*",
		},
		{
			name:     "Heading with embedded bold",
			input:    "# Title with **emphasis**",
			expected: "*Title with emphasis*",
		},
		{
			name:     "Markdown link",
			input:    "See [the dashboard](https://app.example.com) for details",
			expected: "See <https://app.example.com|the dashboard> for details",
		},
		{
			name:     "Mixed headings bold and links",
			input:    "## Action Items\n- Review the [roadmap](https://example.com/r)\n- Ship the **beta**",
			expected: "*Action Items*\n- Review the <https://example.com/r|roadmap>\n- Ship the *beta*",
		},
		{
			name:     "Hashtag in middle of line (not heading)",
			input:    "This is not # a heading",
			expected: "This is not # a heading",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertMarkdownToSlack(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Run("ShortTextUntouched", func(t *testing.T) {
		text := "short summary"
		result, truncated := TruncateRunes(text, 100)
		assert.False(t, truncated)
		assert.Equal(t, text, result)
	})

	t.Run("ExactLimitUntouched", func(t *testing.T) {
		text := strings.Repeat("a", 50)
		result, truncated := TruncateRunes(text, 50)
		assert.False(t, truncated)
		assert.Equal(t, text, result)
	})

	t.Run("CutsAtLineBoundary", func(t *testing.T) {
		line := strings.Repeat("b", 40)
		text := line + "\n" + line + "\n" + line
		result, truncated := TruncateRunes(text, 100)
		assert.True(t, truncated)
		assert.Equal(t, line+"\n"+line+"…", result)
	})

	t.Run("CutsMidLineWhenNoNearbyBreak", func(t *testing.T) {
		text := strings.Repeat("c", 200)
		result, truncated := TruncateRunes(text, 100)
		assert.True(t, truncated)
		assert.Equal(t, strings.Repeat("c", 100)+"…", result)
	})

	t.Run("CountsRunesNotBytes", func(t *testing.T) {
		text := strings.Repeat("é", 80)
		result, truncated := TruncateRunes(text, 100)
		assert.False(t, truncated)
		assert.Equal(t, text, result)
	})
}
