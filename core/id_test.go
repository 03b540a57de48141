package core

import (
	"regexp"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_ValidPrefix(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		expected string
	}{
		{
			name:     "simple prefix",
			prefix:   "sum",
			expected: "sum",
		},
		{
			name:     "uppercase prefix gets lowercased",
			prefix:   "SUM",
			expected: "sum",
		},
		{
			name:     "prefix with leading/trailing spaces gets trimmed",
			prefix:   "  shr  ",
			expected: "shr",
		},
		{
			name:     "single character prefix",
			prefix:   "u",
			expected: "u",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := NewID(tc.prefix)

			parts := strings.Split(id, "_")
			require.Len(t, parts, 2, "ID should have exactly one underscore separating prefix and ULID")

			assert.Equal(t, tc.expected, parts[0], "Prefix should be cleaned correctly")

			ulidPart := parts[1]
			assert.Len(t, ulidPart, 26, "ULID should be 26 characters long")

			_, err := ulid.Parse(ulidPart)
			assert.NoError(t, err, "ULID part should be parseable as valid ULID")
		})
	}
}

func TestNewID_EmptyPrefix_Panics(t *testing.T) {
	for _, prefix := range []string{"", "   ", "\t\t"} {
		assert.Panics(t, func() {
			NewID(prefix)
		}, "Should panic with empty or whitespace-only prefix")
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID("test")
		assert.False(t, ids[id], "Generated ID should be unique: %s", id)
		ids[id] = true
	}
	assert.Len(t, ids, 1000)
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID(NewID("sum")))
	assert.True(t, IsValidID("sum_01G0EZ1XTM37C5X11SQTDNCTM1"))
	assert.False(t, IsValidID("sum_notaulid"))
	assert.False(t, IsValidID("01G0EZ1XTM37C5X11SQTDNCTM1"))
	assert.False(t, IsValidID(""))
}

func TestNewShareToken(t *testing.T) {
	token, err := NewShareToken()
	require.NoError(t, err)

	// 32 bytes base64url without padding is 43 characters
	assert.Len(t, token, 43)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), token)

	other, err := NewShareToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "tokens should be unique")
}
