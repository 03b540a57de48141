package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID with the specified prefix.
// The resulting ID follows the format: prefix_ULID
// Example: NewID("sum") returns "sum_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	if strings.TrimSpace(prefix) == "" {
		panic("Prefix cannot be empty")
	}

	cleanPrefix := strings.TrimSpace(strings.ToLower(prefix))
	ulid := ulid.Make()

	return fmt.Sprintf("%s_%s", cleanPrefix, ulid.String())
}

var prefixedULIDPattern = regexp.MustCompile(`^[a-z]+_[0-9A-HJKMNP-TV-Z]{26}$`)

// IsValidID reports whether s is a prefixed ULID as produced by NewID
func IsValidID(s string) bool {
	return prefixedULIDPattern.MatchString(s)
}
