package utils

import (
	"regexp"
	"strings"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// ConvertMarkdownToSlack rewrites common markdown constructs into Slack mrkdwn.
func ConvertMarkdownToSlack(message string) string {
	result := message

	// Step 1: Convert markdown links [text](url) to Slack format <url|text>
	// This must be done first to avoid conflicts with other formatting
	linkRegex := regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	result = linkRegex.ReplaceAllString(result, "<$2|$1>")

	// Step 2: Handle headings with embedded bold markdown by extracting and converting the content first
	headingRegex := regexp.MustCompile(`(?m)^#+\s*(.+)$`)
	result = headingRegex.ReplaceAllStringFunc(result, func(match string) string {
		// Extract the heading content after the hashtags
		content := regexp.MustCompile(`^#+\s*(.+)$`).ReplaceAllString(match, "$1")
		// Convert any **bold** to *bold* within the heading content
		boldRegex := regexp.MustCompile(`\*\*(.+?)\*\*`)
		content = boldRegex.ReplaceAllString(content, "$1")
		// Return as Slack bold format
		return "*" + content + "*"
	})

	// Step 3: Convert remaining **text** (double asterisks) to *text* (single asterisks)
	// This handles bold text that's not inside headings
	boldRegex := regexp.MustCompile(`\*\*(.+?)\*\*`)
	result = boldRegex.ReplaceAllString(result, "*$1*")

	return result
}

// TruncateRunes cuts text to at most limit runes, appending an ellipsis when
// anything was removed. Cuts on a line boundary where one is close enough so
// mid-sentence truncation stays rare.
func TruncateRunes(text string, limit int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}

	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, "\n"); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \n") + "…", true
}
