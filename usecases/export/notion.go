package export

import (
	"fmt"
	"strings"
	"time"

	"scribebackend/models"
)

// renderNotionMarkdown produces a markdown document shaped for Notion import:
// a metadata header block, the content with normalized headings and bullets,
// and a generated footer.
func renderNotionMarkdown(summary *models.Summary) (*models.ExportArtifact, error) {
	var b strings.Builder

	b.WriteString("# " + summary.Title + "\n\n")

	b.WriteString("> **Source:** " + string(summary.SourceType))
	if summary.Metadata.ChannelName != "" {
		b.WriteString("  |  **Channel:** #" + summary.Metadata.ChannelName)
	}
	if summary.AIModel != nil {
		b.WriteString("  |  **Model:** " + *summary.AIModel)
	}
	b.WriteString("\n> **Created:** " + summary.CreatedAt.Format("January 2, 2006 15:04 MST") + "\n\n")

	b.WriteString("---\n\n")
	b.WriteString(normalizeMarkdown(summary.Content))
	b.WriteString("\n\n---\n\n")

	if len(summary.Metadata.SkillsDetected) > 0 {
		b.WriteString("**Skills:** " + strings.Join(summary.Metadata.SkillsDetected, ", ") + "\n\n")
	}
	b.WriteString(fmt.Sprintf("_Exported %s_\n", time.Now().UTC().Format(time.RFC3339)))

	return &models.ExportArtifact{
		FileName:    fmt.Sprintf("summary-%s.md", summary.ID),
		ContentType: "text/markdown",
		Data:        []byte(b.String()),
	}, nil
}

// normalizeMarkdown demotes top-level headings below the document title and
// rewrites the bullet variants LLM output tends to mix (-, *, •) to "-".
func normalizeMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(trimmed, "# "):
			lines[i] = "## " + strings.TrimPrefix(trimmed, "# ")
		case strings.HasPrefix(trimmed, "* "):
			lines[i] = "- " + strings.TrimPrefix(trimmed, "* ")
		case strings.HasPrefix(trimmed, "• "):
			lines[i] = "- " + strings.TrimPrefix(trimmed, "• ")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
