package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scribebackend/clients"
)

const (
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"

	// Notion caps a single rich text object at 2000 characters
	maxRichTextLength = 2000
)

// NotionClient implements the clients.CRMClient interface by creating a page
// under a configured parent page.
type NotionClient struct {
	httpClient   *http.Client
	baseURL      string
	accessToken  string
	parentPageID string
}

// NewNotionClient creates a new Notion client targeting the given parent page
func NewNotionClient(accessToken, parentPageID string) clients.CRMClient {
	return &NotionClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      defaultBaseURL,
		accessToken:  accessToken,
		parentPageID: parentPageID,
	}
}

type createPageResponse struct {
	ID string `json:"id"`
}

// PushSummaryNote creates a Notion page holding the summary content and
// returns the created page's ID
func (c *NotionClient) PushSummaryNote(ctx context.Context, note *clients.CRMNote) (string, error) {
	payload := map[string]any{
		"parent": map[string]any{"page_id": c.parentPageID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": note.Title}},
				},
			},
		},
		"children": buildParagraphBlocks(note.Content),
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/pages",
		bytes.NewBuffer(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to push page to Notion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("notion page creation failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var pageResp createPageResponse
	if err := json.NewDecoder(resp.Body).Decode(&pageResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if pageResp.ID == "" {
		return "", fmt.Errorf("missing page ID in response")
	}

	return pageResp.ID, nil
}

// buildParagraphBlocks splits content into paragraph blocks, each within
// Notion's rich text length limit
func buildParagraphBlocks(content string) []map[string]any {
	var blocks []map[string]any
	for _, paragraph := range strings.Split(content, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		for len(paragraph) > 0 {
			chunk := paragraph
			if len(chunk) > maxRichTextLength {
				chunk = chunk[:maxRichTextLength]
			}
			paragraph = paragraph[len(chunk):]

			blocks = append(blocks, map[string]any{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]any{
					"rich_text": []map[string]any{
						{"type": "text", "text": map[string]any{"content": chunk}},
					},
				},
			})
		}
	}
	return blocks
}
