package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"scribebackend/clients"
)

const defaultBaseURL = "https://api.hubapi.com"

// HubSpotClient implements the clients.CRMClient interface by creating a note
// engagement via the HubSpot v3 objects API.
type HubSpotClient struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

type noteProperties struct {
	HSNoteBody      string `json:"hs_note_body"`
	HSTimestamp     string `json:"hs_timestamp"`
}

type createNoteRequest struct {
	Properties noteProperties `json:"properties"`
}

type createNoteResponse struct {
	ID string `json:"id"`
}

// NewHubSpotClient creates a new HubSpot client with the provided access token
func NewHubSpotClient(accessToken string) clients.CRMClient {
	return &HubSpotClient{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
	}
}

// PushSummaryNote creates a HubSpot note holding the summary content and
// returns the created note's ID
func (c *HubSpotClient) PushSummaryNote(ctx context.Context, note *clients.CRMNote) (string, error) {
	reqBody := createNoteRequest{
		Properties: noteProperties{
			HSNoteBody:  fmt.Sprintf("<strong>%s</strong><br/><br/>%s", note.Title, note.Content),
			HSTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/crm/v3/objects/notes",
		bytes.NewBuffer(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to push note to HubSpot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("hubspot note creation failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var noteResp createNoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&noteResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if noteResp.ID == "" {
		return "", fmt.Errorf("missing note ID in response")
	}

	return noteResp.ID, nil
}
