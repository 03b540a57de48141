package salesforce

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

// SalesforceClient implements the clients.CRMClient interface by creating a
// Note sObject through the Salesforce REST API.
type SalesforceClient struct {
	httpClient  *http.Client
	instanceURL string
	accessToken string
	apiVersion  string
}

type createNoteRequest struct {
	Title string `json:"Title"`
	Body  string `json:"Body"`
}

type createNoteResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// NewSalesforceClient creates a new Salesforce client for the given instance
func NewSalesforceClient(instanceURL, accessToken string) clients.CRMClient {
	return &SalesforceClient{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		instanceURL: instanceURL,
		accessToken: accessToken,
		apiVersion:  "v59.0",
	}
}

// PushSummaryNote creates a Salesforce Note holding the summary content and
// returns the created record's ID
func (c *SalesforceClient) PushSummaryNote(ctx context.Context, note *clients.CRMNote) (string, error) {
	reqBody := createNoteRequest{
		Title: note.Title,
		Body:  note.Content,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/services/data/%s/sobjects/Note", c.instanceURL, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to push note to Salesforce: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("salesforce note creation failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var noteResp createNoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&noteResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if !noteResp.Success || noteResp.ID == "" {
		return "", fmt.Errorf("salesforce reported unsuccessful note creation")
	}

	return noteResp.ID, nil
}
