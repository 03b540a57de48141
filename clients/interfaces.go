package clients

import (
	"context"
	"net/http"
)

// SummaryGenerationContext carries optional hints about where a transcript
// came from; prompt construction uses whatever is present.
type SummaryGenerationContext struct {
	Title       string
	ChannelName string
	SourceType  string
}

// SummaryResult is what the LLM returned for one transcript.
type SummaryResult struct {
	Content        string
	Model          string
	SkillsDetected []string
}

// LLMClient defines the interface for the summarization upstream. A single
// attempt per call: no retries, no streaming, no chunking.
type LLMClient interface {
	GenerateSummary(
		ctx context.Context,
		transcript string,
		genCtx *SummaryGenerationContext,
	) (*SummaryResult, error)
}

// SlackSummaryMessage is the renderable shape of a summary headed for Slack.
type SlackSummaryMessage struct {
	Title        string
	Body         string
	Truncated    bool
	Footer       string
	DashboardURL string
}

// SlackPostMessageResponse contains the channel and timestamp of a posted message
type SlackPostMessageResponse struct {
	Channel   string
	Timestamp string
}

// SlackAuthTestResponse contains bot identity information
type SlackAuthTestResponse struct {
	UserID string
	TeamID string
}

// OAuthV2Response contains the data extracted from a Slack OAuth exchange
type OAuthV2Response struct {
	TeamID       string
	TeamName     string
	AccessToken  string
	AuthedUserID string
}

// SlackClient defines the interface for Slack operations used by the poster
type SlackClient interface {
	PostSummaryMessage(
		ctx context.Context,
		channelID string,
		message *SlackSummaryMessage,
	) (*SlackPostMessageResponse, error)
	OpenDMChannel(ctx context.Context, slackUserID string) (string, error)
	AuthTest() (*SlackAuthTestResponse, error)
}

// SlackOAuthClient defines the interface for Slack OAuth operations
type SlackOAuthClient interface {
	GetOAuthV2Response(
		httpClient *http.Client,
		clientID, clientSecret, code, redirectURL string,
	) (*OAuthV2Response, error)
}

// SlackClientFactory creates a SlackClient for a stored integration token
type SlackClientFactory func(authToken string) SlackClient

// CRMNote is the summary content shaped for a CRM write.
type CRMNote struct {
	SummaryID  string
	Title      string
	Content    string
	SourceType string
}

// CRMClient defines the interface a CRM-specific client implements. Each push
// creates a note/page/record and returns its remote identifier.
type CRMClient interface {
	PushSummaryNote(ctx context.Context, note *CRMNote) (string, error)
}
