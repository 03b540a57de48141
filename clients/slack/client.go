package slack

import (
	"context"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"

	"scribebackend/clients"
)

// SlackClient implements the clients.SlackClient interface using the slack-go/slack SDK
type SlackClient struct {
	*slack.Client
}

// NewSlackClient creates a new Slack client with the provided auth token
func NewSlackClient(authToken string) clients.SlackClient {
	return &SlackClient{
		Client: slack.New(authToken),
	}
}

// NewSlackOAuthClient creates a new Slack client for OAuth operations only
// This can be used when you don't have an auth token yet
func NewSlackOAuthClient() clients.SlackOAuthClient {
	return &SlackClient{
		Client: slack.New(""), // Empty token for OAuth-only operations
	}
}

// GetOAuthV2Response exchanges an OAuth authorization code for access tokens
func (c *SlackClient) GetOAuthV2Response(
	httpClient *http.Client,
	clientID, clientSecret, code, redirectURL string,
) (*clients.OAuthV2Response, error) {
	slackResponse, err := slack.GetOAuthV2Response(httpClient, clientID, clientSecret, code, redirectURL)
	if err != nil {
		return nil, err
	}

	return &clients.OAuthV2Response{
		TeamID:       slackResponse.Team.ID,
		TeamName:     slackResponse.Team.Name,
		AccessToken:  slackResponse.AccessToken,
		AuthedUserID: slackResponse.AuthedUser.ID,
	}, nil
}

// AuthTest verifies the bot token and returns information about the bot
func (c *SlackClient) AuthTest() (*clients.SlackAuthTestResponse, error) {
	response, err := c.Client.AuthTest()
	if err != nil {
		return nil, err
	}

	return &clients.SlackAuthTestResponse{
		UserID: response.UserID,
		TeamID: response.TeamID,
	}, nil
}

// OpenDMChannel opens (or resolves) a direct message channel with a user and
// returns its channel ID
func (c *SlackClient) OpenDMChannel(ctx context.Context, slackUserID string) (string, error) {
	channel, _, _, err := c.Client.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users:    []string{slackUserID},
		ReturnIM: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open DM channel: %w", err)
	}
	return channel.ID, nil
}

// PostSummaryMessage renders a summary message as Slack blocks and posts it:
// a header block, the (possibly truncated) body, a context footer, and a
// button linking back to the dashboard.
func (c *SlackClient) PostSummaryMessage(
	ctx context.Context,
	channelID string,
	message *clients.SlackSummaryMessage,
) (*clients.SlackPostMessageResponse, error) {
	body := message.Body
	if message.Truncated {
		body += "\n_…content truncated_"
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, message.Title, false, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, body, false, false),
			nil, nil,
		),
	}

	if message.Footer != "" {
		blocks = append(blocks, slack.NewContextBlock(
			"",
			slack.NewTextBlockObject(slack.MarkdownType, message.Footer, false, false),
		))
	}

	if message.DashboardURL != "" {
		button := slack.NewButtonBlockElement(
			"view_full_summary",
			message.DashboardURL,
			slack.NewTextBlockObject(slack.PlainTextType, "View Full Summary", false, false),
		)
		button.URL = message.DashboardURL
		blocks = append(blocks, slack.NewActionBlock("", button))
	}

	channel, timestamp, err := c.Client.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(message.Title, false), // fallback for notifications
	)
	if err != nil {
		return nil, err
	}

	return &clients.SlackPostMessageResponse{
		Channel:   channel,
		Timestamp: timestamp,
	}, nil
}
