package slackintegrations

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/samber/mo"

	"scribebackend/clients"
	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type SlackIntegrationsService struct {
	slackIntegrationsRepo *db.PostgresSlackIntegrationsRepository
	oauthClient           clients.SlackOAuthClient
	slackClientID         string
	slackClientSecret     string
}

func NewSlackIntegrationsService(
	repo *db.PostgresSlackIntegrationsRepository,
	oauthClient clients.SlackOAuthClient,
	slackClientID, slackClientSecret string,
) *SlackIntegrationsService {
	return &SlackIntegrationsService{
		slackIntegrationsRepo: repo,
		oauthClient:           oauthClient,
		slackClientID:         slackClientID,
		slackClientSecret:     slackClientSecret,
	}
}

func (s *SlackIntegrationsService) CreateSlackIntegration(
	ctx context.Context,
	userID string,
	organizationID *string,
	slackAuthCode, redirectURL string,
) (*models.SlackIntegration, error) {
	log.Printf("📋 Starting to create Slack integration for user: %s", userID)

	if slackAuthCode == "" {
		return nil, fmt.Errorf("slack auth code cannot be empty")
	}
	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	// Exchange OAuth code for a bot access token
	oauthResponse, err := s.oauthClient.GetOAuthV2Response(
		&http.Client{},
		s.slackClientID,
		s.slackClientSecret,
		slackAuthCode,
		redirectURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange OAuth code with Slack: %w", err)
	}

	if oauthResponse.TeamID == "" {
		return nil, fmt.Errorf("team ID not found in Slack OAuth response")
	}
	if oauthResponse.TeamName == "" {
		return nil, fmt.Errorf("team name not found in Slack OAuth response")
	}
	if oauthResponse.AccessToken == "" {
		return nil, fmt.Errorf("bot access token not found in Slack OAuth response")
	}

	integration := &models.SlackIntegration{
		ID:             core.NewID("si"),
		UserID:         userID,
		OrganizationID: organizationID,
		SlackTeamID:    oauthResponse.TeamID,
		SlackTeamName:  oauthResponse.TeamName,
		AccessToken:    oauthResponse.AccessToken,
		AuthedUserID:   oauthResponse.AuthedUserID,
		IsActive:       true,
	}
	if err := s.slackIntegrationsRepo.CreateSlackIntegration(ctx, integration); err != nil {
		return nil, fmt.Errorf("failed to create slack integration in database: %w", err)
	}

	log.Printf("📋 Completed successfully - created Slack integration with ID: %s for team: %s",
		integration.ID, integration.SlackTeamName)
	return integration, nil
}

func (s *SlackIntegrationsService) GetActiveSlackIntegration(
	ctx context.Context,
	userID string,
	organizationID *string,
) (mo.Option[*models.SlackIntegration], error) {
	log.Printf("📋 Starting to get active Slack integration for user: %s", userID)

	if !core.IsValidID(userID) {
		return mo.None[*models.SlackIntegration](), fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	integration, err := s.slackIntegrationsRepo.GetActiveSlackIntegration(ctx, userID, organizationID)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("📋 Completed successfully - no active Slack integration for user: %s", userID)
			return mo.None[*models.SlackIntegration](), nil
		}
		return mo.None[*models.SlackIntegration](), fmt.Errorf("failed to get active slack integration: %w", err)
	}

	log.Printf("📋 Completed successfully - found active Slack integration: %s", integration.ID)
	return mo.Some(integration), nil
}

func (s *SlackIntegrationsService) GetSlackIntegrationsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.SlackIntegration, error) {
	log.Printf("📋 Starting to get Slack integrations for user: %s", userID)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	integrations, err := s.slackIntegrationsRepo.GetSlackIntegrationsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slack integrations for user: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d Slack integrations for user: %s", len(integrations), userID)
	return integrations, nil
}

func (s *SlackIntegrationsService) GetSlackIntegrationByTeamID(
	ctx context.Context,
	teamID string,
) (mo.Option[*models.SlackIntegration], error) {
	log.Printf("📋 Starting to get Slack integration for team: %s", teamID)

	if teamID == "" {
		return mo.None[*models.SlackIntegration](), fmt.Errorf("team ID cannot be empty")
	}

	integration, err := s.slackIntegrationsRepo.GetSlackIntegrationByTeamID(ctx, teamID)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("📋 Completed successfully - no Slack integration for team: %s", teamID)
			return mo.None[*models.SlackIntegration](), nil
		}
		return mo.None[*models.SlackIntegration](), fmt.Errorf("failed to get slack integration by team: %w", err)
	}

	log.Printf("📋 Completed successfully - found Slack integration: %s for team: %s", integration.ID, teamID)
	return mo.Some(integration), nil
}

func (s *SlackIntegrationsService) DeactivateSlackIntegration(
	ctx context.Context,
	integrationID, userID string,
) error {
	log.Printf("📋 Starting to deactivate Slack integration: %s", integrationID)

	if !core.IsValidID(integrationID) {
		return fmt.Errorf("integration ID must be a valid prefixed ULID")
	}
	if !core.IsValidID(userID) {
		return fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	if err := s.slackIntegrationsRepo.DeactivateSlackIntegration(ctx, integrationID, userID); err != nil {
		if core.IsNotFoundError(err) {
			return core.ErrNotFound
		}
		return fmt.Errorf("failed to deactivate slack integration: %w", err)
	}

	log.Printf("📋 Completed successfully - deactivated Slack integration: %s", integrationID)
	return nil
}
