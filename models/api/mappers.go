package api

import (
	"fmt"

	"scribebackend/models"
)

// DomainUserToAPIUser converts a domain User model to an API UserModel
func DomainUserToAPIUser(domainUser *models.User) *UserModel {
	if domainUser == nil {
		return nil
	}

	return &UserModel{
		ID:        domainUser.ID,
		Email:     domainUser.Email,
		CreatedAt: domainUser.CreatedAt,
		UpdatedAt: domainUser.UpdatedAt,
	}
}

// DomainSlackIntegrationToAPISlackIntegration converts a domain SlackIntegration model to an API SlackIntegrationModel
func DomainSlackIntegrationToAPISlackIntegration(domainIntegration *models.SlackIntegration) *SlackIntegrationModel {
	if domainIntegration == nil {
		return nil
	}

	return &SlackIntegrationModel{
		ID:            domainIntegration.ID,
		SlackTeamID:   domainIntegration.SlackTeamID,
		SlackTeamName: domainIntegration.SlackTeamName,
		UserID:        domainIntegration.UserID,
		IsActive:      domainIntegration.IsActive,
		CreatedAt:     domainIntegration.CreatedAt,
		UpdatedAt:     domainIntegration.UpdatedAt,
	}
}

// DomainShareToAPIShare converts a domain SharedSummary to its owner-facing
// API model. shareBaseURL is the public frontend origin.
func DomainShareToAPIShare(domainShare *models.SharedSummary, shareBaseURL string) *SharedSummaryModel {
	if domainShare == nil {
		return nil
	}

	return &SharedSummaryModel{
		ID:              domainShare.ID,
		SummaryID:       domainShare.SummaryID,
		ShareToken:      domainShare.ShareToken,
		ShareURL:        fmt.Sprintf("%s/shared/%s", shareBaseURL, domainShare.ShareToken),
		ViewCount:       domainShare.ViewCount,
		MaxViews:        domainShare.MaxViews,
		ExpiresAt:       domainShare.ExpiresAt,
		IsActive:        domainShare.IsActive,
		HasPassword:     domainShare.PasswordHash != nil,
		Branding:        domainShare.Branding,
		Analytics:       domainShare.Analytics,
		ConversionCount: domainShare.ConversionCount,
		LastViewedAt:    domainShare.LastViewedAt,
		CreatedAt:       domainShare.CreatedAt,
	}
}

// DomainSummaryToSharedView converts a summary plus its share's branding into
// the anonymous viewer payload
func DomainSummaryToSharedView(summary *models.Summary, branding models.ShareBranding) *SharedViewModel {
	if summary == nil {
		return nil
	}

	return &SharedViewModel{
		Title:     summary.Title,
		Content:   summary.Content,
		AIModel:   summary.AIModel,
		Branding:  branding,
		CreatedAt: summary.CreatedAt,
	}
}
