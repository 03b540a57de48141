package api

import (
	"time"

	"scribebackend/models"
)

// UserModel represents the user data returned by the API
type UserModel struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlackIntegrationModel represents a connected Slack workspace. The access
// token never leaves the backend.
type SlackIntegrationModel struct {
	ID            string    `json:"id"`
	SlackTeamID   string    `json:"slack_team_id"`
	SlackTeamName string    `json:"slack_team_name"`
	UserID        string    `json:"user_id"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SharedSummaryModel represents a share as seen by its owner
type SharedSummaryModel struct {
	ID              string                `json:"id"`
	SummaryID       string                `json:"summary_id"`
	ShareToken      string                `json:"share_token"`
	ShareURL        string                `json:"share_url"`
	ViewCount       int                   `json:"view_count"`
	MaxViews        int                   `json:"max_views"`
	ExpiresAt       time.Time             `json:"expires_at"`
	IsActive        bool                  `json:"is_active"`
	HasPassword     bool                  `json:"has_password"`
	Branding        models.ShareBranding  `json:"branding"`
	Analytics       models.ShareAnalytics `json:"analytics"`
	ConversionCount int                   `json:"conversion_count"`
	LastViewedAt    *time.Time            `json:"last_viewed_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// SharedViewModel is what an anonymous viewer receives for an accepted view.
// It exposes the summary content and branding, nothing about the owner.
type SharedViewModel struct {
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	AIModel   *string              `json:"ai_model,omitempty"`
	Branding  models.ShareBranding `json:"branding"`
	CreatedAt time.Time            `json:"created_at"`
}
