package models

import (
	"time"
)

type SlackIntegration struct {
	ID             string    `db:"id"              json:"id"`
	UserID         string    `db:"user_id"         json:"user_id"`
	OrganizationID *string   `db:"organization_id" json:"organization_id,omitempty"`
	SlackTeamID    string    `db:"slack_team_id"   json:"slack_team_id"`
	SlackTeamName  string    `db:"slack_team_name" json:"slack_team_name"`
	AccessToken    string    `db:"access_token"    json:"-"`
	AuthedUserID   string    `db:"authed_user_id"  json:"authed_user_id"`
	IsActive       bool      `db:"is_active"       json:"is_active"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}
