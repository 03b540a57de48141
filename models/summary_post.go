package models

import (
	"time"
)

type SummaryPostStatus string

const (
	SummaryPostStatusPosted SummaryPostStatus = "posted"
	SummaryPostStatusFailed SummaryPostStatus = "failed"
)

// SummaryPost records a single Slack delivery attempt for a summary.
type SummaryPost struct {
	ID             string            `db:"id"               json:"id"`
	SummaryID      string            `db:"summary_id"       json:"summary_id"`
	UserID         string            `db:"user_id"          json:"user_id"`
	SlackChannelID string            `db:"slack_channel_id" json:"slack_channel_id"`
	SlackMessageTS *string           `db:"slack_message_ts" json:"slack_message_ts,omitempty"`
	Status         SummaryPostStatus `db:"status"           json:"status"`
	ErrorLog       *string           `db:"error_log"        json:"error_log,omitempty"`
	RetryCount     int               `db:"retry_count"      json:"retry_count"`
	PostedAt       *time.Time        `db:"posted_at"        json:"posted_at,omitempty"`
	CreatedAt      time.Time         `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at"       json:"updated_at"`
}

// SlackPostResult is the outcome of one post attempt. A disabled setting or a
// missing integration is a reported failure here, never an error.
type SlackPostResult struct {
	Success   bool   `json:"success"`
	MessageTS string `json:"message_ts,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SlackRetryReport summarizes one manual retry sweep over failed posts.
type SlackRetryReport struct {
	Scanned     int `json:"scanned"`
	Recovered   int `json:"recovered"`
	StillFailed int `json:"still_failed"`
}
