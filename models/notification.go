package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationTypeExportCompleted NotificationType = "export_completed"
	NotificationTypeSlackPosted     NotificationType = "slack_posted"
	NotificationTypeCRMPushed       NotificationType = "crm_pushed"
	NotificationTypeSummaryCreated  NotificationType = "summary_created"
)

// NotificationData is the jsonb payload on a notification.
type NotificationData map[string]any

func (d NotificationData) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal(map[string]any{})
	}
	return json.Marshal(d)
}

func (d *NotificationData) Scan(src any) error {
	return scanJSON(src, d, "NotificationData")
}

// Notification is written as a side effect of exports, posts, and pushes, and
// read by the dashboard notification center.
type Notification struct {
	ID             string           `db:"id"              json:"id"`
	UserID         string           `db:"user_id"         json:"user_id"`
	OrganizationID *string          `db:"organization_id" json:"organization_id,omitempty"`
	Type           NotificationType `db:"type"            json:"type"`
	Title          string           `db:"title"           json:"title"`
	Message        string           `db:"message"         json:"message"`
	Data           NotificationData `db:"data"            json:"data"`
	ReadAt         *time.Time       `db:"read_at"         json:"read_at,omitempty"`
	CreatedAt      time.Time        `db:"created_at"      json:"created_at"`
}
