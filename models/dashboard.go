package models

// DashboardStats is the aggregate counters block on the dashboard read model.
type DashboardStats struct {
	TotalSummaries   int `json:"total_summaries"`
	TotalExports     int `json:"total_exports"`
	TotalCRMPushes   int `json:"total_crm_pushes"`
	ActiveShares     int `json:"active_shares"`
	UnreadNotificats int `json:"unread_notifications"`
}

// DashboardData is the read model served to the web frontend. Every field
// besides User is independently nullable: a failed sub-fetch yields nil for
// that field rather than a misleading zero value.
type DashboardData struct {
	User            *User               `json:"user"`
	Subscription    *Subscription       `json:"subscription,omitempty"`
	Stats           *DashboardStats     `json:"stats,omitempty"`
	SlackWorkspaces []*SlackIntegration `json:"slack_workspaces,omitempty"`
	RecentSummaries []*Summary          `json:"recent_summaries,omitempty"`
	Notifications   []*Notification     `json:"notifications,omitempty"`
}

// SummarizeRequest is a transcript entering the pipeline from any source.
type SummarizeRequest struct {
	Transcript     string            `json:"transcript"`
	Title          string            `json:"title,omitempty"`
	SourceType     SummarySourceType `json:"source_type,omitempty"`
	OrganizationID *string           `json:"organization_id,omitempty"`
	SlackChannel   *string           `json:"slack_channel,omitempty"`
	FileName       *string           `json:"file_name,omitempty"`
}

// DeliveryReport describes what happened after a summary was stored.
type DeliveryReport struct {
	SlackPost *SlackPostResult `json:"slack_post,omitempty"`
	CRMPush   *CRMPushReport   `json:"crm_push,omitempty"`
}

// SummarizeResult is the pipeline outcome: the stored summary plus whatever
// deliveries fired.
type SummarizeResult struct {
	Summary  *Summary        `json:"summary"`
	Delivery *DeliveryReport `json:"delivery,omitempty"`
}
