package models

import (
	"time"
)

type CRMType string

const (
	CRMTypeHubSpot    CRMType = "hubspot"
	CRMTypeSalesforce CRMType = "salesforce"
	CRMTypeNotion     CRMType = "notion"
)

// SupportedCRMTypes is the registry of CRM targets a push can address.
var SupportedCRMTypes = map[CRMType]bool{
	CRMTypeHubSpot:    true,
	CRMTypeSalesforce: true,
	CRMTypeNotion:     true,
}

type CRMPushStatus string

const (
	CRMPushStatusSuccess CRMPushStatus = "success"
	CRMPushStatusFailed  CRMPushStatus = "failed"
)

// CRMPush records a single push attempt of one summary to one CRM.
type CRMPush struct {
	ID          string        `db:"id"            json:"id"`
	SummaryID   string        `db:"summary_id"    json:"summary_id"`
	UserID      string        `db:"user_id"       json:"user_id"`
	CRMType     CRMType       `db:"crm_type"      json:"crm_type"`
	Status      CRMPushStatus `db:"status"        json:"status"`
	CRMRecordID *string       `db:"crm_record_id" json:"crm_record_id,omitempty"`
	ErrorLog    *string       `db:"error_log"     json:"error_log,omitempty"`
	CreatedAt   time.Time     `db:"created_at"    json:"created_at"`
}

// CRMPushResult is the per-CRM outcome inside a fan-out. One CRM's failure
// never aborts the others.
type CRMPushResult struct {
	CRMType     CRMType `json:"crm_type"`
	Success     bool    `json:"success"`
	CRMRecordID string  `json:"crm_record_id,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// CRMPushReport aggregates a fan-out. The report is always success-shaped;
// callers inspect Results for per-item outcome.
type CRMPushReport struct {
	Results      []CRMPushResult `json:"results"`
	SuccessCount int             `json:"success_count"`
	TotalCount   int             `json:"total_count"`
}

// CRMPushStatistics aggregates push counts per status for a user
type CRMPushStatistics struct {
	Total     int `db:"total"     json:"total"`
	Succeeded int `db:"succeeded" json:"succeeded"`
	Failed    int `db:"failed"    json:"failed"`
}
