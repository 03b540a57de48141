package models

import (
	"time"
)

type ExportType string

const (
	ExportTypePDF    ExportType = "pdf"
	ExportTypeExcel  ExportType = "excel"
	ExportTypeNotion ExportType = "notion"
)

// IsValid reports whether the export type is one of the known formats
func (e ExportType) IsValid() bool {
	switch e {
	case ExportTypePDF, ExportTypeExcel, ExportTypeNotion:
		return true
	}
	return false
}

type ExportStatus string

const (
	ExportStatusCompleted ExportStatus = "completed"
	ExportStatusFailed    ExportStatus = "failed"
)

// Export is an append-only log row, one per export attempt.
type Export struct {
	ID           string       `db:"id"            json:"id"`
	UserID       string       `db:"user_id"       json:"user_id"`
	SummaryID    string       `db:"summary_id"    json:"summary_id"`
	ExportType   ExportType   `db:"export_type"   json:"export_type"`
	ExportStatus ExportStatus `db:"export_status" json:"export_status"`
	ErrorMessage *string      `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time    `db:"created_at"    json:"created_at"`
}

// ExportArtifact is a rendered download returned to the handler.
type ExportArtifact struct {
	FileName    string
	ContentType string
	Data        []byte
}
