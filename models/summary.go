package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type SummarySourceType string

const (
	SummarySourceSlack  SummarySourceType = "slack"
	SummarySourceUpload SummarySourceType = "upload"
	SummarySourceManual SummarySourceType = "manual"
)

// IsValid reports whether the source type is one of the known variants
func (s SummarySourceType) IsValid() bool {
	switch s {
	case SummarySourceSlack, SummarySourceUpload, SummarySourceManual:
		return true
	}
	return false
}

// SummaryMetadata is the typed shape of the summaries.metadata jsonb column.
// Known fields are first-class; anything else a producer attached survives
// round trips through Extra.
type SummaryMetadata struct {
	ChannelName    string   `json:"channel_name,omitempty"`
	MessageCount   int      `json:"message_count,omitempty"`
	Participants   []string `json:"participants,omitempty"`
	SkillsDetected []string `json:"skills_detected,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownMetadataFields = map[string]bool{
	"channel_name":    true,
	"message_count":   true,
	"participants":    true,
	"skills_detected": true,
}

func (m SummaryMetadata) MarshalJSON() ([]byte, error) {
	type alias SummaryMetadata
	base, err := json.Marshal(alias(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range m.Extra {
		if !knownMetadataFields[key] {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

func (m *SummaryMetadata) UnmarshalJSON(data []byte) error {
	type alias SummaryMetadata
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if knownMetadataFields[key] {
			delete(raw, key)
		}
	}

	*m = SummaryMetadata(known)
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

func (m SummaryMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *SummaryMetadata) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = SummaryMetadata{}
		return nil
	}
	return fmt.Errorf("unsupported type for SummaryMetadata: %T", src)
}

// Summary is the persisted AI-generated artifact. Content is immutable after
// creation; exports and shares only ever read it.
type Summary struct {
	ID             string            `db:"id"              json:"id"`
	UserID         string            `db:"user_id"         json:"user_id"`
	OrganizationID *string           `db:"organization_id" json:"organization_id,omitempty"`
	Title          string            `db:"title"           json:"title"`
	Content        string            `db:"content"         json:"content"`
	SourceType     SummarySourceType `db:"source_type"     json:"source_type"`
	SlackChannel   *string           `db:"slack_channel"   json:"slack_channel,omitempty"`
	FileName       *string           `db:"file_name"       json:"file_name,omitempty"`
	AIModel        *string           `db:"ai_model"        json:"ai_model,omitempty"`
	Metadata       SummaryMetadata   `db:"metadata"        json:"metadata"`
	CreatedAt      time.Time         `db:"created_at"      json:"created_at"`
}
