package models

import (
	"time"

	"github.com/lib/pq"
)

// SettingType represents the type of setting value
type SettingType string

const (
	SettingTypeBool      SettingType = "bool"
	SettingTypeString    SettingType = "string"
	SettingTypeStringArr SettingType = "stringarr"
)

// Supported setting keys
const (
	SettingSlackAutoPostEnabled = "slack/auto_post_enabled"
	SettingSlackPreferDM        = "slack/prefer_dm"
	SettingCRMAutoPushEnabled   = "crm/auto_push_enabled"
	SettingCRMDefaultTargets    = "crm/default_targets"
)

// SettingKeyDefinition defines a supported setting key with its expected type
type SettingKeyDefinition struct {
	Key  string
	Type SettingType
}

// SupportedSettings is the registry of all supported setting keys with their types
var SupportedSettings = map[string]SettingKeyDefinition{
	SettingSlackAutoPostEnabled: {Key: SettingSlackAutoPostEnabled, Type: SettingTypeBool},
	SettingSlackPreferDM:        {Key: SettingSlackPreferDM, Type: SettingTypeBool},
	SettingCRMAutoPushEnabled:   {Key: SettingCRMAutoPushEnabled, Type: SettingTypeBool},
	SettingCRMDefaultTargets:    {Key: SettingCRMDefaultTargets, Type: SettingTypeStringArr},
}

// Setting represents a per-user setting with all possible value types
type Setting struct {
	ID             string         `json:"id"                        db:"id"`
	UserID         string         `json:"user_id"                   db:"user_id"`
	Key            string         `json:"key"                       db:"key"`
	ValueBoolean   *bool          `json:"value_boolean,omitempty"   db:"value_boolean"`
	ValueString    *string        `json:"value_string,omitempty"    db:"value_string"`
	ValueStringArr pq.StringArray `json:"value_stringarr,omitempty" db:"value_stringarr"`
	CreatedAt      time.Time      `json:"created_at"                db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"                db:"updated_at"`
}

// BoolValue returns the boolean value, or fallback when unset or non-boolean
func (s *Setting) BoolValue(fallback bool) bool {
	if s == nil || s.ValueBoolean == nil {
		return fallback
	}
	return *s.ValueBoolean
}

// StringArrValue returns the string array value, or nil when unset
func (s *Setting) StringArrValue() []string {
	if s == nil || len(s.ValueStringArr) == 0 {
		return nil
	}
	return []string(s.ValueStringArr)
}

// GetSettingType returns the type of the setting based on which value field is set
func (s *Setting) GetSettingType() SettingType {
	if s.ValueBoolean != nil {
		return SettingTypeBool
	}
	if s.ValueString != nil {
		return SettingTypeString
	}
	if len(s.ValueStringArr) > 0 {
		return SettingTypeStringArr
	}
	return ""
}
