package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ShareBranding is the jsonb branding block on a share.
type ShareBranding struct {
	ShowLogo    bool   `json:"show_logo"`
	AccentColor string `json:"accent_color,omitempty"`
	FooterText  string `json:"footer_text,omitempty"`
}

func (b ShareBranding) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *ShareBranding) Scan(src any) error {
	return scanJSON(src, b, "ShareBranding")
}

// ShareAnalytics is the jsonb analytics block on a share. Day keys are
// YYYY-MM-DD in UTC.
type ShareAnalytics struct {
	ViewsByDay      map[string]int `json:"views_by_day,omitempty"`
	ViewsByCountry  map[string]int `json:"views_by_country,omitempty"`
	ViewsByReferrer map[string]int `json:"views_by_referrer,omitempty"`
}

// RecordView bumps the per-day/per-country/per-referrer counters in place.
func (a *ShareAnalytics) RecordView(day, country, referrer string) {
	if a.ViewsByDay == nil {
		a.ViewsByDay = make(map[string]int)
	}
	a.ViewsByDay[day]++

	if country != "" {
		if a.ViewsByCountry == nil {
			a.ViewsByCountry = make(map[string]int)
		}
		a.ViewsByCountry[country]++
	}
	if referrer != "" {
		if a.ViewsByReferrer == nil {
			a.ViewsByReferrer = make(map[string]int)
		}
		a.ViewsByReferrer[referrer]++
	}
}

func (a ShareAnalytics) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *ShareAnalytics) Scan(src any) error {
	return scanJSON(src, a, "ShareAnalytics")
}

func scanJSON(src, dest any, typeName string) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	case nil:
		return nil
	}
	return fmt.Errorf("unsupported type for %s: %T", typeName, src)
}

// SharedSummary is a tokenized, access-limited public view of a summary.
// A share is servable iff is_active && now <= expires_at && view_count < max_views.
type SharedSummary struct {
	ID              string         `db:"id"               json:"id"`
	SummaryID       string         `db:"summary_id"       json:"summary_id"`
	UserID          string         `db:"user_id"          json:"user_id"`
	UserPlan        Plan           `db:"user_plan"        json:"user_plan"`
	ShareToken      string         `db:"share_token"      json:"share_token"`
	ViewCount       int            `db:"view_count"       json:"view_count"`
	MaxViews        int            `db:"max_views"        json:"max_views"`
	ExpiresAt       time.Time      `db:"expires_at"       json:"expires_at"`
	IsActive        bool           `db:"is_active"        json:"is_active"`
	PasswordHash    *string        `db:"password_hash"    json:"-"`
	Branding        ShareBranding  `db:"branding"         json:"branding"`
	Analytics       ShareAnalytics `db:"analytics"        json:"analytics"`
	LastViewedAt    *time.Time     `db:"last_viewed_at"   json:"last_viewed_at,omitempty"`
	ConversionCount int            `db:"conversion_count" json:"conversion_count"`
	CreatedAt       time.Time      `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"       json:"updated_at"`
}

// ShareViewDenialReason is why a view was rejected. Checks run in a fixed
// order: inactive, then expired, then view limit, then password.
type ShareViewDenialReason string

const (
	ShareViewDenialInactive         ShareViewDenialReason = "inactive"
	ShareViewDenialExpired          ShareViewDenialReason = "expired"
	ShareViewDenialViewLimitReached ShareViewDenialReason = "view_limit_reached"
	ShareViewDenialPasswordRequired ShareViewDenialReason = "password_required"
)

// ShareViewDecision is the outcome of a recorded view attempt.
type ShareViewDecision struct {
	CanView bool                  `json:"can_view"`
	Reason  ShareViewDenialReason `json:"reason,omitempty"`
	Share   *SharedSummary        `json:"share,omitempty"`
}

// ShareViewerMeta carries what little we know about an anonymous viewer.
type ShareViewerMeta struct {
	Country  string `json:"country,omitempty"`
	Referrer string `json:"referrer,omitempty"`
	Password string `json:"password,omitempty"`
}
