package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// IsValid reports whether the plan is one of the known tiers
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// MaxActiveShares is the per-plan cap on concurrent active shares.
// Enterprise is unlimited, signalled by -1.
func (p Plan) MaxActiveShares() int {
	switch p {
	case PlanPro:
		return 50
	case PlanEnterprise:
		return -1
	default:
		return 5
	}
}

// DefaultShareExpiryDays is how long a share lives when the creator does not
// override the expiry.
func (p Plan) DefaultShareExpiryDays() int {
	switch p {
	case PlanPro:
		return 30
	case PlanEnterprise:
		return 90
	default:
		return 7
	}
}

// Subscription is read-only in this service; billing webhooks own the writes.
type Subscription struct {
	ID               string          `db:"id"                 json:"id"`
	UserID           string          `db:"user_id"            json:"user_id"`
	Plan             Plan            `db:"plan"               json:"plan"`
	Status           string          `db:"status"             json:"status"`
	Amount           decimal.Decimal `db:"amount"             json:"amount"`
	Currency         string          `db:"currency"           json:"currency"`
	CurrentPeriodEnd *time.Time      `db:"current_period_end" json:"current_period_end,omitempty"`
	CreatedAt        time.Time       `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"         json:"updated_at"`
}
