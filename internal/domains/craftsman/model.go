package craftsman

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Craftsman is the service-provider profile, a 1:1 extension of a user
// with role craftsman.
type Craftsman struct {
	ID     uuid.UUID `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`

	BusinessName    string  `db:"business_name" json:"business_name"`
	Slug            string  `db:"slug" json:"slug"`
	Description     string  `db:"description" json:"description"`
	Category        string  `db:"category" json:"category"`
	County          string  `db:"county" json:"county"`
	City            string  `db:"city" json:"city"`
	Address         *string `db:"address" json:"address,omitempty"`
	Phone           *string `db:"phone" json:"phone,omitempty"`
	ExperienceYears int     `db:"experience_years" json:"experience_years"`

	Rating      decimal.Decimal `db:"rating" json:"rating"`
	ReviewCount int             `db:"review_count" json:"review_count"`

	Verified bool `db:"verified" json:"verified"`

	SubscriptionStatus    SubscriptionStatus `db:"subscription_status" json:"subscription_status"`
	SubscriptionPlan      SubscriptionPlan   `db:"subscription_plan" json:"subscription_plan"`
	SubscriptionPrice     decimal.Decimal    `db:"subscription_price" json:"subscription_price"`
	SubscriptionStartDate *time.Time         `db:"subscription_start_date" json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time         `db:"subscription_end_date" json:"subscription_end_date,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubscriptionStatus state machine: INACTIVE → ACTIVE → EXPIRED.
type SubscriptionStatus string

const (
	SubscriptionInactive SubscriptionStatus = "INACTIVE"
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionExpired  SubscriptionStatus = "EXPIRED"
)

// SubscriptionPlan enum with its price catalog.
type SubscriptionPlan string

const (
	PlanBasic   SubscriptionPlan = "BASIC"
	PlanPremium SubscriptionPlan = "PREMIUM"
)

func (p SubscriptionPlan) IsValid() bool {
	switch p {
	case PlanBasic, PlanPremium:
		return true
	}
	return false
}

// PlanPrice returns the monthly price in RON. Snapshotted onto the
// craftsman row at approval so later catalog changes do not rewrite
// existing subscriptions.
func PlanPrice(plan SubscriptionPlan) decimal.Decimal {
	switch plan {
	case PlanPremium:
		return decimal.NewFromInt(99)
	default:
		return decimal.NewFromInt(49)
	}
}

// SubscriptionWindow is the fixed active period granted on approval.
const SubscriptionWindow = 30 * 24 * time.Hour

// EffectiveSubscriptionStatus evaluates expiry lazily: an ACTIVE row whose
// end date has passed reads as EXPIRED even before the daily sweep
// persists it.
func (c *Craftsman) EffectiveSubscriptionStatus(now time.Time) SubscriptionStatus {
	if c.SubscriptionStatus == SubscriptionActive &&
		c.SubscriptionEndDate != nil &&
		now.After(*c.SubscriptionEndDate) {
		return SubscriptionExpired
	}
	return c.SubscriptionStatus
}

// IsPubliclyVisible reports whether the profile belongs in the public
// directory.
func (c *Craftsman) IsPubliclyVisible(now time.Time) bool {
	return c.Verified && c.EffectiveSubscriptionStatus(now) == SubscriptionActive
}
