// Package domain contains subscription entitlement types and the tier
// comparison rules used when a new purchase lands.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Subscription is a time-boxed entitlement to a bundle. PaymentID ties
// the row to the payment that produced it; the unique index makes
// activation idempotent under webhook retries.
type Subscription struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID  `gorm:"column:user_id;not null;index" json:"user_id"`
	BundleID  snowflake.ID  `gorm:"column:bundle_id;not null;index" json:"bundle_id"`
	PaymentID *snowflake.ID `gorm:"column:payment_id;uniqueIndex" json:"payment_id"`
	StartDate time.Time     `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   time.Time     `gorm:"column:end_date;not null;index" json:"end_date"`
	IsActive  bool          `gorm:"not null;default:true" json:"is_active"`
	AutoRenew bool          `gorm:"column:auto_renew;not null;default:false" json:"auto_renew"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// DaysPerMonth is the fixed month length used for entitlement periods.
// Purchases are sold in 30-day blocks, not calendar months.
const DaysPerMonth = 30

// PeriodFor returns the entitlement window for a purchase of the given
// month count starting at start.
func PeriodFor(start time.Time, months int) (time.Time, time.Time) {
	if months < 1 {
		months = 1
	}
	return start, start.Add(time.Duration(months*DaysPerMonth) * 24 * time.Hour)
}

// Current reports whether the subscription grants access at the given
// instant.
func (s Subscription) Current(now time.Time) bool {
	return s.IsActive && now.Before(s.EndDate) && !now.Before(s.StartDate)
}
