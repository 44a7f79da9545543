// Package domain contains payment records and the checkout types
// shared with the processor adapters.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of a payment record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Payment records one checkout attempt against a bundle. The row is
// created as pending when the processor intent is opened and settled
// by the webhook.
type Payment struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID            snowflake.ID      `gorm:"column:user_id;not null;index" json:"user_id"`
	BundleID          snowflake.ID      `gorm:"column:bundle_id;not null;index" json:"bundle_id"`
	ProviderPaymentID string            `gorm:"column:provider_payment_id;type:text;not null;uniqueIndex" json:"provider_payment_id"`
	AmountCents       int64             `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Currency          string            `gorm:"type:text;not null;default:'usd'" json:"currency"`
	Status            Status            `gorm:"type:text;not null;default:'pending'" json:"status"`
	MonthsPurchased   int               `gorm:"column:months_purchased;not null;default:1" json:"months_purchased"`
	DiscountPercent   int               `gorm:"column:discount_percentage;not null;default:0" json:"discount_percentage"`
	SubscriptionEnd   *time.Time        `gorm:"column:subscription_end_date" json:"subscription_end_date"`
	Metadata          datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// AllowedMonths are the purchase durations offered at checkout.
var AllowedMonths = []int{1, 6, 12}

func MonthsAllowed(months int) bool {
	for _, m := range AllowedMonths {
		if months == m {
			return true
		}
	}
	return false
}
