// Package domain contains the discount rule types and the rule
// evaluation logic applied at checkout.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Rule grants a percentage discount when the purchased month count
// falls inside [MinMonths, MaxMonths]. A nil MaxMonths means the range
// is open-ended.
type Rule struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	Name               string       `gorm:"type:text;not null" json:"name"`
	MinMonths          int          `gorm:"column:min_months;not null" json:"min_months"`
	MaxMonths          *int         `gorm:"column:max_months" json:"max_months"`
	DiscountPercentage int          `gorm:"column:discount_percentage;not null" json:"discount_percentage"`
	IsActive           bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Rule) TableName() string { return "discount_rules" }

// Matches reports whether the rule covers the given month count.
func (r Rule) Matches(months int) bool {
	if !r.IsActive || months < r.MinMonths {
		return false
	}
	if r.MaxMonths != nil && months > *r.MaxMonths {
		return false
	}
	return true
}

// RangeDisplay renders the rule's month range for storefront copy,
// e.g. "6-11 months" or "12+ months".
func (r Rule) RangeDisplay() string {
	if r.MaxMonths == nil {
		return fmt.Sprintf("%d+ months", r.MinMonths)
	}
	if r.MinMonths == *r.MaxMonths {
		return fmt.Sprintf("%d months", r.MinMonths)
	}
	return fmt.Sprintf("%d-%d months", r.MinMonths, *r.MaxMonths)
}

// Evaluate returns the discount percentage for a purchase of the given
// month count. The highest matching percentage wins; when two rules
// tie, the one with the lower MinMonths is chosen so the outcome does
// not depend on rule ordering.
func Evaluate(rules []Rule, months int) int {
	best := 0
	bestMin := 0
	for _, rule := range rules {
		if !rule.Matches(months) {
			continue
		}
		if rule.DiscountPercentage > best ||
			(rule.DiscountPercentage == best && best > 0 && rule.MinMonths < bestMin) {
			best = rule.DiscountPercentage
			bestMin = rule.MinMonths
		}
	}
	return best
}

// ApplyDiscount returns the charge amount after applying a percentage
// discount. The discount amount is truncated toward zero, so the
// customer is never charged less than the exact percentage implies.
func ApplyDiscount(amountCents int64, percentage int) int64 {
	if percentage <= 0 {
		return amountCents
	}
	discount := amountCents * int64(percentage) / 100
	return amountCents - discount
}

// Overlaps reports whether two rule ranges intersect, treating a nil
// MaxMonths as unbounded.
func Overlaps(a, b Rule) bool {
	aMax := unbounded
	if a.MaxMonths != nil {
		aMax = *a.MaxMonths
	}
	bMax := unbounded
	if b.MaxMonths != nil {
		bMax = *b.MaxMonths
	}
	return !(aMax < b.MinMonths || a.MinMonths > bMax)
}

const unbounded = 999999
