// Package domain contains the reporting dashboard types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Dashboard links a user to their external Looker Studio report. One
// row per user; the URL starts as a generated placeholder and is
// replaced by an admin once the real report exists.
type Dashboard struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID          snowflake.ID `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	LookerStudioURL string       `gorm:"column:looker_studio_url;type:text;not null" json:"looker_studio_url"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Dashboard) TableName() string { return "dashboards" }

// PlaceholderURL is the provisional report address created when a
// subscription activates, before an admin wires the real report.
func PlaceholderURL(userID, bundleID snowflake.ID) string {
	return "https://lookerstudio.google.com/reporting/user-" + userID.String() + "-bundle-" + bundleID.String()
}
