// Package domain contains core types for the bundle catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// LogoType identifies the badge artwork rendered for a bundle card.
type LogoType string

const (
	LogoSilver  LogoType = "silver"
	LogoGold    LogoType = "gold"
	LogoDiamond LogoType = "diamond"
)

func (l LogoType) Valid() bool {
	switch l {
	case LogoSilver, LogoGold, LogoDiamond:
		return true
	}
	return false
}

// Bundle is a sellable subscription package. TierLevel orders bundles
// from basic (1) upward; entitlement upgrades compare on it.
type Bundle struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"type:text;not null" json:"name"`
	PriceCents      int64        `gorm:"column:price_cents;not null" json:"price_cents"`
	Currency        string       `gorm:"type:text;not null;default:'usd'" json:"currency"`
	TierLevel       int          `gorm:"column:tier_level;not null;default:1" json:"tier_level"`
	LogoType        LogoType     `gorm:"column:logo_type;type:text;not null;default:'silver'" json:"logo_type"`
	Description     string       `gorm:"type:text" json:"description"`
	MainDescription string       `gorm:"column:main_description;type:text" json:"main_description"`
	IsActive        bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Bundle) TableName() string { return "bundles" }
