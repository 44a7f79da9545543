// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Role is the access level assigned to a user account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleSalesman   Role = "salesman"
	RoleAccountant Role = "accountant"
	RoleTechnical  Role = "technical"
)

// ValidRoles lists every assignable role.
var ValidRoles = []Role{RoleAdmin, RoleUser, RoleSalesman, RoleAccountant, RoleTechnical}

func (r Role) Valid() bool {
	for _, candidate := range ValidRoles {
		if r == candidate {
			return true
		}
	}
	return false
}

// User represents a system user account.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Email        string       `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null"`
	FullName     string       `gorm:"type:text"`
	Role         Role         `gorm:"type:text;not null;default:'user'"`
	IsActive     bool         `gorm:"not null;default:true"`
	IsVerified   bool         `gorm:"not null;default:false"`
	// AllowAccessWithoutSubscription is the admin override letting a user
	// reach their dashboard without a paid entitlement.
	AllowAccessWithoutSubscription bool              `gorm:"not null;default:false"`
	Metadata                       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt                      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt                      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }
