// Package domain contains sales lead intake and follow-up types.
package domain

import (
	"regexp"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status tracks a lead through the sales funnel.
type Status string

const (
	StatusNew           Status = "new"
	StatusContacted     Status = "contacted"
	StatusQualified     Status = "qualified"
	StatusConverted     Status = "converted"
	StatusNotInterested Status = "not_interested"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusNotInterested:
		return true
	}
	return false
}

// Fixed choice sets offered by the public form.
var (
	LocationBuckets = []string{"1", "2-5", "6-10", "11-25", "25-50", "+50"}
	ReferralSources = []string{"social", "search", "referral", "other"}
	Languages       = []string{"en", "ar"}

	phonePattern       = regexp.MustCompile(`^[0-9\s\-\+\(\)]+$`)
	countryCodePattern = regexp.MustCompile(`^\+[0-9]+$`)
)

func inSet(value string, set []string) bool {
	for _, candidate := range set {
		if value == candidate {
			return true
		}
	}
	return false
}

func ValidLocationBucket(v string) bool { return inSet(v, LocationBuckets) }
func ValidReferralSource(v string) bool { return inSet(v, ReferralSources) }
func ValidLanguage(v string) bool       { return inSet(v, Languages) }
func ValidPhone(v string) bool          { return v != "" && len(v) <= 20 && phonePattern.MatchString(v) }
func ValidCountryCode(v string) bool {
	return len(v) >= 2 && len(v) <= 10 && countryCodePattern.MatchString(v)
}

// ContactRequest is one submission of the public contact form.
type ContactRequest struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	FirstName          string       `gorm:"column:first_name;type:text;not null" json:"first_name"`
	LastName           string       `gorm:"column:last_name;type:text;not null" json:"last_name"`
	Email              string       `gorm:"type:text;not null;index" json:"email"`
	Phone              string       `gorm:"type:text;not null" json:"phone"`
	CountryCode        string       `gorm:"column:country_code;type:text;not null" json:"country_code"`
	Country            string       `gorm:"type:text;not null" json:"country"`
	BusinessName       string       `gorm:"column:business_name;type:text;not null" json:"business_name"`
	NumLocations       string       `gorm:"column:num_locations;type:text;not null" json:"num_locations"`
	ReferralSource     string       `gorm:"column:referral_source;type:text;not null" json:"referral_source"`
	MarketingConsent   bool         `gorm:"column:marketing_consent;not null;default:false" json:"marketing_consent"`
	LanguagePreference string       `gorm:"column:language_preference;type:text;not null;default:'en'" json:"language_preference"`
	Status             Status       `gorm:"type:text;not null;default:'new'" json:"status"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ContactRequest) TableName() string { return "contact_requests" }

// ContactNote is an internal follow-up note on a lead.
type ContactNote struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	ContactRequestID snowflake.ID `gorm:"column:contact_request_id;not null;index" json:"contact_request_id"`
	AuthorID         snowflake.ID `gorm:"column:author_id;not null" json:"author_id"`
	NoteText         string       `gorm:"column:note_text;type:text;not null" json:"note_text"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ContactNote) TableName() string { return "contact_notes" }

// MaxNoteLength caps a single follow-up note.
const MaxNoteLength = 2000

// LeadAssignment routes a lead to one salesman. One assignment per
// lead; reassigning overwrites it.
type LeadAssignment struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	ContactRequestID snowflake.ID `gorm:"column:contact_request_id;not null;uniqueIndex" json:"contact_request_id"`
	SalesmanID       snowflake.ID `gorm:"column:salesman_id;not null;index" json:"salesman_id"`
	AssignedByID     snowflake.ID `gorm:"column:assigned_by_id;not null" json:"assigned_by_id"`
	AssignedAt       time.Time    `gorm:"column:assigned_at;not null;default:CURRENT_TIMESTAMP" json:"assigned_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (LeadAssignment) TableName() string { return "lead_assignments" }
