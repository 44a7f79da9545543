package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/waslahq/wasla/internal/auth/domain"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

type Service interface {
	// Submit records a public contact form submission and notifies
	// the sales inbox.
	Submit(ctx context.Context, req SubmitRequest) (*ContactRequest, error)

	// List returns leads visible to the actor. Salesmen see only
	// their assigned leads; technical users are denied.
	List(ctx context.Context, actor *authdomain.User, filter ListFilter, p pagination.Pagination) ([]ListItem, error)
	Detail(ctx context.Context, actor *authdomain.User, id snowflake.ID) (*Detail, error)
	UpdateStatus(ctx context.Context, actor *authdomain.User, id snowflake.ID, status Status) (*ContactRequest, error)
	AddNote(ctx context.Context, actor *authdomain.User, id snowflake.ID, text string) (*NoteView, error)

	// ExportCSV renders matching leads as a UTF-8 CSV (with BOM, so
	// Excel renders Arabic text correctly) and returns the payload
	// plus a suggested filename.
	ExportCSV(ctx context.Context, filter ListFilter) ([]byte, string, error)

	Assign(ctx context.Context, actor *authdomain.User, leadID, salesmanID snowflake.ID) (*AssignmentView, error)
	Unassign(ctx context.Context, leadID snowflake.ID) error
}

type SubmitRequest struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	CountryCode        string `json:"country_code"`
	Country            string `json:"country"`
	BusinessName       string `json:"business_name"`
	NumLocations       string `json:"num_locations"`
	ReferralSource     string `json:"referral_source"`
	MarketingConsent   bool   `json:"marketing_consent"`
	LanguagePreference string `json:"language_preference"`
}

// AssignedTo is the salesman summary embedded in lead listings.
type AssignedTo struct {
	ID       snowflake.ID `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
}

// ListItem is one row of the lead table.
type ListItem struct {
	ContactRequest
	NotesCount int64       `json:"notes_count"`
	Assigned   *AssignedTo `json:"assigned_to"`
}

// NoteView is a note joined with its author's email.
type NoteView struct {
	ID               snowflake.ID `json:"id"`
	ContactRequestID snowflake.ID `json:"contact_request_id"`
	NoteText         string       `json:"note_text"`
	AuthorEmail      string       `json:"author_email"`
	CreatedAt        time.Time    `json:"created_at"`
}

// Detail is a lead with its full note history.
type Detail struct {
	ContactRequest
	Notes []NoteView `json:"notes"`
}

// AssignmentView is the response shape for assignment changes.
type AssignmentView struct {
	ID               snowflake.ID `json:"id"`
	ContactRequestID snowflake.ID `json:"contact_request_id"`
	SalesmanID       snowflake.ID `json:"salesman_id"`
	SalesmanEmail    string       `json:"salesman_email"`
	SalesmanName     string       `json:"salesman_name"`
	AssignedByID     snowflake.ID `json:"assigned_by_id"`
	AssignedAt       time.Time    `json:"assigned_at"`
}

// CanViewLeads says which roles may read the lead workspace at all.
func CanViewLeads(role authdomain.Role) bool {
	switch role {
	case authdomain.RoleAdmin, authdomain.RoleAccountant, authdomain.RoleSalesman:
		return true
	}
	return false
}

// CanManageLeads says which roles see every lead and manage
// assignments.
func CanManageLeads(role authdomain.Role) bool {
	return role == authdomain.RoleAdmin || role == authdomain.RoleAccountant
}
