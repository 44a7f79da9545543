package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

// ListFilter narrows admin lead queries. Zero values mean "any".
type ListFilter struct {
	Status             Status
	Country            string
	ReferralSource     string
	LanguagePreference string
	MarketingConsent   *bool
	CreatedFrom        *time.Time
	CreatedTo          *time.Time
	// AssignedTo restricts results to one salesman's leads.
	AssignedTo snowflake.ID
}

type Repository interface {
	Create(ctx context.Context, contact *ContactRequest) error
	FindByID(ctx context.Context, id snowflake.ID) (*ContactRequest, error)
	List(ctx context.Context, filter ListFilter, p pagination.Pagination) ([]ContactRequest, error)
	// ListAll returns every matching row, used by the CSV export.
	ListAll(ctx context.Context, filter ListFilter) ([]ContactRequest, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status Status, updatedAt time.Time) error

	CreateNote(ctx context.Context, note *ContactNote) error
	ListNotes(ctx context.Context, contactID snowflake.ID) ([]ContactNote, error)
	CountNotes(ctx context.Context, contactIDs []snowflake.ID) (map[snowflake.ID]int64, error)

	FindAssignment(ctx context.Context, contactID snowflake.ID) (*LeadAssignment, error)
	ListAssignments(ctx context.Context, contactIDs []snowflake.ID) ([]LeadAssignment, error)
	UpsertAssignment(ctx context.Context, assignment *LeadAssignment) (*LeadAssignment, error)
	DeleteAssignment(ctx context.Context, contactID snowflake.ID) error
	IsAssignedTo(ctx context.Context, contactID, salesmanID snowflake.ID) (bool, error)
}
