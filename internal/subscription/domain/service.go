package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

type Service interface {
	// Summary resolves the caller's current access state, including
	// the admin override path.
	Summary(ctx context.Context, userID snowflake.ID, accessOverride bool) (*Summary, error)
	ListForUser(ctx context.Context, userID snowflake.ID) ([]Subscription, error)
	List(ctx context.Context, p pagination.Pagination) ([]Subscription, int64, error)
	Deactivate(ctx context.Context, id snowflake.ID) error
}

// AccessSource says why access was granted (or not).
type AccessSource string

const (
	AccessBySubscription AccessSource = "subscription"
	AccessByOverride     AccessSource = "override"
	AccessNone           AccessSource = "none"
)

// Summary is the access view returned to the account area.
type Summary struct {
	HasAccess     bool          `json:"has_access"`
	Source        AccessSource  `json:"source"`
	Subscription  *Subscription `json:"subscription,omitempty"`
	BundleName    string        `json:"bundle_name,omitempty"`
	TierLevel     int           `json:"tier_level,omitempty"`
	DaysRemaining int           `json:"days_remaining"`
	DashboardURL  string        `json:"dashboard_url,omitempty"`
}
