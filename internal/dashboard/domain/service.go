package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// ForUser returns the user's dashboard, if any.
	ForUser(ctx context.Context, userID snowflake.ID) (*Dashboard, error)
	// SetURL creates or replaces the user's dashboard URL.
	SetURL(ctx context.Context, userID snowflake.ID, url string) (*Dashboard, error)
	// ListAll returns every provisioned dashboard.
	ListAll(ctx context.Context) ([]Dashboard, error)
}
