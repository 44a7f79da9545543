package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

type Repository interface {
	FindActive(ctx context.Context, userID snowflake.ID, now time.Time) (*Subscription, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Subscription, error)
	List(ctx context.Context, p pagination.Pagination) ([]Subscription, int64, error)
	Deactivate(ctx context.Context, id snowflake.ID) error
}
