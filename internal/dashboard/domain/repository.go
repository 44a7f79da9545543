package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, dashboard *Dashboard) error
	FindByUser(ctx context.Context, userID snowflake.ID) (*Dashboard, error)
	List(ctx context.Context) ([]Dashboard, error)
	UpdateURL(ctx context.Context, userID snowflake.ID, url string) error
}
