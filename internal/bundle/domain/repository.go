package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, bundle *Bundle) error
	FindByID(ctx context.Context, id snowflake.ID) (*Bundle, error)
	List(ctx context.Context, activeOnly bool) ([]Bundle, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
}
