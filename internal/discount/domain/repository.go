package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, rule *Rule) error
	FindByID(ctx context.Context, id snowflake.ID) (*Rule, error)
	List(ctx context.Context, activeOnly bool) ([]Rule, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
}
