package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByProviderID(ctx context.Context, providerPaymentID string) (*Payment, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Payment, error)
	List(ctx context.Context, p pagination.Pagination) ([]Payment, int64, error)
	Stats(ctx context.Context) (*Stats, error)
}
