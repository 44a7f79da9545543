package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// PercentageFor resolves the discount applied to a purchase of the
	// given month count.
	PercentageFor(ctx context.Context, months int) (int, error)
	// Options returns storefront display entries for the active rules,
	// ordered by MinMonths.
	Options(ctx context.Context) ([]Option, error)

	ListRules(ctx context.Context) ([]Rule, error)
	CreateRule(ctx context.Context, req CreateRuleRequest) (*Rule, error)
	UpdateRule(ctx context.Context, id snowflake.ID, req UpdateRuleRequest) (*Rule, error)
	DeleteRule(ctx context.Context, id snowflake.ID) error
}

type CreateRuleRequest struct {
	Name               string
	MinMonths          int
	MaxMonths          *int
	DiscountPercentage int
}

// UpdateRuleRequest applies partial updates; nil fields are untouched.
type UpdateRuleRequest struct {
	Name               *string
	MinMonths          *int
	MaxMonths          *int
	DiscountPercentage *int
	IsActive           *bool
}

// Option is the storefront view of an active rule.
type Option struct {
	MinMonths          int    `json:"min_months"`
	MaxMonths          *int   `json:"max_months"`
	DiscountPercentage int    `json:"discount_percentage"`
	DisplayText        string `json:"display_text"`
	BannerMessage      string `json:"banner_message"`
}
