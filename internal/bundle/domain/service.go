package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// ListActive returns the public storefront catalog.
	ListActive(ctx context.Context) ([]Bundle, error)
	// ListAll returns every bundle, including retired ones.
	ListAll(ctx context.Context) ([]Bundle, error)
	Find(ctx context.Context, id snowflake.ID) (*Bundle, error)
	// Content returns the storefront card payload for one active bundle.
	Content(ctx context.Context, id snowflake.ID) (*Content, error)
	Create(ctx context.Context, req UpsertRequest) (*Bundle, error)
	Update(ctx context.Context, id snowflake.ID, req UpsertRequest) (*Bundle, error)
	SetActive(ctx context.Context, id snowflake.ID, active bool) error
	Delete(ctx context.Context, id snowflake.ID) error
}

// Content is what the storefront renders for one bundle card: the
// bundle fields plus the badge and feature-list markup.
type Content struct {
	BundleID        snowflake.ID `json:"bundle_id"`
	Name            string       `json:"name"`
	PriceCents      int64        `json:"price_cents"`
	Currency        string       `json:"currency"`
	TierLevel       int          `json:"tier_level"`
	LogoType        LogoType     `json:"logo_type"`
	MainDescription string       `json:"main_description"`
	BadgeHTML       string       `json:"svg_html"`
	DescriptionHTML string       `json:"description_html"`
}

type UpsertRequest struct {
	Name            string
	PriceCents      int64
	Currency        string
	TierLevel       int
	LogoType        LogoType
	Description     string
	MainDescription string
}
