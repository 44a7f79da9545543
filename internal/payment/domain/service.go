package domain

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

type Service interface {
	// CreateIntent opens a checkout for the given bundle and duration
	// and records the pending payment.
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResponse, error)
	// IngestWebhook verifies, decodes and applies one webhook
	// delivery from the processor.
	IngestWebhook(ctx context.Context, payload []byte, headers http.Header) (*WebhookResult, error)

	ListForUser(ctx context.Context, userID snowflake.ID) ([]Payment, error)
	List(ctx context.Context, p pagination.Pagination) ([]Payment, int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Stats aggregates payment volume for the admin overview.
type Stats struct {
	TotalPayments     int64 `json:"total_payments"`
	SucceededPayments int64 `json:"successful_payments"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
}

type CreateIntentRequest struct {
	UserID    snowflake.ID
	UserEmail string
	BundleID  snowflake.ID
	Months    int
}

type IntentResponse struct {
	ClientSecret        string       `json:"client_secret"`
	PaymentID           snowflake.ID `json:"payment_id"`
	AmountCents         int64        `json:"amount_cents"`
	OriginalAmountCents int64        `json:"original_amount_cents"`
	DiscountPercentage  int          `json:"discount_percentage"`
	Months              int          `json:"months"`
}

// WebhookResult reports how a delivery was handled.
type WebhookResult struct {
	// Status is one of "success", "duplicate", "received", "ignored".
	Status            string
	ProviderPaymentID string
	SubscriptionStart string
	SubscriptionEnd   string
	DashboardURL      string
}
