package domain

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// EventType classifies a processor webhook event.
type EventType string

const (
	EventPaymentSucceeded EventType = "payment_succeeded"
	EventPaymentFailed    EventType = "payment_failed"
)

// ErrEventIgnored marks webhook events the system does not act on.
var ErrEventIgnored = errors.New("event ignored")

// WebhookEvent is the processor-neutral form of a webhook delivery.
type WebhookEvent struct {
	Provider          string
	ProviderEventID   string
	ProviderPaymentID string
	Type              EventType
	Amount            int64
	Currency          string
	OccurredAt        time.Time
	RawPayload        []byte
}

// WebhookAdapter verifies and decodes one processor's webhook wire
// format.
type WebhookAdapter interface {
	Provider() string
	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*WebhookEvent, error)
}

// Intent is an open checkout at the processor.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentRequest asks the processor to open a checkout.
type IntentRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// IntentClient talks to the processor's API to open checkouts.
type IntentClient interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}
