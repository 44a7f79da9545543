package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/clock"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
	"github.com/waslahq/wasla/internal/payment/domain"
	"github.com/waslahq/wasla/internal/subscription/activation"
	subdomain "github.com/waslahq/wasla/internal/subscription/domain"
	"github.com/waslahq/wasla/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	Clock        clock.Clock
	GenID        *snowflake.Node
	Repo         domain.Repository
	BundleRepo   bundledomain.Repository
	SubRepo      subdomain.Repository
	Discounts    discountdomain.Service
	IntentClient domain.IntentClient
	Adapter      domain.WebhookAdapter
	Activator    *activation.Activator
}

type Service struct {
	log          *zap.Logger
	clock        clock.Clock
	genID        *snowflake.Node
	repo         domain.Repository
	bundleRepo   bundledomain.Repository
	subRepo      subdomain.Repository
	discounts    discountdomain.Service
	intentClient domain.IntentClient
	adapter      domain.WebhookAdapter
	activator    *activation.Activator
}

func New(p Params) domain.Service {
	return &Service{
		log:          p.Log.Named("payment.service"),
		clock:        p.Clock,
		genID:        p.GenID,
		repo:         p.Repo,
		bundleRepo:   p.BundleRepo,
		subRepo:      p.SubRepo,
		discounts:    p.Discounts,
		intentClient: p.IntentClient,
		adapter:      p.Adapter,
		activator:    p.Activator,
	}
}

func (s *Service) CreateIntent(ctx context.Context, req domain.CreateIntentRequest) (*domain.IntentResponse, error) {
	bundle, err := s.bundleRepo.FindByID(ctx, req.BundleID)
	if err != nil {
		return nil, err
	}
	if !bundle.IsActive {
		return nil, bundledomain.ErrBundleNotFound
	}
	if !domain.MonthsAllowed(req.Months) {
		return nil, domain.ErrInvalidMonths
	}

	now := s.clock.Now()
	active, err := s.subRepo.FindActive(ctx, req.UserID, now)
	if err != nil && !errors.Is(err, subdomain.ErrNoActiveSubscription) {
		return nil, err
	}
	if active != nil {
		activeBundle, err := s.bundleRepo.FindByID(ctx, active.BundleID)
		if err != nil && !errors.Is(err, bundledomain.ErrBundleNotFound) {
			return nil, err
		}
		if activeBundle != nil && !subdomain.CanPurchase(activeBundle.TierLevel, bundle.TierLevel) {
			// The buyer needs to know what blocks the purchase and
			// when it clears.
			return nil, fmt.Errorf("%w: you have an active %s subscription until %s; lower tier subscriptions start after it ends",
				domain.ErrHigherTierActive, activeBundle.Name, active.EndDate.Format("2006-01-02"))
		}
	}

	discountPct, err := s.discounts.PercentageFor(ctx, req.Months)
	if err != nil {
		return nil, err
	}

	originalAmount := bundle.PriceCents * int64(req.Months)
	finalAmount := discountdomain.ApplyDiscount(originalAmount, discountPct)

	metadata := map[string]string{
		"user_id":             req.UserID.String(),
		"bundle_id":           bundle.ID.String(),
		"user_email":          req.UserEmail,
		"months":              strconv.Itoa(req.Months),
		"discount_percentage": strconv.Itoa(discountPct),
	}
	intent, err := s.intentClient.CreateIntent(ctx, domain.IntentRequest{
		AmountCents: finalAmount,
		Currency:    bundle.Currency,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}

	// The row keeps the same metadata sent to the processor, so a
	// settled payment can be reconciled without a provider lookup.
	recorded := make(datatypes.JSONMap, len(metadata))
	for k, v := range metadata {
		recorded[k] = v
	}
	payment := &domain.Payment{
		ID:                s.genID.Generate(),
		UserID:            req.UserID,
		BundleID:          bundle.ID,
		ProviderPaymentID: intent.ID,
		AmountCents:       finalAmount,
		Currency:          bundle.Currency,
		Status:            domain.StatusPending,
		MonthsPurchased:   req.Months,
		DiscountPercent:   discountPct,
		Metadata:          recorded,
		CreatedAt:         now,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("payment intent created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("provider_payment_id", intent.ID),
		zap.Int64("amount_cents", finalAmount),
		zap.Int("discount_percentage", discountPct),
	)

	return &domain.IntentResponse{
		ClientSecret:        intent.ClientSecret,
		PaymentID:           payment.ID,
		AmountCents:         finalAmount,
		OriginalAmountCents: originalAmount,
		DiscountPercentage:  discountPct,
		Months:              req.Months,
	}, nil
}

func (s *Service) IngestWebhook(ctx context.Context, payload []byte, headers http.Header) (*domain.WebhookResult, error) {
	if err := s.adapter.Verify(ctx, payload, headers); err != nil {
		return nil, err
	}

	event, err := s.adapter.Parse(ctx, payload)
	if errors.Is(err, domain.ErrEventIgnored) {
		return &domain.WebhookResult{Status: "ignored"}, nil
	}
	if err != nil {
		return nil, err
	}

	switch event.Type {
	case domain.EventPaymentSucceeded:
		return s.applySettlement(ctx, event)
	case domain.EventPaymentFailed:
		if err := s.activator.Fail(ctx, event.ProviderPaymentID); err != nil {
			return nil, err
		}
		return &domain.WebhookResult{
			Status:            "received",
			ProviderPaymentID: event.ProviderPaymentID,
		}, nil
	default:
		return &domain.WebhookResult{Status: "ignored"}, nil
	}
}

func (s *Service) applySettlement(ctx context.Context, event *domain.WebhookEvent) (*domain.WebhookResult, error) {
	result, err := s.activator.Activate(ctx, event.ProviderPaymentID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		// A settlement we have no record of. Acknowledge so the
		// processor stops retrying; the log keeps the trail.
		s.log.Warn("settlement for unknown payment",
			zap.String("provider_payment_id", event.ProviderPaymentID),
		)
		return &domain.WebhookResult{Status: "received"}, nil
	}
	if err != nil {
		return nil, err
	}

	out := &domain.WebhookResult{
		ProviderPaymentID: event.ProviderPaymentID,
		DashboardURL:      result.DashboardURL,
	}
	if result.AlreadyProcessed {
		out.Status = "duplicate"
	} else {
		out.Status = "success"
	}
	if result.Subscription != nil {
		out.SubscriptionStart = result.Subscription.StartDate.Format(time.RFC3339)
		out.SubscriptionEnd = result.Subscription.EndDate.Format(time.RFC3339)
	}
	return out, nil
}

func (s *Service) ListForUser(ctx context.Context, userID snowflake.ID) ([]domain.Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) List(ctx context.Context, p pagination.Pagination) ([]domain.Payment, int64, error) {
	return s.repo.List(ctx, p)
}
