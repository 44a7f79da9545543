package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	bundlerepo "github.com/waslahq/wasla/internal/bundle/repository"
	"github.com/waslahq/wasla/internal/clock"
	dashboarddomain "github.com/waslahq/wasla/internal/dashboard/domain"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
	discountrepo "github.com/waslahq/wasla/internal/discount/repository"
	discountservice "github.com/waslahq/wasla/internal/discount/service"
	"github.com/waslahq/wasla/internal/payment/adapters/stripe"
	"github.com/waslahq/wasla/internal/payment/domain"
	paymentrepo "github.com/waslahq/wasla/internal/payment/repository"
	"github.com/waslahq/wasla/internal/subscription/activation"
	subdomain "github.com/waslahq/wasla/internal/subscription/domain"
	subrepo "github.com/waslahq/wasla/internal/subscription/repository"
	"github.com/waslahq/wasla/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const webhookSecret = "whsec_test"

type fakeIntentClient struct {
	calls   int
	lastReq domain.IntentRequest
}

func (f *fakeIntentClient) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	f.calls++
	f.lastReq = req
	id := fmt.Sprintf("pi_test_%d", f.calls)
	return &domain.Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

type fixture struct {
	db      *gorm.DB
	clock   *clock.FakeClock
	node    *snowflake.Node
	svc     domain.Service
	intents *fakeIntentClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&bundledomain.Bundle{},
		&discountdomain.Rule{},
		&domain.Payment{},
		&subdomain.Subscription{},
		&dashboarddomain.Dashboard{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	discounts := discountservice.New(discountservice.Params{
		Log:   log,
		Clock: fake,
		GenID: node,
		Repo:  discountrepo.New(dbConn),
	})
	activator := activation.New(activation.Params{
		Log:   log,
		DB:    dbConn,
		Clock: fake,
		GenID: node,
	})
	intents := &fakeIntentClient{}

	svc := New(Params{
		Log:          log,
		Clock:        fake,
		GenID:        node,
		Repo:         paymentrepo.New(dbConn),
		BundleRepo:   bundlerepo.New(dbConn),
		SubRepo:      subrepo.New(dbConn),
		Discounts:    discounts,
		IntentClient: intents,
		Adapter:      stripe.NewAdapter(webhookSecret),
		Activator:    activator,
	})

	return &fixture{db: dbConn, clock: fake, node: node, svc: svc, intents: intents}
}

func (f *fixture) createBundle(t *testing.T, priceCents int64, tier int) *bundledomain.Bundle {
	t.Helper()
	bundle := &bundledomain.Bundle{
		ID:         f.node.Generate(),
		Name:       "Bundle",
		PriceCents: priceCents,
		Currency:   "usd",
		TierLevel:  tier,
		LogoType:   bundledomain.LogoSilver,
		IsActive:   true,
	}
	if err := f.db.Create(bundle).Error; err != nil {
		t.Fatalf("failed to create bundle: %v", err)
	}
	return bundle
}

func (f *fixture) createStandardDiscounts(t *testing.T) {
	t.Helper()
	max11 := 11
	rules := []discountdomain.Rule{
		{ID: f.node.Generate(), Name: "6-Month Discount", MinMonths: 6, MaxMonths: &max11, DiscountPercentage: 10, IsActive: true},
		{ID: f.node.Generate(), Name: "12-Month Discount", MinMonths: 12, DiscountPercentage: 20, IsActive: true},
	}
	for i := range rules {
		if err := f.db.Create(&rules[i]).Error; err != nil {
			t.Fatalf("failed to create rule: %v", err)
		}
	}
}

func signedHeaders(payload []byte) http.Header {
	ts := "1717000000"
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(ts + "." + string(payload)))

	headers := http.Header{}
	headers.Set("Stripe-Signature", fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return headers
}

func succeededPayload(providerPaymentID string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_%s",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "%s", "amount": %d, "amount_received": %d, "currency": "usd"}}
	}`, providerPaymentID, providerPaymentID, amount, amount))
}

func TestCreateIntentPricing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bundle := f.createBundle(t, 1000, 1)
	f.createStandardDiscounts(t)
	userID := f.node.Generate()

	cases := []struct {
		months       int
		wantOriginal int64
		wantFinal    int64
		wantPct      int
	}{
		{1, 1000, 1000, 0},
		{6, 6000, 5400, 10},
		{12, 12000, 9600, 20},
	}
	for _, tc := range cases {
		resp, err := f.svc.CreateIntent(ctx, domain.CreateIntentRequest{
			UserID:    userID,
			UserEmail: "buyer@example.com",
			BundleID:  bundle.ID,
			Months:    tc.months,
		})
		if err != nil {
			t.Fatalf("CreateIntent(%d months): %v", tc.months, err)
		}
		if resp.OriginalAmountCents != tc.wantOriginal {
			t.Fatalf("%d months: original %d, want %d", tc.months, resp.OriginalAmountCents, tc.wantOriginal)
		}
		if resp.AmountCents != tc.wantFinal {
			t.Fatalf("%d months: final %d, want %d", tc.months, resp.AmountCents, tc.wantFinal)
		}
		if resp.DiscountPercentage != tc.wantPct {
			t.Fatalf("%d months: pct %d, want %d", tc.months, resp.DiscountPercentage, tc.wantPct)
		}
	}

	if f.intents.lastReq.Metadata["user_id"] != userID.String() {
		t.Fatalf("intent metadata missing user_id")
	}
}

func TestCreateIntentRejectsInvalidMonths(t *testing.T) {
	f := newFixture(t)
	bundle := f.createBundle(t, 1000, 1)

	_, err := f.svc.CreateIntent(context.Background(), domain.CreateIntentRequest{
		UserID:   f.node.Generate(),
		BundleID: bundle.ID,
		Months:   3,
	})
	if !errors.Is(err, domain.ErrInvalidMonths) {
		t.Fatalf("expected ErrInvalidMonths, got %v", err)
	}
}

func TestCreateIntentRejectsInactiveBundle(t *testing.T) {
	f := newFixture(t)
	bundle := f.createBundle(t, 1000, 1)
	if err := f.db.Model(bundle).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate bundle: %v", err)
	}

	_, err := f.svc.CreateIntent(context.Background(), domain.CreateIntentRequest{
		UserID:   f.node.Generate(),
		BundleID: bundle.ID,
		Months:   1,
	})
	if !errors.Is(err, bundledomain.ErrBundleNotFound) {
		t.Fatalf("expected ErrBundleNotFound, got %v", err)
	}
}

func TestCreateIntentRejectsDowngradeDuringActiveTerm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	premium := f.createBundle(t, 3000, 3)
	basic := f.createBundle(t, 1000, 1)
	if err := f.db.Model(premium).Update("name", "Premium Plan").Error; err != nil {
		t.Fatalf("rename bundle: %v", err)
	}
	userID := f.node.Generate()

	resp, err := f.svc.CreateIntent(ctx, domain.CreateIntentRequest{
		UserID: userID, BundleID: premium.ID, Months: 1,
	})
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	payload := succeededPayload("pi_test_1", resp.AmountCents)
	if _, err := f.svc.IngestWebhook(ctx, payload, signedHeaders(payload)); err != nil {
		t.Fatalf("IngestWebhook: %v", err)
	}

	_, err = f.svc.CreateIntent(ctx, domain.CreateIntentRequest{
		UserID: userID, BundleID: basic.ID, Months: 1,
	})
	if !errors.Is(err, domain.ErrHigherTierActive) {
		t.Fatalf("expected ErrHigherTierActive, got %v", err)
	}
	// The rejection names the blocking subscription and its expiry
	// (one month from activation on 2025-03-01).
	if !strings.Contains(err.Error(), "Premium Plan") {
		t.Fatalf("error does not name the active bundle: %v", err)
	}
	if !strings.Contains(err.Error(), "2025-03-31") {
		t.Fatalf("error does not cite the end date: %v", err)
	}
}

func TestIngestWebhookActivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bundle := f.createBundle(t, 1000, 1)
	userID := f.node.Generate()

	resp, err := f.svc.CreateIntent(ctx, domain.CreateIntentRequest{
		UserID: userID, BundleID: bundle.ID, Months: 6,
	})
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	pay, err := paymentrepo.New(f.db).FindByProviderID(ctx, "pi_test_1")
	if err != nil {
		t.Fatalf("find payment: %v", err)
	}
	if pay.AmountCents != resp.AmountCents {
		t.Fatalf("stored amount %d, response %d", pay.AmountCents, resp.AmountCents)
	}
	if got, _ := pay.Metadata["user_id"].(string); got != userID.String() {
		t.Fatalf("stored metadata user_id %q, want %q", got, userID)
	}
	if got, _ := pay.Metadata["months"].(string); got != "6" {
		t.Fatalf("stored metadata months %q, want 6", got)
	}

	payload := succeededPayload("pi_test_1", resp.AmountCents)
	result, err := f.svc.IngestWebhook(ctx, payload, signedHeaders(payload))
	if err != nil {
		t.Fatalf("IngestWebhook: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("expected success, got %s", result.Status)
	}
	if result.DashboardURL == "" {
		t.Fatal("expected dashboard url")
	}

	// Same delivery again: acknowledged, nothing new provisioned.
	result, err = f.svc.IngestWebhook(ctx, payload, signedHeaders(payload))
	if err != nil {
		t.Fatalf("IngestWebhook retry: %v", err)
	}
	if result.Status != "duplicate" {
		t.Fatalf("expected duplicate, got %s", result.Status)
	}

	var count int64
	if err := f.db.Model(&subdomain.Subscription{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one subscription, got %d", count)
	}
}

func TestIngestWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t)

	payload := succeededPayload("pi_x", 100)
	headers := http.Header{}
	headers.Set("Stripe-Signature", "t=1,v1=deadbeef")

	_, err := f.svc.IngestWebhook(context.Background(), payload, headers)
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestIngestWebhookUnknownPaymentAcknowledged(t *testing.T) {
	f := newFixture(t)

	payload := succeededPayload("pi_unknown", 100)
	result, err := f.svc.IngestWebhook(context.Background(), payload, signedHeaders(payload))
	if err != nil {
		t.Fatalf("IngestWebhook: %v", err)
	}
	if result.Status != "received" {
		t.Fatalf("expected received, got %s", result.Status)
	}
}

func TestIngestWebhookIgnoresOtherEvents(t *testing.T) {
	f := newFixture(t)

	payload := []byte(`{"id": "evt_1", "type": "customer.created", "data": {"object": {}}}`)
	result, err := f.svc.IngestWebhook(context.Background(), payload, signedHeaders(payload))
	if err != nil {
		t.Fatalf("IngestWebhook: %v", err)
	}
	if result.Status != "ignored" {
		t.Fatalf("expected ignored, got %s", result.Status)
	}
}
