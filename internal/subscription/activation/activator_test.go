package activation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/clock"
	dashboarddomain "github.com/waslahq/wasla/internal/dashboard/domain"
	paymentdomain "github.com/waslahq/wasla/internal/payment/domain"
	subdomain "github.com/waslahq/wasla/internal/subscription/domain"
	"github.com/waslahq/wasla/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	clock     *clock.FakeClock
	node      *snowflake.Node
	activator *Activator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&bundledomain.Bundle{},
		&paymentdomain.Payment{},
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

	return &fixture{
		db:    dbConn,
		clock: fake,
		node:  node,
		activator: New(Params{
			Log:   zap.NewNop(),
			DB:    dbConn,
			Clock: fake,
			GenID: node,
		}),
	}
}

func (f *fixture) createBundle(t *testing.T, tier int) *bundledomain.Bundle {
	t.Helper()
	bundle := &bundledomain.Bundle{
		ID:         f.node.Generate(),
		Name:       "Bundle",
		PriceCents: 10000,
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

func (f *fixture) createPayment(t *testing.T, userID snowflake.ID, bundle *bundledomain.Bundle, providerID string, months int) *paymentdomain.Payment {
	t.Helper()
	pay := &paymentdomain.Payment{
		ID:                f.node.Generate(),
		UserID:            userID,
		BundleID:          bundle.ID,
		ProviderPaymentID: providerID,
		AmountCents:       bundle.PriceCents * int64(months),
		Currency:          bundle.Currency,
		Status:            paymentdomain.StatusPending,
		MonthsPurchased:   months,
	}
	if err := f.db.Create(pay).Error; err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	return pay
}

func TestActivateProvisionsEntitlementAndDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userID := f.node.Generate()
	bundle := f.createBundle(t, 1)
	f.createPayment(t, userID, bundle, "pi_100", 6)

	result, err := f.activator.Activate(ctx, "pi_100")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if result.AlreadyProcessed {
		t.Fatal("first activation must not be marked duplicate")
	}
	if result.Queued {
		t.Fatal("first activation must not queue")
	}

	wantEnd := f.clock.Now().Add(180 * 24 * time.Hour)
	if !result.Subscription.EndDate.Equal(wantEnd) {
		t.Fatalf("6 month purchase must grant 180 days, got end %v", result.Subscription.EndDate)
	}

	var pay paymentdomain.Payment
	if err := f.db.Where("provider_payment_id = ?", "pi_100").First(&pay).Error; err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if pay.Status != paymentdomain.StatusSucceeded {
		t.Fatalf("expected succeeded, got %s", pay.Status)
	}

	var dashboard dashboarddomain.Dashboard
	if err := f.db.Where("user_id = ?", userID).First(&dashboard).Error; err != nil {
		t.Fatalf("expected dashboard: %v", err)
	}
	if dashboard.LookerStudioURL != result.DashboardURL {
		t.Fatalf("dashboard url mismatch: %s vs %s", dashboard.LookerStudioURL, result.DashboardURL)
	}
}

func TestActivateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userID := f.node.Generate()
	bundle := f.createBundle(t, 1)
	f.createPayment(t, userID, bundle, "pi_200", 1)

	first, err := f.activator.Activate(ctx, "pi_200")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}

	second, err := f.activator.Activate(ctx, "pi_200")
	if err != nil {
		t.Fatalf("second Activate: %v", err)
	}
	if !second.AlreadyProcessed {
		t.Fatal("second activation must be reported as already processed")
	}
	if second.Subscription == nil || second.Subscription.ID != first.Subscription.ID {
		t.Fatal("second activation must surface the original subscription")
	}

	var count int64
	if err := f.db.Model(&subdomain.Subscription{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one subscription, got %d", count)
	}
}

func TestActivateReplacesSameOrHigherTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userID := f.node.Generate()
	basic := f.createBundle(t, 1)
	premium := f.createBundle(t, 3)

	f.createPayment(t, userID, basic, "pi_301", 1)
	if _, err := f.activator.Activate(ctx, "pi_301"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	f.createPayment(t, userID, premium, "pi_302", 1)
	result, err := f.activator.Activate(ctx, "pi_302")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if result.Queued {
		t.Fatal("upgrade must start immediately")
	}

	var activeCount int64
	if err := f.db.Model(&subdomain.Subscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&activeCount).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if activeCount != 1 {
		t.Fatalf("expected one active subscription after upgrade, got %d", activeCount)
	}
}

func TestActivateQueuesLowerTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userID := f.node.Generate()
	premium := f.createBundle(t, 3)
	basic := f.createBundle(t, 1)

	f.createPayment(t, userID, premium, "pi_401", 1)
	first, err := f.activator.Activate(ctx, "pi_401")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}

	f.createPayment(t, userID, basic, "pi_402", 1)
	second, err := f.activator.Activate(ctx, "pi_402")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !second.Queued {
		t.Fatal("lower tier purchase must queue behind the active term")
	}
	if !second.Subscription.StartDate.Equal(first.Subscription.EndDate) {
		t.Fatalf("queued start %v must equal active end %v",
			second.Subscription.StartDate, first.Subscription.EndDate)
	}

	// The premium entitlement stays active.
	var active subdomain.Subscription
	err = f.db.Where("user_id = ? AND is_active = ? AND end_date > ?", userID, true, f.clock.Now()).
		Order("end_date ASC").
		First(&active).Error
	if err != nil {
		t.Fatalf("expected active subscription: %v", err)
	}
	if active.BundleID != premium.ID {
		t.Fatal("premium term must remain the active one")
	}
}

func TestActivateUnknownPayment(t *testing.T) {
	f := newFixture(t)

	_, err := f.activator.Activate(context.Background(), "pi_missing")
	if !errors.Is(err, paymentdomain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestFailMarksPendingPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userID := f.node.Generate()
	bundle := f.createBundle(t, 1)
	f.createPayment(t, userID, bundle, "pi_500", 1)

	if err := f.activator.Fail(ctx, "pi_500"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	var pay paymentdomain.Payment
	if err := f.db.Where("provider_payment_id = ?", "pi_500").First(&pay).Error; err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if pay.Status != paymentdomain.StatusFailed {
		t.Fatalf("expected failed, got %s", pay.Status)
	}

	// A late failure event must not claw back a settled payment.
	f.createPayment(t, userID, bundle, "pi_501", 1)
	if _, err := f.activator.Activate(ctx, "pi_501"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := f.activator.Fail(ctx, "pi_501"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	// Fresh struct: reusing pay would make GORM add its primary key
	// from the pi_500 load as a query condition.
	var settled paymentdomain.Payment
	if err := f.db.Where("provider_payment_id = ?", "pi_501").First(&settled).Error; err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if settled.Status != paymentdomain.StatusSucceeded {
		t.Fatalf("settled payment must stay succeeded, got %s", settled.Status)
	}
}
