package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/clock"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
	"github.com/waslahq/wasla/internal/discount/repository"
	"github.com/waslahq/wasla/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) discountdomain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&discountdomain.Rule{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(Params{
		Log:   zap.NewNop(),
		Clock: clock.NewSystemClock(),
		GenID: node,
		Repo:  repository.New(dbConn),
	})
}

func intPtr(v int) *int { return &v }

func TestCreateRuleRejectsOverlap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, discountdomain.CreateRuleRequest{
		Name:               "6-Month Discount",
		MinMonths:          6,
		MaxMonths:          intPtr(11),
		DiscountPercentage: 10,
	}); err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	_, err := svc.CreateRule(ctx, discountdomain.CreateRuleRequest{
		Name:               "Conflicting",
		MinMonths:          10,
		MaxMonths:          intPtr(12),
		DiscountPercentage: 15,
	})
	if !errors.Is(err, discountdomain.ErrRuleOverlap) {
		t.Fatalf("expected ErrRuleOverlap, got %v", err)
	}
}

func TestUpdateRuleRejectsOverlap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, discountdomain.CreateRuleRequest{
		Name:               "6-Month Discount",
		MinMonths:          6,
		MaxMonths:          intPtr(11),
		DiscountPercentage: 10,
	}); err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}
	annual, err := svc.CreateRule(ctx, discountdomain.CreateRuleRequest{
		Name:               "Annual Discount",
		MinMonths:          12,
		DiscountPercentage: 20,
	})
	if err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	// Widening the annual rule into the six-month range must fail.
	if _, err := svc.UpdateRule(ctx, annual.ID, discountdomain.UpdateRuleRequest{
		MinMonths: intPtr(8),
	}); !errors.Is(err, discountdomain.ErrRuleOverlap) {
		t.Fatalf("expected ErrRuleOverlap, got %v", err)
	}

	// Reactivating a parked rule re-checks its range too.
	inactive := false
	if _, err := svc.UpdateRule(ctx, annual.ID, discountdomain.UpdateRuleRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.UpdateRule(ctx, annual.ID, discountdomain.UpdateRuleRequest{
		MinMonths: intPtr(8),
	}); err != nil {
		t.Fatalf("update while inactive: %v", err)
	}
	active := true
	if _, err := svc.UpdateRule(ctx, annual.ID, discountdomain.UpdateRuleRequest{IsActive: &active}); !errors.Is(err, discountdomain.ErrRuleOverlap) {
		t.Fatalf("expected ErrRuleOverlap on reactivation, got %v", err)
	}

	// A non-conflicting change still goes through.
	if _, err := svc.UpdateRule(ctx, annual.ID, discountdomain.UpdateRuleRequest{
		MinMonths: intPtr(12),
		IsActive:  &active,
	}); err != nil {
		t.Fatalf("non-overlapping update: %v", err)
	}
}

func TestCreateRuleRejectsInvalidRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, discountdomain.CreateRuleRequest{
		Name:      "bad",
		MinMonths: 0,
	}); !errors.Is(err, discountdomain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	if _, err := svc.CreateRule(ctx, discountdomain.CreateRuleRequest{
		Name:      "bad",
		MinMonths: 6,
		MaxMonths: intPtr(6),
	}); !errors.Is(err, discountdomain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestPercentageForUsesActiveRules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, discountdomain.CreateRuleRequest{
		Name:               "12-Month Discount",
		MinMonths:          12,
		DiscountPercentage: 20,
	})
	if err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	pct, err := svc.PercentageFor(ctx, 12)
	if err != nil {
		t.Fatalf("PercentageFor: %v", err)
	}
	if pct != 20 {
		t.Fatalf("expected 20, got %d", pct)
	}

	inactive := false
	if _, err := svc.UpdateRule(ctx, rule.ID, discountdomain.UpdateRuleRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateRule: %v", err)
	}

	pct, err = svc.PercentageFor(ctx, 12)
	if err != nil {
		t.Fatalf("PercentageFor: %v", err)
	}
	if pct != 0 {
		t.Fatalf("expected 0 after deactivation, got %d", pct)
	}
}

func TestOptionsDisplayText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, discountdomain.CreateRuleRequest{
		Name:               "6-Month Discount",
		MinMonths:          6,
		MaxMonths:          intPtr(11),
		DiscountPercentage: 10,
	}); err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	options, err := svc.Options(ctx)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(options))
	}
	if options[0].DisplayText != "6-11 months: 10% OFF" {
		t.Fatalf("unexpected display text %q", options[0].DisplayText)
	}
	if options[0].BannerMessage != "Save 10% on 6-11 months!" {
		t.Fatalf("unexpected banner %q", options[0].BannerMessage)
	}
}
