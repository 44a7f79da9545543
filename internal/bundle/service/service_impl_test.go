package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/bundle/repository"
	"github.com/waslahq/wasla/internal/clock"
	"github.com/waslahq/wasla/pkg/db"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Bundle{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	return New(Params{
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
		GenID: node,
		Repo:  repository.New(dbConn),
	})
}

func TestCreateValidatesAndDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bundle, err := svc.Create(ctx, domain.UpsertRequest{
		Name:       "  Basic  ",
		PriceCents: 1000,
		TierLevel:  1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if bundle.Name != "Basic" {
		t.Errorf("name = %q", bundle.Name)
	}
	if bundle.Currency != "usd" {
		t.Errorf("currency = %q", bundle.Currency)
	}
	if bundle.LogoType != domain.LogoSilver {
		t.Errorf("logo = %q", bundle.LogoType)
	}
	if !bundle.IsActive {
		t.Error("new bundle should be active")
	}

	bad := []domain.UpsertRequest{
		{Name: "", PriceCents: 1000, TierLevel: 1},
		{Name: "Free", PriceCents: 0, TierLevel: 1},
		{Name: "NoTier", PriceCents: 1000, TierLevel: 0},
		{Name: "BadLogo", PriceCents: 1000, TierLevel: 1, LogoType: "bronze"},
	}
	for _, req := range bad {
		if _, err := svc.Create(ctx, req); !errors.Is(err, domain.ErrInvalidBundle) {
			t.Errorf("create %q: got %v", req.Name, err)
		}
	}
}

func TestContentForActiveBundle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bundle, err := svc.Create(ctx, domain.UpsertRequest{
		Name:            "Premium",
		PriceCents:      5000,
		TierLevel:       3,
		LogoType:        domain.LogoDiamond,
		Description:     "advanced-diamond",
		MainDescription: "The works",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	content, err := svc.Content(ctx, bundle.ID)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if content.BundleID != bundle.ID || content.Name != "Premium" {
		t.Errorf("unexpected content header: %+v", content)
	}
	if !strings.Contains(content.BadgeHTML, `data-badge="diamond"`) {
		t.Errorf("badge html = %q", content.BadgeHTML)
	}
	if !strings.HasPrefix(content.DescriptionHTML, "<ul>") || !strings.Contains(content.DescriptionHTML, "<li>") {
		t.Errorf("description html = %q", content.DescriptionHTML)
	}
}

func TestContentEscapesCustomDescription(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bundle, err := svc.Create(ctx, domain.UpsertRequest{
		Name:        "Custom",
		PriceCents:  2000,
		TierLevel:   2,
		Description: `Reports & <b>more</b>`,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	content, err := svc.Content(ctx, bundle.ID)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if strings.Contains(content.DescriptionHTML, "<b>") {
		t.Errorf("custom description not escaped: %q", content.DescriptionHTML)
	}
	if !strings.Contains(content.DescriptionHTML, "&amp;") {
		t.Errorf("ampersand not escaped: %q", content.DescriptionHTML)
	}
}

func TestContentHidesRetiredBundle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bundle, err := svc.Create(ctx, domain.UpsertRequest{Name: "Old", PriceCents: 1000, TierLevel: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.SetActive(ctx, bundle.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := svc.Content(ctx, bundle.ID); !errors.Is(err, domain.ErrBundleNotFound) {
		t.Errorf("retired bundle content: got %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("retired bundle still listed: %d", len(active))
	}
}
