package seed

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/waslahq/wasla/internal/auth/domain"
	"github.com/waslahq/wasla/internal/auth/password"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/clock"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
	"github.com/waslahq/wasla/pkg/db"
	"gorm.io/gorm"
)

func newSeedDB(t *testing.T) (*gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&authdomain.User{},
		&bundledomain.Bundle{},
		&discountdomain.Rule{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	return dbConn, node, fake
}

func TestEnsureDefaultBundlesUsesProvidedClock(t *testing.T) {
	dbConn, node, fake := newSeedDB(t)

	if err := EnsureDefaultBundles(dbConn, node, fake); err != nil {
		t.Fatalf("EnsureDefaultBundles: %v", err)
	}

	var bundles []bundledomain.Bundle
	if err := dbConn.Order("tier_level").Find(&bundles).Error; err != nil {
		t.Fatalf("find bundles: %v", err)
	}
	if len(bundles) != 3 {
		t.Fatalf("expected 3 bundles, got %d", len(bundles))
	}
	for _, b := range bundles {
		if !b.CreatedAt.Equal(fake.Now()) {
			t.Fatalf("bundle %s created_at %v, want %v", b.Name, b.CreatedAt, fake.Now())
		}
	}

	// A second run against a populated catalog is a no-op.
	if err := EnsureDefaultBundles(dbConn, node, fake); err != nil {
		t.Fatalf("EnsureDefaultBundles rerun: %v", err)
	}
	var count int64
	if err := dbConn.Model(&bundledomain.Bundle{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 bundles after rerun, got %d", count)
	}
}

func TestEnsureDefaultDiscounts(t *testing.T) {
	dbConn, node, fake := newSeedDB(t)

	if err := EnsureDefaultDiscounts(dbConn, node, fake); err != nil {
		t.Fatalf("EnsureDefaultDiscounts: %v", err)
	}

	var rules []discountdomain.Rule
	if err := dbConn.Order("min_months").Find(&rules).Error; err != nil {
		t.Fatalf("find rules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].DiscountPercentage != 10 || rules[1].DiscountPercentage != 20 {
		t.Fatalf("unexpected percentages %d, %d", rules[0].DiscountPercentage, rules[1].DiscountPercentage)
	}
	if !rules[0].CreatedAt.Equal(fake.Now()) {
		t.Fatalf("rule created_at %v, want %v", rules[0].CreatedAt, fake.Now())
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	dbConn, node, fake := newSeedDB(t)

	if err := EnsureDefaultAdmin(dbConn, node, fake, "Admin@Example.com", "bootstrap-secret"); err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}

	var admin authdomain.User
	if err := dbConn.Where("role = ?", authdomain.RoleAdmin).First(&admin).Error; err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if admin.Email != "admin@example.com" {
		t.Fatalf("unexpected email %q", admin.Email)
	}
	if !password.Verify("bootstrap-secret", admin.PasswordHash) {
		t.Fatal("stored hash does not verify")
	}
	if !admin.CreatedAt.Equal(fake.Now()) {
		t.Fatalf("admin created_at %v, want %v", admin.CreatedAt, fake.Now())
	}

	// An existing admin is never replaced.
	if err := EnsureDefaultAdmin(dbConn, node, fake, "second@example.com", "other-secret"); err != nil {
		t.Fatalf("EnsureDefaultAdmin rerun: %v", err)
	}
	var count int64
	if err := dbConn.Model(&authdomain.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}

	if err := EnsureDefaultAdmin(dbConn, node, fake, "x@example.com", ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}
