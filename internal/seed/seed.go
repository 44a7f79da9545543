// Package seed provisions the baseline records a fresh install needs:
// the sellable bundles, the standard multi-month discounts, and the
// bootstrap admin account.
package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	authdomain "github.com/waslahq/wasla/internal/auth/domain"
	"github.com/waslahq/wasla/internal/auth/password"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	bundleoptions "github.com/waslahq/wasla/internal/bundle/options"
	"github.com/waslahq/wasla/internal/clock"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
)

// EnsureDefaultBundles creates the three sales tiers when the bundles
// table is empty. Existing catalogs are never touched.
func EnsureDefaultBundles(db *gorm.DB, node *snowflake.Node, clk clock.Clock) error {
	if db == nil || node == nil || clk == nil {
		return errors.New("seed dependencies are required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&bundledomain.Bundle{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		descriptions := bundleoptions.Descriptions()
		now := clk.Now()
		defaults := []bundledomain.Bundle{
			{
				Name:        "Basic Plan",
				PriceCents:  1000,
				TierLevel:   1,
				LogoType:    bundledomain.LogoSilver,
				Description: descriptions[0].Value,
			},
			{
				Name:        "Pro Plan",
				PriceCents:  3000,
				TierLevel:   2,
				LogoType:    bundledomain.LogoGold,
				Description: descriptions[1].Value,
			},
			{
				Name:        "Premium Plan",
				PriceCents:  5000,
				TierLevel:   3,
				LogoType:    bundledomain.LogoDiamond,
				Description: descriptions[2].Value,
			},
		}
		for i := range defaults {
			defaults[i].ID = node.Generate()
			defaults[i].Currency = "usd"
			defaults[i].IsActive = true
			defaults[i].CreatedAt = now
			defaults[i].UpdatedAt = now
			if err := tx.Create(&defaults[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDefaultDiscounts seeds the standard multi-month pricing:
// 10% off for 6 to 11 months, 20% off for a year or more.
func EnsureDefaultDiscounts(db *gorm.DB, node *snowflake.Node, clk clock.Clock) error {
	if db == nil || node == nil || clk == nil {
		return errors.New("seed dependencies are required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&discountdomain.Rule{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		elevenMonths := 11
		now := clk.Now()
		rules := []discountdomain.Rule{
			{
				Name:               "Half-Year Discount",
				MinMonths:          6,
				MaxMonths:          &elevenMonths,
				DiscountPercentage: 10,
			},
			{
				Name:               "Annual Discount",
				MinMonths:          12,
				DiscountPercentage: 20,
			},
		}
		for i := range rules {
			rules[i].ID = node.Generate()
			rules[i].IsActive = true
			rules[i].CreatedAt = now
			rules[i].UpdatedAt = now
			if err := tx.Create(&rules[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDefaultAdmin creates the bootstrap admin account when no admin
// exists yet. A configured password is required so installs never ship
// with a well-known credential.
func EnsureDefaultAdmin(db *gorm.DB, node *snowflake.Node, clk clock.Clock, email, rawPassword string) error {
	if db == nil || node == nil || clk == nil {
		return errors.New("seed dependencies are required")
	}
	if rawPassword == "" {
		return errors.New("bootstrap admin password is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&authdomain.User{}).
			Where("role = ?", authdomain.RoleAdmin).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(rawPassword)
		if err != nil {
			return err
		}
		now := clk.Now()
		admin := authdomain.User{
			ID:           node.Generate(),
			Email:        strings.ToLower(strings.TrimSpace(email)),
			PasswordHash: hashed,
			FullName:     "Administrator",
			Role:         authdomain.RoleAdmin,
			IsActive:     true,
			IsVerified:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&admin).Error
	})
}
