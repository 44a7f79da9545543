// Package activation turns a settled payment into a live entitlement.
// The whole flow runs in one database transaction so a crash between
// steps never leaves a paid-but-unprovisioned customer.
package activation

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/clock"
	dashboarddomain "github.com/waslahq/wasla/internal/dashboard/domain"
	paymentdomain "github.com/waslahq/wasla/internal/payment/domain"
	"github.com/waslahq/wasla/internal/subscription/domain"
	"github.com/waslahq/wasla/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result describes what an Activate call did.
type Result struct {
	Payment      *paymentdomain.Payment
	Subscription *domain.Subscription
	DashboardURL string
	// Queued is set when the entitlement was scheduled to start after
	// a higher tier subscription ends.
	Queued bool
	// AlreadyProcessed is set when the payment had been settled by an
	// earlier delivery of the same webhook event.
	AlreadyProcessed bool
}

type Params struct {
	fx.In

	Log   *zap.Logger
	DB    *gorm.DB
	Clock clock.Clock
	GenID *snowflake.Node
}

type Activator struct {
	log   *zap.Logger
	db    *gorm.DB
	clock clock.Clock
	genID *snowflake.Node
}

func New(p Params) *Activator {
	return &Activator{
		log:   p.Log.Named("subscription.activation"),
		db:    p.DB,
		clock: p.Clock,
		genID: p.GenID,
	}
}

var errAlreadyActivated = errors.New("payment already activated")

// Activate settles the payment identified by the processor's payment
// id and provisions the entitlement. Safe to call more than once for
// the same payment; repeat calls are no-ops.
func (a *Activator) Activate(ctx context.Context, providerPaymentID string) (*Result, error) {
	var result Result

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stmt := tx
		// SQLite serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() != "sqlite" {
			stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var pay paymentdomain.Payment
		err := stmt.
			Where("provider_payment_id = ?", providerPaymentID).
			First(&pay).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return paymentdomain.ErrPaymentNotFound
		}
		if err != nil {
			return err
		}
		result.Payment = &pay

		if pay.Status == paymentdomain.StatusSucceeded {
			result.AlreadyProcessed = true
			return a.loadExisting(tx, &result, pay)
		}

		now := a.clock.Now()
		start := now
		queued := false

		var active domain.Subscription
		err = tx.Where("user_id = ? AND is_active = ? AND end_date > ?", pay.UserID, true, now).
			Order("end_date DESC").
			First(&active).Error
		switch {
		case err == nil:
			activeTier, paidTier, tierErr := a.tiers(tx, active.BundleID, pay.BundleID)
			if tierErr != nil {
				return tierErr
			}
			if domain.Decide(activeTier, paidTier) == domain.DecisionQueue {
				start = active.EndDate
				queued = true
			} else {
				if err := tx.Model(&domain.Subscription{}).
					Where("id = ?", active.ID).
					Update("is_active", false).Error; err != nil {
					return err
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First subscription for this user.
		default:
			return err
		}

		startDate, endDate := domain.PeriodFor(start, pay.MonthsPurchased)
		paymentID := pay.ID
		sub := &domain.Subscription{
			ID:        a.genID.Generate(),
			UserID:    pay.UserID,
			BundleID:  pay.BundleID,
			PaymentID: &paymentID,
			StartDate: startDate,
			EndDate:   endDate,
			IsActive:  true,
			CreatedAt: now,
		}
		if err := tx.Create(sub).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				// Lost a race with a concurrent delivery.
				return errAlreadyActivated
			}
			return err
		}

		if err := tx.Model(&paymentdomain.Payment{}).
			Where("id = ?", pay.ID).
			Updates(map[string]any{
				"status":                paymentdomain.StatusSucceeded,
				"subscription_end_date": endDate,
			}).Error; err != nil {
			return err
		}
		pay.Status = paymentdomain.StatusSucceeded
		pay.SubscriptionEnd = &endDate

		dashboardURL, err := a.ensureDashboard(tx, pay.UserID, pay.BundleID, now)
		if err != nil {
			return err
		}

		result.Subscription = sub
		result.DashboardURL = dashboardURL
		result.Queued = queued
		return nil
	})
	if errors.Is(err, errAlreadyActivated) {
		result.AlreadyProcessed = true
		return &result, nil
	}
	if err != nil {
		return nil, err
	}

	if result.AlreadyProcessed {
		a.log.Info("duplicate payment settlement ignored",
			zap.String("provider_payment_id", providerPaymentID),
		)
	} else {
		a.log.Info("subscription activated",
			zap.String("provider_payment_id", providerPaymentID),
			zap.String("subscription_id", result.Subscription.ID.String()),
			zap.Bool("queued", result.Queued),
		)
	}
	return &result, nil
}

// Fail marks a pending payment as failed. Settled payments are left
// untouched.
func (a *Activator) Fail(ctx context.Context, providerPaymentID string) error {
	tx := a.db.WithContext(ctx).Model(&paymentdomain.Payment{}).
		Where("provider_payment_id = ? AND status = ?", providerPaymentID, paymentdomain.StatusPending).
		Update("status", paymentdomain.StatusFailed)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		a.log.Warn("payment failure event had no pending payment",
			zap.String("provider_payment_id", providerPaymentID),
		)
	}
	return nil
}

func (a *Activator) loadExisting(tx *gorm.DB, result *Result, pay paymentdomain.Payment) error {
	var sub domain.Subscription
	err := tx.Where("payment_id = ?", pay.ID).First(&sub).Error
	if err == nil {
		result.Subscription = &sub
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var dashboard dashboarddomain.Dashboard
	err = tx.Where("user_id = ?", pay.UserID).First(&dashboard).Error
	if err == nil {
		result.DashboardURL = dashboard.LookerStudioURL
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (a *Activator) tiers(tx *gorm.DB, activeBundleID, paidBundleID snowflake.ID) (int, int, error) {
	var activeBundle, paidBundle bundledomain.Bundle
	if err := tx.Where("id = ?", activeBundleID).First(&activeBundle).Error; err != nil {
		return 0, 0, err
	}
	if err := tx.Where("id = ?", paidBundleID).First(&paidBundle).Error; err != nil {
		return 0, 0, err
	}
	return activeBundle.TierLevel, paidBundle.TierLevel, nil
}

func (a *Activator) ensureDashboard(tx *gorm.DB, userID, bundleID snowflake.ID, now time.Time) (string, error) {
	var dashboard dashboarddomain.Dashboard
	err := tx.Where("user_id = ?", userID).First(&dashboard).Error
	if err == nil {
		return dashboard.LookerStudioURL, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	dashboard = dashboarddomain.Dashboard{
		ID:              a.genID.Generate(),
		UserID:          userID,
		LookerStudioURL: dashboarddomain.PlaceholderURL(userID, bundleID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.Create(&dashboard).Error; err != nil {
		return "", err
	}
	return dashboard.LookerStudioURL, nil
}
