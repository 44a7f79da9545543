package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/clock"
	dashboarddomain "github.com/waslahq/wasla/internal/dashboard/domain"
	"github.com/waslahq/wasla/internal/subscription/domain"
	"github.com/waslahq/wasla/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	Repo          domain.Repository
	BundleRepo    bundledomain.Repository
	DashboardRepo dashboarddomain.Repository
}

type Service struct {
	log           *zap.Logger
	clock         clock.Clock
	repo          domain.Repository
	bundleRepo    bundledomain.Repository
	dashboardRepo dashboarddomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:           p.Log.Named("subscription.service"),
		clock:         p.Clock,
		repo:          p.Repo,
		bundleRepo:    p.BundleRepo,
		dashboardRepo: p.DashboardRepo,
	}
}

func (s *Service) Summary(ctx context.Context, userID snowflake.ID, accessOverride bool) (*domain.Summary, error) {
	now := s.clock.Now()

	sub, err := s.repo.FindActive(ctx, userID, now)
	if err != nil && !errors.Is(err, domain.ErrNoActiveSubscription) {
		return nil, err
	}

	summary := &domain.Summary{Source: domain.AccessNone}

	if sub != nil {
		summary.HasAccess = true
		summary.Source = domain.AccessBySubscription
		summary.Subscription = sub
		summary.DaysRemaining = int(sub.EndDate.Sub(now).Hours() / 24)

		bundle, err := s.bundleRepo.FindByID(ctx, sub.BundleID)
		if err == nil {
			summary.BundleName = bundle.Name
			summary.TierLevel = bundle.TierLevel
		} else if !errors.Is(err, bundledomain.ErrBundleNotFound) {
			return nil, err
		}
	} else if accessOverride {
		summary.HasAccess = true
		summary.Source = domain.AccessByOverride
	}

	if summary.HasAccess {
		dashboard, err := s.dashboardRepo.FindByUser(ctx, userID)
		if err == nil {
			summary.DashboardURL = dashboard.LookerStudioURL
		} else if !errors.Is(err, dashboarddomain.ErrDashboardNotFound) {
			return nil, err
		}
	}
	return summary, nil
}

func (s *Service) ListForUser(ctx context.Context, userID snowflake.ID) ([]domain.Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) List(ctx context.Context, p pagination.Pagination) ([]domain.Subscription, int64, error) {
	return s.repo.List(ctx, p)
}

func (s *Service) Deactivate(ctx context.Context, id snowflake.ID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info("subscription deactivated", zap.String("subscription_id", id.String()))
	return nil
}
