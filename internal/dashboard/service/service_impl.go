package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/clock"
	"github.com/waslahq/wasla/internal/dashboard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) ForUser(ctx context.Context, userID snowflake.ID) (*domain.Dashboard, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Dashboard, error) {
	return s.repo.List(ctx)
}

func (s *Service) SetURL(ctx context.Context, userID snowflake.ID, rawURL string) (*domain.Dashboard, error) {
	trimmed := strings.TrimSpace(rawURL)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return nil, domain.ErrInvalidURL
	}

	err = s.repo.UpdateURL(ctx, userID, trimmed)
	if errors.Is(err, domain.ErrDashboardNotFound) {
		now := s.clock.Now()
		dashboard := &domain.Dashboard{
			ID:              s.genID.Generate(),
			UserID:          userID,
			LookerStudioURL: trimmed,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if createErr := s.repo.Create(ctx, dashboard); createErr != nil {
			return nil, createErr
		}
		return dashboard, nil
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("dashboard url updated", zap.String("user_id", userID.String()))
	return s.repo.FindByUser(ctx, userID)
}
