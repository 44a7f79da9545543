package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/bundle/options"
	"github.com/waslahq/wasla/internal/clock"
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
		log:   p.Log.Named("bundle.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Bundle, error) {
	return s.repo.List(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Bundle, error) {
	return s.repo.List(ctx, false)
}

func (s *Service) Find(ctx context.Context, id snowflake.ID) (*domain.Bundle, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Content(ctx context.Context, id snowflake.ID) (*domain.Content, error) {
	bundle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Retired bundles disappear from the storefront entirely.
	if !bundle.IsActive {
		return nil, domain.ErrBundleNotFound
	}

	return &domain.Content{
		BundleID:        bundle.ID,
		Name:            bundle.Name,
		PriceCents:      bundle.PriceCents,
		Currency:        bundle.Currency,
		TierLevel:       bundle.TierLevel,
		LogoType:        bundle.LogoType,
		MainDescription: bundle.MainDescription,
		BadgeHTML:       options.BadgeHTML(bundle.LogoType),
		DescriptionHTML: options.DescriptionHTML(bundle.Description),
	}, nil
}

func (s *Service) Create(ctx context.Context, req domain.UpsertRequest) (*domain.Bundle, error) {
	normalized, err := normalize(req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	bundle := &domain.Bundle{
		ID:              s.genID.Generate(),
		Name:            normalized.Name,
		PriceCents:      normalized.PriceCents,
		Currency:        normalized.Currency,
		TierLevel:       normalized.TierLevel,
		LogoType:        normalized.LogoType,
		Description:     normalized.Description,
		MainDescription: normalized.MainDescription,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, bundle); err != nil {
		return nil, err
	}

	s.log.Info("bundle created",
		zap.String("bundle_id", bundle.ID.String()),
		zap.Int("tier_level", bundle.TierLevel),
	)
	return bundle, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpsertRequest) (*domain.Bundle, error) {
	normalized, err := normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"name":             normalized.Name,
		"price_cents":      normalized.PriceCents,
		"currency":         normalized.Currency,
		"tier_level":       normalized.TierLevel,
		"logo_type":        normalized.LogoType,
		"description":      normalized.Description,
		"main_description": normalized.MainDescription,
		"updated_at":       s.clock.Now(),
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) SetActive(ctx context.Context, id snowflake.ID, active bool) error {
	return s.repo.UpdateFields(ctx, id, map[string]any{
		"is_active":  active,
		"updated_at": s.clock.Now(),
	})
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}

func normalize(req domain.UpsertRequest) (domain.UpsertRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PriceCents <= 0 || req.TierLevel < 1 {
		return req, domain.ErrInvalidBundle
	}

	req.Currency = strings.ToLower(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = "usd"
	}
	if req.LogoType == "" {
		req.LogoType = domain.LogoSilver
	}
	if !req.LogoType.Valid() {
		return req, domain.ErrInvalidBundle
	}
	return req, nil
}
