package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/clock"
	"github.com/waslahq/wasla/internal/discount/domain"
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
		log:   p.Log.Named("discount.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) PercentageFor(ctx context.Context, months int) (int, error) {
	rules, err := s.repo.List(ctx, true)
	if err != nil {
		return 0, err
	}
	return domain.Evaluate(rules, months), nil
}

func (s *Service) Options(ctx context.Context) ([]domain.Option, error) {
	rules, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	options := make([]domain.Option, 0, len(rules))
	for _, rule := range rules {
		display := rule.RangeDisplay()
		options = append(options, domain.Option{
			MinMonths:          rule.MinMonths,
			MaxMonths:          rule.MaxMonths,
			DiscountPercentage: rule.DiscountPercentage,
			DisplayText:        fmt.Sprintf("%s: %d%% OFF", display, rule.DiscountPercentage),
			BannerMessage:      fmt.Sprintf("Save %d%% on %s!", rule.DiscountPercentage, display),
		})
	}
	return options, nil
}

func (s *Service) ListRules(ctx context.Context) ([]domain.Rule, error) {
	return s.repo.List(ctx, false)
}

func (s *Service) CreateRule(ctx context.Context, req domain.CreateRuleRequest) (*domain.Rule, error) {
	if req.MinMonths < 1 {
		return nil, domain.ErrInvalidRange
	}
	if req.MaxMonths != nil && *req.MaxMonths <= req.MinMonths {
		return nil, domain.ErrInvalidRange
	}
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return nil, domain.ErrInvalidPercent
	}

	candidate := domain.Rule{
		MinMonths: req.MinMonths,
		MaxMonths: req.MaxMonths,
	}
	existing, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, rule := range existing {
		if domain.Overlaps(candidate, rule) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRuleOverlap, rule.Name)
		}
	}

	now := s.clock.Now()
	rule := &domain.Rule{
		ID:                 s.genID.Generate(),
		Name:               strings.TrimSpace(req.Name),
		MinMonths:          req.MinMonths,
		MaxMonths:          req.MaxMonths,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.log.Info("discount rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.Int("min_months", rule.MinMonths),
		zap.Int("percentage", rule.DiscountPercentage),
	)
	return rule, nil
}

func (s *Service) UpdateRule(ctx context.Context, id snowflake.ID, req domain.UpdateRuleRequest) (*domain.Rule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.MinMonths != nil {
		if *req.MinMonths < 1 {
			return nil, domain.ErrInvalidRange
		}
		fields["min_months"] = *req.MinMonths
		rule.MinMonths = *req.MinMonths
	}
	if req.MaxMonths != nil {
		if *req.MaxMonths <= rule.MinMonths {
			return nil, domain.ErrInvalidRange
		}
		fields["max_months"] = *req.MaxMonths
		rule.MaxMonths = req.MaxMonths
	}
	if req.DiscountPercentage != nil {
		if *req.DiscountPercentage < 0 || *req.DiscountPercentage > 100 {
			return nil, domain.ErrInvalidPercent
		}
		fields["discount_percentage"] = *req.DiscountPercentage
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
		rule.IsActive = *req.IsActive
	}
	if len(fields) == 0 {
		return rule, nil
	}

	// A changed range, or a reactivation, must not collide with the
	// other active rules.
	if rule.IsActive && (req.MinMonths != nil || req.MaxMonths != nil || req.IsActive != nil) {
		existing, err := s.repo.List(ctx, true)
		if err != nil {
			return nil, err
		}
		for _, other := range existing {
			if other.ID == id {
				continue
			}
			if domain.Overlaps(*rule, other) {
				return nil, fmt.Errorf("%w: %s", domain.ErrRuleOverlap, other.Name)
			}
		}
	}
	fields["updated_at"] = s.clock.Now()

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) DeleteRule(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}
