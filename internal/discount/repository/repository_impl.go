package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/discount/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, rule *domain.Rule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Rule, error) {
	var rule domain.Rule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repo) List(ctx context.Context, activeOnly bool) ([]domain.Rule, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Rule{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	var rules []domain.Rule
	err := stmt.Order("min_months ASC").Find(&rules).Error
	return rules, err
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Rule{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Rule{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}
