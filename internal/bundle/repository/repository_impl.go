package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/bundle/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Bundle{}).Count(&count).Error
	return count, err
}

func (r *repo) Create(ctx context.Context, bundle *domain.Bundle) error {
	return r.db.WithContext(ctx).Create(bundle).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Bundle, error) {
	var bundle domain.Bundle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bundle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBundleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *repo) List(ctx context.Context, activeOnly bool) ([]domain.Bundle, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Bundle{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	var bundles []domain.Bundle
	err := stmt.Order("tier_level ASC, price_cents ASC").Find(&bundles).Error
	return bundles, err
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Bundle{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrBundleNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Bundle{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrBundleNotFound
	}
	return nil
}
