package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/dashboard/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, dashboard *domain.Dashboard) error {
	return r.db.WithContext(ctx).Create(dashboard).Error
}

func (r *repo) FindByUser(ctx context.Context, userID snowflake.ID) (*domain.Dashboard, error) {
	var dashboard domain.Dashboard
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&dashboard).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDashboardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Dashboard, error) {
	var dashboards []domain.Dashboard
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&dashboards).Error
	return dashboards, err
}

func (r *repo) UpdateURL(ctx context.Context, userID snowflake.ID, url string) error {
	tx := r.db.WithContext(ctx).Model(&domain.Dashboard{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"looker_studio_url": url, "updated_at": gorm.Expr("CURRENT_TIMESTAMP")})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrDashboardNotFound
	}
	return nil
}
