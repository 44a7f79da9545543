package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/subscription/domain"
	"github.com/waslahq/wasla/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindActive(ctx context.Context, userID snowflake.ID, now time.Time) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND end_date > ?", userID, true, now).
		Order("end_date DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repo) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&subs).Error
	return subs, err
}

func (r *repo) List(ctx context.Context, p pagination.Pagination) ([]domain.Subscription, int64, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Subscription{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []domain.Subscription
	err := p.Apply(stmt.Order("created_at DESC")).Find(&subs).Error
	return subs, total, err
}

func (r *repo) Deactivate(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("id = ?", id).
		Update("is_active", false)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}
