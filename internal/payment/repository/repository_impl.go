package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/payment/domain"
	"github.com/waslahq/wasla/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByProviderID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).Where("provider_payment_id = ?", providerPaymentID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repo) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *repo) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats

	if err := r.db.WithContext(ctx).Model(&domain.Payment{}).Count(&stats.TotalPayments).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status = ?", domain.StatusSucceeded).
		Count(&stats.SucceededPayments).Error; err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("status = ?", domain.StatusSucceeded).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&stats.TotalRevenueCents).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repo) List(ctx context.Context, p pagination.Pagination) ([]domain.Payment, int64, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Payment{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []domain.Payment
	err := p.Apply(stmt.Order("created_at DESC")).Find(&payments).Error
	return payments, total, err
}
