package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/waslahq/wasla/internal/contact/domain"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, contact *domain.ContactRequest) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.ContactRequest, error) {
	var contact domain.ContactRequest
	err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *repo) applyFilter(stmt *gorm.DB, filter domain.ListFilter) *gorm.DB {
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Country != "" {
		stmt = stmt.Where("country = ?", filter.Country)
	}
	if filter.ReferralSource != "" {
		stmt = stmt.Where("referral_source = ?", filter.ReferralSource)
	}
	if filter.LanguagePreference != "" {
		stmt = stmt.Where("language_preference = ?", filter.LanguagePreference)
	}
	if filter.MarketingConsent != nil {
		stmt = stmt.Where("marketing_consent = ?", *filter.MarketingConsent)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
	}
	if filter.AssignedTo != 0 {
		stmt = stmt.Where(
			"id IN (?)",
			r.db.Model(&domain.LeadAssignment{}).
				Select("contact_request_id").
				Where("salesman_id = ?", filter.AssignedTo),
		)
	}
	return stmt
}

func (r *repo) List(ctx context.Context, filter domain.ListFilter, p pagination.Pagination) ([]domain.ContactRequest, error) {
	var contacts []domain.ContactRequest
	stmt := r.applyFilter(r.db.WithContext(ctx).Model(&domain.ContactRequest{}), filter).
		Order("created_at DESC")
	if err := p.Apply(stmt).Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *repo) ListAll(ctx context.Context, filter domain.ListFilter) ([]domain.ContactRequest, error) {
	var contacts []domain.ContactRequest
	stmt := r.applyFilter(r.db.WithContext(ctx).Model(&domain.ContactRequest{}), filter).
		Order("created_at DESC")
	if err := stmt.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id snowflake.ID, status domain.Status, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ContactRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": updatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *repo) CreateNote(ctx context.Context, note *domain.ContactNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *repo) ListNotes(ctx context.Context, contactID snowflake.ID) ([]domain.ContactNote, error) {
	var notes []domain.ContactNote
	err := r.db.WithContext(ctx).
		Where("contact_request_id = ?", contactID).
		Order("created_at ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repo) CountNotes(ctx context.Context, contactIDs []snowflake.ID) (map[snowflake.ID]int64, error) {
	counts := make(map[snowflake.ID]int64, len(contactIDs))
	if len(contactIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ContactRequestID snowflake.ID
		Total            int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.ContactNote{}).
		Select("contact_request_id, COUNT(*) AS total").
		Where("contact_request_id IN ?", contactIDs).
		Group("contact_request_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ContactRequestID] = row.Total
	}
	return counts, nil
}

func (r *repo) FindAssignment(ctx context.Context, contactID snowflake.ID) (*domain.LeadAssignment, error) {
	var assignment domain.LeadAssignment
	err := r.db.WithContext(ctx).
		First(&assignment, "contact_request_id = ?", contactID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repo) ListAssignments(ctx context.Context, contactIDs []snowflake.ID) ([]domain.LeadAssignment, error) {
	if len(contactIDs) == 0 {
		return nil, nil
	}
	var assignments []domain.LeadAssignment
	err := r.db.WithContext(ctx).
		Where("contact_request_id IN ?", contactIDs).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *repo) UpsertAssignment(ctx context.Context, assignment *domain.LeadAssignment) (*domain.LeadAssignment, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "contact_request_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"salesman_id":    assignment.SalesmanID,
				"assigned_by_id": assignment.AssignedByID,
				"assigned_at":    assignment.AssignedAt,
				"updated_at":     assignment.UpdatedAt,
			}),
		}).
		Create(assignment).Error
	if err != nil {
		return nil, err
	}
	// Re-read so reassignments report the surviving row's identity.
	return r.FindAssignment(ctx, assignment.ContactRequestID)
}

func (r *repo) DeleteAssignment(ctx context.Context, contactID snowflake.ID) error {
	result := r.db.WithContext(ctx).
		Where("contact_request_id = ?", contactID).
		Delete(&domain.LeadAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (r *repo) IsAssignedTo(ctx context.Context, contactID, salesmanID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.LeadAssignment{}).
		Where("contact_request_id = ? AND salesman_id = ?", contactID, salesmanID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
