package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/sadhanahub/sadhana/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, entry *domain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repo) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*domain.Entry, error) {
	var entry domain.Entry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repo) FindByKey(ctx context.Context, tenantID, devoteeID snowflake.ID, date string) (*domain.Entry, error) {
	var entry domain.Entry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND devotee_id = ? AND date = ?", tenantID, devoteeID, date).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repo) List(ctx context.Context, tenantID snowflake.ID, filter domain.ListRequest) ([]domain.Entry, error) {
	var entries []domain.Entry
	// Live-join the roster name so renames show up on historical entries;
	// the write-time snapshot remains for devotees that were deleted.
	stmt := r.db.WithContext(ctx).
		Table("entries").
		Select("entries.*, COALESCE(devotees.name, entries.devotee_name) AS devotee_name").
		Joins("LEFT JOIN devotees ON devotees.id = entries.devotee_id AND devotees.tenant_id = entries.tenant_id").
		Where("entries.tenant_id = ?", tenantID)
	if filter.DevoteeID != 0 {
		stmt = stmt.Where("entries.devotee_id = ?", filter.DevoteeID)
	}
	if filter.From != "" {
		stmt = stmt.Where("entries.date >= ?", filter.From)
	}
	if filter.To != "" {
		stmt = stmt.Where("entries.date <= ?", filter.To)
	}
	err := stmt.
		Order("entries.date DESC, entries.id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) Update(ctx context.Context, tenantID, id snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, tenantID, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Entry{})
	return res.RowsAffected, res.Error
}
