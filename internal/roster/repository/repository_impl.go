package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/sadhanahub/sadhana/internal/roster/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, devotee *domain.Devotee) error {
	return r.db.WithContext(ctx).Create(devotee).Error
}

func (r *repo) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*domain.Devotee, error) {
	var devotee domain.Devotee
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&devotee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &devotee, nil
}

func (r *repo) List(ctx context.Context, tenantID snowflake.ID) ([]domain.Devotee, error) {
	var devotees []domain.Devotee
	// Canonical display order is a contract: residents first, then
	// case-insensitive alphabetical.
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("is_resident DESC, LOWER(name) ASC, id ASC").
		Find(&devotees).Error
	if err != nil {
		return nil, err
	}
	return devotees, nil
}

func (r *repo) Update(ctx context.Context, tenantID, id snowflake.ID, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Devotee{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *repo) Delete(ctx context.Context, tenantID, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Devotee{})
	return res.RowsAffected, res.Error
}
