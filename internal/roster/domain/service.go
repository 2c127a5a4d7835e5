package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type AddDevoteeRequest struct {
	Name       string
	IsResident bool
}

type UpdateDevoteeRequest struct {
	ID         snowflake.ID
	Name       string
	IsResident bool
}

type Service interface {
	// Add creates a devotee in the context tenant's roster.
	Add(context.Context, AddDevoteeRequest) (Devotee, error)

	// Update renames or changes residency. Returns false without error when
	// the devotee does not belong to the context tenant.
	Update(context.Context, UpdateDevoteeRequest) (bool, error)

	// Remove hard-deletes a devotee. Historical ledger entries are kept.
	Remove(ctx context.Context, id snowflake.ID) (bool, error)

	// List returns the roster in canonical display order: residents before
	// non-residents, case-insensitive alphabetical within each group.
	List(ctx context.Context) ([]Devotee, error)

	// Get returns one devotee of the context tenant, or ErrDevoteeNotFound.
	Get(ctx context.Context, id snowflake.ID) (Devotee, error)
}

type Repository interface {
	Insert(ctx context.Context, devotee *Devotee) error
	FindByID(ctx context.Context, tenantID, id snowflake.ID) (*Devotee, error)
	List(ctx context.Context, tenantID snowflake.ID) ([]Devotee, error)
	Update(ctx context.Context, tenantID, id snowflake.ID, fields map[string]any) (int64, error)
	Delete(ctx context.Context, tenantID, id snowflake.ID) (int64, error)
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidName     = errors.New("invalid_name")
	ErrDevoteeNotFound = errors.New("devotee_not_found")
	ErrAdminRequired   = errors.New("admin_required")
)
