package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type RecordRequest struct {
	DevoteeID       snowflake.ID
	Date            string
	Mangla          float64
	Japa            float64
	Lecture         float64
	TempleVisit     bool
	TempleVisitType TempleVisitType
}

type ListRequest struct {
	DevoteeID snowflake.ID
	From      string
	To        string
}

type Service interface {
	// Record upserts the entry for (devotee, date): an existing entry is
	// overwritten in place under the same id, otherwise a new one is
	// inserted.
	Record(context.Context, RecordRequest) (Entry, error)

	// List returns entries of the context tenant, newest date first,
	// optionally filtered by devotee and inclusive date window.
	List(context.Context, ListRequest) ([]Entry, error)

	// Delete removes one entry. False when the entry is not in the tenant.
	Delete(ctx context.Context, id snowflake.ID) (bool, error)

	// DeleteMany removes entries one at a time; a failing id never aborts
	// the rest.
	DeleteMany(ctx context.Context, ids []snowflake.ID) (BulkDeleteReport, error)

	// Import reconciles raw CSV rows against the ledger row-at-a-time.
	Import(ctx context.Context, rows []RawRow) (ImportReport, error)

	// Export renders entries as raw rows that round-trip through Import.
	Export(context.Context, ListRequest) ([]RawRow, error)
}

type Repository interface {
	Insert(ctx context.Context, entry *Entry) error
	FindByID(ctx context.Context, tenantID, id snowflake.ID) (*Entry, error)
	FindByKey(ctx context.Context, tenantID, devoteeID snowflake.ID, date string) (*Entry, error)
	List(ctx context.Context, tenantID snowflake.ID, filter ListRequest) ([]Entry, error)
	Update(ctx context.Context, tenantID, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, tenantID, id snowflake.ID) (int64, error)
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrDevoteeNotFound = errors.New("devotee_not_found")
	ErrEntryNotFound   = errors.New("entry_not_found")
	ErrInvalidScore    = errors.New("invalid_score")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidVisit    = errors.New("invalid_temple_visit_type")
	ErrAdminRequired   = errors.New("admin_required")
)

// Import failure reasons reported per row.
const (
	ReasonDevoteeNotFound = "devotee_not_found"
	ReasonInvalidScore    = "invalid_score"
	ReasonInvalidDate     = "invalid_date"
	ReasonWriteFailed     = "write_failed"
)
