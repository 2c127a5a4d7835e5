package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DateLayout is the calendar-day format stored on entries. String compare
// over this layout is date order, which the report window queries rely on.
const DateLayout = "2006-01-02"

// TempleVisitType records which scored activity a temple visit was tied to,
// or "normal" for a visit unconnected to a specific activity.
type TempleVisitType string

const (
	TempleVisitNone    TempleVisitType = "none"
	TempleVisitNormal  TempleVisitType = "normal"
	TempleVisitMangla  TempleVisitType = "mangla"
	TempleVisitJapa    TempleVisitType = "japa"
	TempleVisitLecture TempleVisitType = "lecture"
)

func (t TempleVisitType) Valid() bool {
	switch t {
	case TempleVisitNone, TempleVisitNormal, TempleVisitMangla, TempleVisitJapa, TempleVisitLecture:
		return true
	default:
		return false
	}
}

// Entry is one devotee's attendance record for one calendar day. At most one
// entry exists per (tenant, devotee, date); the storage layer enforces this
// with a unique index and the upsert path folds writes into it.
type Entry struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;uniqueIndex:ux_entries_tenant_devotee_date,priority:1" json:"tenant_id"`
	DevoteeID snowflake.ID `gorm:"not null;uniqueIndex:ux_entries_tenant_devotee_date,priority:2" json:"devotee_id"`
	// DevoteeName is a snapshot taken at write time. Listings join the live
	// roster name and fall back to the snapshot once the devotee is deleted.
	DevoteeName     string          `gorm:"not null;default:''" json:"devotee_name"`
	Date            string          `gorm:"not null;uniqueIndex:ux_entries_tenant_devotee_date,priority:3" json:"date"`
	Mangla          float64         `gorm:"not null;default:0" json:"mangla"`
	Japa            float64         `gorm:"not null;default:0" json:"japa"`
	Lecture         float64         `gorm:"not null;default:0" json:"lecture"`
	TempleVisit     bool            `gorm:"not null;default:false" json:"temple_visit"`
	TempleVisitType TempleVisitType `gorm:"not null;default:'none'" json:"temple_visit_type"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Entry) TableName() string { return "entries" }

// ValidScore reports whether v is an allowed activity credit: absent,
// partial, or full.
func ValidScore(v float64) bool {
	return v == 0 || v == 0.5 || v == 1
}

// RawRow is the text shape of one CSV data row, for both import and export.
type RawRow struct {
	Date        string
	DevoteeName string
	Mangla      string
	Japa        string
	Lecture     string
	TempleVisit string
}

// ImportFailure describes one rejected row of a bulk import.
type ImportFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport is the outcome of a bulk import. Succeeded plus Failed always
// equals the number of data rows processed; it is the caller's sole source
// of truth for what was applied.
type ImportReport struct {
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []ImportFailure `json:"failures,omitempty"`
}

// BulkDeleteReport is the per-item-tolerant outcome of a bulk delete.
type BulkDeleteReport struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
