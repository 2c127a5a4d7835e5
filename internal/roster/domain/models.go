package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Devotee is a tracked individual inside one tenant's roster.
type Devotee struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Name       string       `gorm:"not null" json:"name"`
	IsResident bool         `gorm:"not null;default:false" json:"is_resident"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Devotee) TableName() string { return "devotees" }
