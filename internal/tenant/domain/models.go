package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is one community's isolated tracking system. Every roster and
// ledger row hangs off a tenant id.
type Tenant struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	Name              string       `gorm:"not null" json:"name"`
	AuthCode          string       `gorm:"not null;uniqueIndex:ux_tenants_auth_code" json:"auth_code"`
	AdminPasswordHash string       `gorm:"not null" json:"-"`
	AdminName         string       `json:"admin_name,omitempty"`
	SecurityQuestion  string       `json:"security_question,omitempty"`
	SecurityAnswer    string       `json:"-"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tenant) TableName() string { return "tenants" }
