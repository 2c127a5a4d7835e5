package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sadhanahub/sadhana/internal/config"
	"github.com/sadhanahub/sadhana/internal/password"
	tenantdomain "github.com/sadhanahub/sadhana/internal/tenant/domain"
	"gorm.io/gorm"
)

// EnsureBootstrapTenant seeds a tenant on startup for local and self-hosted
// setups, so a fresh install is usable without a provisioning call.
func EnsureBootstrapTenant(db *gorm.DB, cfg config.BootstrapConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	authCode := strings.ToUpper(strings.TrimSpace(cfg.AuthCode))
	if authCode == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return errors.New("bootstrap tenant requires BOOTSTRAP_AUTH_CODE and BOOTSTRAP_ADMIN_PASSWORD")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing tenantdomain.Tenant
		err := tx.Where("auth_code = ?", authCode).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := password.Hash(cfg.AdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		return tx.Create(&tenantdomain.Tenant{
			ID:                node.Generate(),
			Name:              cfg.TenantName,
			AuthCode:          authCode,
			AdminPasswordHash: hash,
			AdminName:         strings.TrimSpace(cfg.AdminName),
			CreatedAt:         now,
			UpdatedAt:         now,
		}).Error
	})
}
