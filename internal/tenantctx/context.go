package tenantctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// TenantContextKey is the request context key for the active tenant ID.
type TenantContextKey struct{}

// AdminContextKey marks a context carrying a verified admin capability.
type AdminContextKey struct{}

// WithTenantID stores the tenant ID in the context.
func WithTenantID(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, TenantContextKey{}, tenantID)
}

// TenantIDFromContext returns the tenant ID from context, if set.
func TenantIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	value := ctx.Value(TenantContextKey{})
	if value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// WithAdmin grants the admin capability to the context. Only the boundary
// that verified the admin credential may call this.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, AdminContextKey{}, true)
}

// IsAdmin reports whether the context carries a verified admin capability.
func IsAdmin(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	granted, _ := ctx.Value(AdminContextKey{}).(bool)
	return granted
}
