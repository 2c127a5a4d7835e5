package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ProvisionRequest struct {
	Name             string
	AuthCode         string
	AdminPassword    string
	AdminName        string
	SecurityQuestion string
	SecurityAnswer   string
}

type UpdateSettingsRequest struct {
	Name             *string
	AdminName        *string
	AdminPassword    *string
	SecurityQuestion *string
	SecurityAnswer   *string
}

type ResetPasswordRequest struct {
	AuthCode       string
	SecurityAnswer string
	NewPassword    string
}

type Service interface {
	// Provision creates a new tenant. The auth code must match
	// ^[A-Z0-9]{6,12}$ and be unique across all tenants.
	Provision(context.Context, ProvisionRequest) (Tenant, error)

	// Authenticate resolves an auth code to its tenant.
	Authenticate(ctx context.Context, authCode string) (Tenant, error)

	// Get returns the tenant scoped by the context.
	Get(ctx context.Context) (Tenant, error)

	// VerifyAdmin checks the admin credential of the context tenant.
	VerifyAdmin(ctx context.Context, password string) (bool, error)

	// UpdateSettings patches tenant settings. Requires the admin capability.
	UpdateSettings(context.Context, UpdateSettingsRequest) (Tenant, error)

	// SecurityQuestion returns the recovery question for an auth code.
	SecurityQuestion(ctx context.Context, authCode string) (string, error)

	// ResetAdminPassword rotates the admin credential after a correct
	// security answer.
	ResetAdminPassword(context.Context, ResetPasswordRequest) error
}

type Repository interface {
	Insert(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id snowflake.ID) (*Tenant, error)
	FindByAuthCode(ctx context.Context, authCode string) (*Tenant, error)
	Update(ctx context.Context, id snowflake.ID, fields map[string]any) error
}

var (
	ErrTenantNotFound  = errors.New("tenant_not_found")
	ErrAuthCodeTaken   = errors.New("auth_code_taken")
	ErrInvalidAuthCode = errors.New("invalid_auth_code")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrInvalidAnswer   = errors.New("invalid_security_answer")
	ErrNoSecurityQA    = errors.New("security_question_not_set")
	ErrAdminRequired   = errors.New("admin_required")
	ErrInvalidTenant   = errors.New("invalid_tenant")
)
