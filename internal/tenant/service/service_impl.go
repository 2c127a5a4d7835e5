package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sadhanahub/sadhana/internal/password"
	"github.com/sadhanahub/sadhana/internal/tenant/domain"
	"github.com/sadhanahub/sadhana/internal/tenantctx"
	"github.com/sadhanahub/sadhana/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var authCodePattern = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Provision(ctx context.Context, req domain.ProvisionRequest) (domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Tenant{}, domain.ErrInvalidName
	}

	// Pattern check comes before any uniqueness check.
	authCode := strings.ToUpper(strings.TrimSpace(req.AuthCode))
	if !authCodePattern.MatchString(authCode) {
		return domain.Tenant{}, domain.ErrInvalidAuthCode
	}

	if strings.TrimSpace(req.AdminPassword) == "" {
		return domain.Tenant{}, domain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.AdminPassword)
	if err != nil {
		return domain.Tenant{}, err
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:                s.genID.Generate(),
		Name:              name,
		AuthCode:          authCode,
		AdminPasswordHash: hash,
		AdminName:         strings.TrimSpace(req.AdminName),
		SecurityQuestion:  strings.TrimSpace(req.SecurityQuestion),
		SecurityAnswer:    strings.TrimSpace(req.SecurityAnswer),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, &tenant); err != nil {
		// Uniqueness lives on the auth_code index, so a racing creation
		// surfaces here instead of duplicating the code.
		if db.IsDuplicateKeyErr(err) {
			return domain.Tenant{}, domain.ErrAuthCodeTaken
		}
		return domain.Tenant{}, err
	}

	s.log.Info("tenant provisioned", zap.String("tenant_id", tenant.ID.String()))
	return tenant, nil
}

func (s *Service) Authenticate(ctx context.Context, authCode string) (domain.Tenant, error) {
	authCode = strings.ToUpper(strings.TrimSpace(authCode))
	if authCode == "" {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}

	tenant, err := s.repo.FindByAuthCode(ctx, authCode)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return *tenant, nil
}

func (s *Service) Get(ctx context.Context) (domain.Tenant, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Tenant{}, domain.ErrInvalidTenant
	}

	tenant, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return *tenant, nil
}

func (s *Service) VerifyAdmin(ctx context.Context, pass string) (bool, error) {
	tenant, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return password.Verify(pass, tenant.AdminPasswordHash), nil
}

func (s *Service) UpdateSettings(ctx context.Context, req domain.UpdateSettingsRequest) (domain.Tenant, error) {
	if !tenantctx.IsAdmin(ctx) {
		return domain.Tenant{}, domain.ErrAdminRequired
	}

	tenant, err := s.Get(ctx)
	if err != nil {
		return domain.Tenant{}, err
	}

	fields := map[string]any{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Tenant{}, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.AdminName != nil {
		fields["admin_name"] = strings.TrimSpace(*req.AdminName)
	}
	if req.AdminPassword != nil {
		if strings.TrimSpace(*req.AdminPassword) == "" {
			return domain.Tenant{}, domain.ErrInvalidPassword
		}
		hash, err := password.Hash(*req.AdminPassword)
		if err != nil {
			return domain.Tenant{}, err
		}
		fields["admin_password_hash"] = hash
	}
	if req.SecurityQuestion != nil {
		fields["security_question"] = strings.TrimSpace(*req.SecurityQuestion)
	}
	if req.SecurityAnswer != nil {
		fields["security_answer"] = strings.TrimSpace(*req.SecurityAnswer)
	}

	if err := s.repo.Update(ctx, tenant.ID, fields); err != nil {
		return domain.Tenant{}, err
	}

	updated, err := s.repo.FindByID(ctx, tenant.ID)
	if err != nil {
		return domain.Tenant{}, err
	}
	return *updated, nil
}

func (s *Service) SecurityQuestion(ctx context.Context, authCode string) (string, error) {
	tenant, err := s.Authenticate(ctx, authCode)
	if err != nil {
		return "", err
	}
	if tenant.SecurityQuestion == "" {
		return "", domain.ErrNoSecurityQA
	}
	return tenant.SecurityQuestion, nil
}

func (s *Service) ResetAdminPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	tenant, err := s.Authenticate(ctx, req.AuthCode)
	if err != nil {
		return err
	}
	if tenant.SecurityAnswer == "" {
		return domain.ErrNoSecurityQA
	}
	if !strings.EqualFold(strings.TrimSpace(req.SecurityAnswer), tenant.SecurityAnswer) {
		return domain.ErrInvalidAnswer
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		return domain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.repo.Update(ctx, tenant.ID, map[string]any{
		"admin_password_hash": hash,
		"updated_at":          time.Now().UTC(),
	})
}
