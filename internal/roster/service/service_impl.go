package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sadhanahub/sadhana/internal/roster/domain"
	"github.com/sadhanahub/sadhana/internal/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

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
		log:   p.Log.Named("roster.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Add(ctx context.Context, req domain.AddDevoteeRequest) (domain.Devotee, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Devotee{}, domain.ErrInvalidTenant
	}
	if !tenantctx.IsAdmin(ctx) {
		return domain.Devotee{}, domain.ErrAdminRequired
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Devotee{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	devotee := domain.Devotee{
		ID:         s.genID.Generate(),
		TenantID:   tenantID,
		Name:       name,
		IsResident: req.IsResident,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, &devotee); err != nil {
		return domain.Devotee{}, err
	}
	return devotee, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateDevoteeRequest) (bool, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return false, domain.ErrInvalidTenant
	}
	if !tenantctx.IsAdmin(ctx) {
		return false, domain.ErrAdminRequired
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return false, domain.ErrInvalidName
	}

	affected, err := s.repo.Update(ctx, tenantID, req.ID, map[string]any{
		"name":        name,
		"is_resident": req.IsResident,
		"updated_at":  time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Service) Remove(ctx context.Context, id snowflake.ID) (bool, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return false, domain.ErrInvalidTenant
	}
	if !tenantctx.IsAdmin(ctx) {
		return false, domain.ErrAdminRequired
	}

	// Ledger entries for the devotee are deliberately left in place.
	affected, err := s.repo.Delete(ctx, tenantID, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Devotee, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Devotee, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Devotee{}, domain.ErrInvalidTenant
	}

	devotee, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return domain.Devotee{}, err
	}
	if devotee == nil {
		return domain.Devotee{}, domain.ErrDevoteeNotFound
	}
	return *devotee, nil
}
