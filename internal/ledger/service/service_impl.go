package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sadhanahub/sadhana/internal/ledger/domain"
	rosterdomain "github.com/sadhanahub/sadhana/internal/roster/domain"
	"github.com/sadhanahub/sadhana/internal/tenantctx"
	"github.com/sadhanahub/sadhana/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Roster rosterdomain.Service
}

type Service struct {
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	roster rosterdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:    p.Log.Named("ledger.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		roster: p.Roster,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (domain.Entry, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.Entry{}, domain.ErrInvalidTenant
	}
	if !tenantctx.IsAdmin(ctx) {
		return domain.Entry{}, domain.ErrAdminRequired
	}

	if !domain.ValidScore(req.Mangla) || !domain.ValidScore(req.Japa) || !domain.ValidScore(req.Lecture) {
		return domain.Entry{}, domain.ErrInvalidScore
	}
	if _, err := time.Parse(domain.DateLayout, req.Date); err != nil {
		return domain.Entry{}, domain.ErrInvalidDate
	}
	visitType := req.TempleVisitType
	if visitType == "" {
		visitType = domain.TempleVisitNone
	}
	if !visitType.Valid() {
		return domain.Entry{}, domain.ErrInvalidVisit
	}

	devotee, err := s.roster.Get(ctx, req.DevoteeID)
	if err != nil {
		if err == rosterdomain.ErrDevoteeNotFound {
			return domain.Entry{}, domain.ErrDevoteeNotFound
		}
		return domain.Entry{}, err
	}

	existing, err := s.repo.FindByKey(ctx, tenantID, req.DevoteeID, req.Date)
	if err != nil {
		return domain.Entry{}, err
	}
	if existing != nil {
		return s.overwrite(ctx, tenantID, existing, devotee.Name, req, visitType)
	}

	now := time.Now().UTC()
	entry := domain.Entry{
		ID:              s.genID.Generate(),
		TenantID:        tenantID,
		DevoteeID:       req.DevoteeID,
		DevoteeName:     devotee.Name,
		Date:            req.Date,
		Mangla:          req.Mangla,
		Japa:            req.Japa,
		Lecture:         req.Lecture,
		TempleVisit:     req.TempleVisit,
		TempleVisitType: visitType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, &entry); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// A concurrent writer inserted the same (devotee, date) between
			// our read and write. Fold into an update of that row.
			existing, findErr := s.repo.FindByKey(ctx, tenantID, req.DevoteeID, req.Date)
			if findErr != nil {
				return domain.Entry{}, findErr
			}
			if existing != nil {
				return s.overwrite(ctx, tenantID, existing, devotee.Name, req, visitType)
			}
		}
		return domain.Entry{}, err
	}
	return entry, nil
}

func (s *Service) overwrite(
	ctx context.Context,
	tenantID snowflake.ID,
	existing *domain.Entry,
	devoteeName string,
	req domain.RecordRequest,
	visitType domain.TempleVisitType,
) (domain.Entry, error) {
	now := time.Now().UTC()
	err := s.repo.Update(ctx, tenantID, existing.ID, map[string]any{
		"devotee_name":      devoteeName,
		"mangla":            req.Mangla,
		"japa":              req.Japa,
		"lecture":           req.Lecture,
		"temple_visit":      req.TempleVisit,
		"temple_visit_type": visitType,
		"updated_at":        now,
	})
	if err != nil {
		return domain.Entry{}, err
	}

	updated := *existing
	updated.DevoteeName = devoteeName
	updated.Mangla = req.Mangla
	updated.Japa = req.Japa
	updated.Lecture = req.Lecture
	updated.TempleVisit = req.TempleVisit
	updated.TempleVisitType = visitType
	updated.UpdatedAt = now
	return updated, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Entry, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.List(ctx, tenantID, req)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) (bool, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return false, domain.ErrInvalidTenant
	}
	if !tenantctx.IsAdmin(ctx) {
		return false, domain.ErrAdminRequired
	}

	affected, err := s.repo.Delete(ctx, tenantID, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Service) DeleteMany(ctx context.Context, ids []snowflake.ID) (domain.BulkDeleteReport, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.BulkDeleteReport{}, domain.ErrInvalidTenant
	}
	if !tenantctx.IsAdmin(ctx) {
		return domain.BulkDeleteReport{}, domain.ErrAdminRequired
	}

	var report domain.BulkDeleteReport
	for _, id := range ids {
		affected, err := s.repo.Delete(ctx, tenantID, id)
		if err != nil || affected == 0 {
			report.Failed++
			continue
		}
		report.Succeeded++
	}
	return report, nil
}

func (s *Service) Import(ctx context.Context, rows []domain.RawRow) (domain.ImportReport, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return domain.ImportReport{}, domain.ErrInvalidTenant
	}
	if !tenantctx.IsAdmin(ctx) {
		return domain.ImportReport{}, domain.ErrAdminRequired
	}

	devotees, err := s.roster.List(ctx)
	if err != nil {
		return domain.ImportReport{}, err
	}
	byName := make(map[string]rosterdomain.Devotee, len(devotees))
	for _, d := range devotees {
		byName[strings.ToLower(d.Name)] = d
	}

	var report domain.ImportReport
	fail := func(row int, reason string) {
		report.Failed++
		report.Failures = append(report.Failures, domain.ImportFailure{Row: row, Reason: reason})
	}

	for i, raw := range rows {
		devotee, ok := byName[strings.ToLower(strings.TrimSpace(raw.DevoteeName))]
		if !ok {
			fail(i, domain.ReasonDevoteeNotFound)
			continue
		}

		mangla, okM := parseScore(raw.Mangla)
		japa, okJ := parseScore(raw.Japa)
		lecture, okL := parseScore(raw.Lecture)
		if !okM || !okJ || !okL {
			fail(i, domain.ReasonInvalidScore)
			continue
		}

		date := strings.TrimSpace(raw.Date)
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			fail(i, domain.ReasonInvalidDate)
			continue
		}

		templeVisit := strings.EqualFold(strings.TrimSpace(raw.TempleVisit), "true")
		visitType := domain.TempleVisitNone
		if templeVisit {
			visitType = domain.TempleVisitNormal
		}

		_, err := s.Record(ctx, domain.RecordRequest{
			DevoteeID:       devotee.ID,
			Date:            date,
			Mangla:          mangla,
			Japa:            japa,
			Lecture:         lecture,
			TempleVisit:     templeVisit,
			TempleVisitType: visitType,
		})
		if err != nil {
			s.log.Warn("import row failed",
				zap.Int("row", i),
				zap.Error(err),
			)
			fail(i, domain.ReasonWriteFailed)
			continue
		}
		report.Succeeded++
	}

	return report, nil
}

func (s *Service) Export(ctx context.Context, req domain.ListRequest) ([]domain.RawRow, error) {
	entries, err := s.List(ctx, req)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.RawRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, domain.RawRow{
			Date:        e.Date,
			DevoteeName: e.DevoteeName,
			Mangla:      formatScore(e.Mangla),
			Japa:        formatScore(e.Japa),
			Lecture:     formatScore(e.Lecture),
			TempleVisit: strconv.FormatBool(e.TempleVisit),
		})
	}
	return rows, nil
}

// parseScore accepts exactly 0, 0.5 or 1; no tolerance beyond exact
// equality after parse.
func parseScore(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	if !domain.ValidScore(value) {
		return 0, false
	}
	return value, true
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
