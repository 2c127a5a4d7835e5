package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/sadhanahub/sadhana/internal/ledger/domain"
	"github.com/sadhanahub/sadhana/internal/ledger/repository"
	rosterdomain "github.com/sadhanahub/sadhana/internal/roster/domain"
	rosterrepository "github.com/sadhanahub/sadhana/internal/roster/repository"
	rosterservice "github.com/sadhanahub/sadhana/internal/roster/service"
	"github.com/sadhanahub/sadhana/internal/tenantctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	ledger domain.Service
	roster rosterdomain.Service
	db     *gorm.DB
	node   *snowflake.Node
	ctx    context.Context
}

func setupLedger(t *testing.T) ledgerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	require.NoError(t, conn.AutoMigrate(&rosterdomain.Devotee{}, &domain.Entry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	roster := rosterservice.New(rosterservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  rosterrepository.Provide(conn),
	})
	ledger := New(Params{
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(conn),
		Roster: roster,
	})

	ctx := tenantctx.WithTenantID(context.Background(), int64(node.Generate()))
	ctx = tenantctx.WithAdmin(ctx)

	return ledgerFixture{ledger: ledger, roster: roster, db: conn, node: node, ctx: ctx}
}

func (f ledgerFixture) addDevotee(t *testing.T, name string, resident bool) rosterdomain.Devotee {
	t.Helper()
	devotee, err := f.roster.Add(f.ctx, rosterdomain.AddDevoteeRequest{Name: name, IsResident: resident})
	require.NoError(t, err)
	return devotee
}

func (f ledgerFixture) countEntries(t *testing.T) int {
	t.Helper()
	var count int
	require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM entries`).Scan(&count).Error)
	return count
}

func TestRecordValidation(t *testing.T) {
	f := setupLedger(t)
	devotee := f.addDevotee(t, "Govinda Das", true)

	_, err := f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: devotee.ID, Date: "2026-08-01", Mangla: 0.7})
	assert.ErrorIs(t, err, domain.ErrInvalidScore)

	_, err = f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: devotee.ID, Date: "01-08-2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: devotee.ID, Date: "2026-08-01", TempleVisitType: "picnic"})
	assert.ErrorIs(t, err, domain.ErrInvalidVisit)

	_, err = f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: f.node.Generate(), Date: "2026-08-01"})
	assert.ErrorIs(t, err, domain.ErrDevoteeNotFound)
}

func TestRecordRequiresAdmin(t *testing.T) {
	f := setupLedger(t)
	devotee := f.addDevotee(t, "Govinda Das", true)

	tenantID, _ := tenantctx.TenantIDFromContext(f.ctx)
	readerCtx := tenantctx.WithTenantID(context.Background(), int64(tenantID))

	_, err := f.ledger.Record(readerCtx, domain.RecordRequest{DevoteeID: devotee.ID, Date: "2026-08-01"})
	assert.ErrorIs(t, err, domain.ErrAdminRequired)
}

func TestRecordUpsertsByDevoteeAndDate(t *testing.T) {
	f := setupLedger(t)
	devotee := f.addDevotee(t, "Govinda Das", true)

	first, err := f.ledger.Record(f.ctx, domain.RecordRequest{
		DevoteeID: devotee.ID,
		Date:      "2026-08-01",
		Mangla:    1,
		Japa:      0.5,
	})
	require.NoError(t, err)

	second, err := f.ledger.Record(f.ctx, domain.RecordRequest{
		DevoteeID:   devotee.ID,
		Date:        "2026-08-01",
		Mangla:      0,
		Japa:        1,
		Lecture:     1,
		TempleVisit: true,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.countEntries(t))

	entries, err := f.ledger.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].Mangla)
	assert.Equal(t, 1.0, entries[0].Japa)
	assert.Equal(t, 1.0, entries[0].Lecture)
	assert.True(t, entries[0].TempleVisit)
	assert.Equal(t, domain.TempleVisitNone, entries[0].TempleVisitType)
}

func TestListFiltersAndOrder(t *testing.T) {
	f := setupLedger(t)
	govinda := f.addDevotee(t, "Govinda Das", true)
	radha := f.addDevotee(t, "Radha Dasi", false)

	for _, seed := range []struct {
		devotee snowflake.ID
		date    string
	}{
		{govinda.ID, "2026-08-01"},
		{govinda.ID, "2026-08-03"},
		{radha.ID, "2026-08-02"},
		{govinda.ID, "2026-07-20"},
	} {
		_, err := f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: seed.devotee, Date: seed.date, Japa: 1})
		require.NoError(t, err)
	}

	entries, err := f.ledger.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "2026-08-03", entries[0].Date)
	assert.Equal(t, "2026-07-20", entries[3].Date)

	entries, err = f.ledger.List(f.ctx, domain.ListRequest{DevoteeID: govinda.ID, From: "2026-08-01", To: "2026-08-31"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, govinda.ID, e.DevoteeID)
	}
}

func TestListShowsLiveNameThenSnapshot(t *testing.T) {
	f := setupLedger(t)
	devotee := f.addDevotee(t, "Govinda Das", true)

	_, err := f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: devotee.ID, Date: "2026-08-01", Mangla: 1})
	require.NoError(t, err)

	updated, err := f.roster.Update(f.ctx, rosterdomain.UpdateDevoteeRequest{ID: devotee.ID, Name: "Govinda Dasa", IsResident: true})
	require.NoError(t, err)
	require.True(t, updated)

	entries, err := f.ledger.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Govinda Dasa", entries[0].DevoteeName)

	removed, err := f.roster.Remove(f.ctx, devotee.ID)
	require.NoError(t, err)
	require.True(t, removed)

	entries, err = f.ledger.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Govinda Das", entries[0].DevoteeName)
}

func TestDeleteIsTenantScoped(t *testing.T) {
	f := setupLedger(t)
	devotee := f.addDevotee(t, "Govinda Das", true)

	entry, err := f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: devotee.ID, Date: "2026-08-01"})
	require.NoError(t, err)

	otherCtx := tenantctx.WithAdmin(tenantctx.WithTenantID(context.Background(), int64(f.node.Generate())))
	deleted, err := f.ledger.Delete(otherCtx, entry.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.ledger.Delete(f.ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, f.countEntries(t))
}

func TestDeleteManyTolerant(t *testing.T) {
	f := setupLedger(t)
	devotee := f.addDevotee(t, "Govinda Das", true)

	first, err := f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: devotee.ID, Date: "2026-08-01"})
	require.NoError(t, err)
	second, err := f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: devotee.ID, Date: "2026-08-02"})
	require.NoError(t, err)

	report, err := f.ledger.DeleteMany(f.ctx, []snowflake.ID{first.ID, f.node.Generate(), second.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, f.countEntries(t))
}

func TestImportPartialFailure(t *testing.T) {
	f := setupLedger(t)
	f.addDevotee(t, "Govinda Das", true)
	f.addDevotee(t, "Radha Dasi", false)

	report, err := f.ledger.Import(f.ctx, []domain.RawRow{
		{Date: "2026-08-01", DevoteeName: "govinda das", Mangla: "1", Japa: "0.5", Lecture: "0", TempleVisit: "true"},
		{Date: "2026-08-01", DevoteeName: "Unknown Person", Mangla: "1", Japa: "1", Lecture: "1", TempleVisit: "false"},
		{Date: "2026-08-01", DevoteeName: "Radha Dasi", Mangla: "2", Japa: "1", Lecture: "1", TempleVisit: "false"},
		{Date: "bad-date", DevoteeName: "Radha Dasi", Mangla: "1", Japa: "1", Lecture: "1", TempleVisit: "false"},
		{Date: "2026-08-02", DevoteeName: "Radha Dasi", Mangla: "0", Japa: "1", Lecture: "1", TempleVisit: "TRUE"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 3, report.Failed)
	require.Len(t, report.Failures, 3)
	assert.Equal(t, domain.ImportFailure{Row: 1, Reason: domain.ReasonDevoteeNotFound}, report.Failures[0])
	assert.Equal(t, domain.ImportFailure{Row: 2, Reason: domain.ReasonInvalidScore}, report.Failures[1])
	assert.Equal(t, domain.ImportFailure{Row: 3, Reason: domain.ReasonInvalidDate}, report.Failures[2])

	entries, err := f.ledger.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Both surviving rows flagged a visit; the uppercase TRUE literal counts.
	assert.Equal(t, domain.TempleVisitNormal, entries[0].TempleVisitType)
	assert.True(t, entries[0].TempleVisit)
	assert.Equal(t, domain.TempleVisitNormal, entries[1].TempleVisitType)
}

func TestImportReappliesIdempotently(t *testing.T) {
	f := setupLedger(t)
	f.addDevotee(t, "Govinda Das", true)

	rows := []domain.RawRow{
		{Date: "2026-08-01", DevoteeName: "Govinda Das", Mangla: "1", Japa: "1", Lecture: "0.5", TempleVisit: "true"},
	}

	report, err := f.ledger.Import(f.ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)

	report, err = f.ledger.Import(f.ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, f.countEntries(t))
}

func TestExportRoundTrip(t *testing.T) {
	f := setupLedger(t)
	govinda := f.addDevotee(t, "Govinda Das", true)
	radha := f.addDevotee(t, "Radha Dasi", false)

	_, err := f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: govinda.ID, Date: "2026-08-01", Mangla: 1, Japa: 0.5, TempleVisit: true, TempleVisitType: domain.TempleVisitNormal})
	require.NoError(t, err)
	_, err = f.ledger.Record(f.ctx, domain.RecordRequest{DevoteeID: radha.ID, Date: "2026-08-02", Lecture: 1})
	require.NoError(t, err)

	rows, err := f.ledger.Export(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.RawRow{
		Date:        "2026-08-01",
		DevoteeName: "Govinda Das",
		Mangla:      "1",
		Japa:        "0.5",
		Lecture:     "0",
		TempleVisit: "true",
	}, rows[1])

	report, err := f.ledger.Import(f.ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 2, f.countEntries(t))
}
