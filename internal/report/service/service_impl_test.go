package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	ledgerdomain "github.com/sadhanahub/sadhana/internal/ledger/domain"
	ledgerrepository "github.com/sadhanahub/sadhana/internal/ledger/repository"
	ledgerservice "github.com/sadhanahub/sadhana/internal/ledger/service"
	"github.com/sadhanahub/sadhana/internal/report/domain"
	rosterdomain "github.com/sadhanahub/sadhana/internal/roster/domain"
	rosterrepository "github.com/sadhanahub/sadhana/internal/roster/repository"
	rosterservice "github.com/sadhanahub/sadhana/internal/roster/service"
	"github.com/sadhanahub/sadhana/internal/tenantctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reportFixture struct {
	report domain.Service
	roster rosterdomain.Service
	ledger ledgerdomain.Service
	ctx    context.Context
	node   *snowflake.Node
}

func setupReport(t *testing.T) reportFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	require.NoError(t, conn.AutoMigrate(&rosterdomain.Devotee{}, &ledgerdomain.Entry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	roster := rosterservice.New(rosterservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  rosterrepository.Provide(conn),
	})
	ledger := ledgerservice.New(ledgerservice.Params{
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   ledgerrepository.Provide(conn),
		Roster: roster,
	})
	report := New(Params{
		Log:    zap.NewNop(),
		Roster: roster,
		Ledger: ledger,
	})

	ctx := tenantctx.WithTenantID(context.Background(), int64(node.Generate()))
	ctx = tenantctx.WithAdmin(ctx)

	return reportFixture{report: report, roster: roster, ledger: ledger, ctx: ctx, node: node}
}

func (f reportFixture) addDevotee(t *testing.T, name string, resident bool) rosterdomain.Devotee {
	t.Helper()
	devotee, err := f.roster.Add(f.ctx, rosterdomain.AddDevoteeRequest{Name: name, IsResident: resident})
	require.NoError(t, err)
	return devotee
}

func (f reportFixture) record(t *testing.T, devoteeID snowflake.ID, date string, mangla, japa, lecture float64, visit bool) {
	t.Helper()
	_, err := f.ledger.Record(f.ctx, ledgerdomain.RecordRequest{
		DevoteeID:   devoteeID,
		Date:        date,
		Mangla:      mangla,
		Japa:        japa,
		Lecture:     lecture,
		TempleVisit: visit,
	})
	require.NoError(t, err)
}

var augustWindow = domain.Window{Start: "2026-08-01", End: "2026-08-31"}

func TestSummarizeSingleDay(t *testing.T) {
	f := setupReport(t)
	devotee := f.addDevotee(t, "Govinda Das", true)
	f.record(t, devotee.ID, "2026-08-01", 1, 0.5, 0, true)

	summary, err := f.report.Summarize(f.ctx, devotee.ID, augustWindow)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalDays)
	assert.Equal(t, 1.5, summary.TotalPoints)
	assert.Equal(t, 3.0, summary.MaxPoints)
	assert.Equal(t, 100.0, summary.ManglaPercentage)
	assert.Equal(t, 50.0, summary.JapaPercentage)
	assert.Equal(t, 0.0, summary.LecturePercentage)
	assert.Equal(t, 50.0, summary.TotalPercentage)
	assert.Equal(t, 1, summary.TempleVisits)
	assert.Equal(t, "Govinda Das", summary.DevoteeName)
	assert.True(t, summary.IsResident)
}

func TestSummarizeZeroDaysIsAllZero(t *testing.T) {
	f := setupReport(t)
	devotee := f.addDevotee(t, "Govinda Das", true)

	summary, err := f.report.Summarize(f.ctx, devotee.ID, augustWindow)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalDays)
	assert.Equal(t, 0.0, summary.TotalPoints)
	assert.Equal(t, 0.0, summary.MaxPoints)
	assert.Equal(t, 0.0, summary.TotalPercentage)
	assert.Equal(t, 0.0, summary.ManglaPercentage)
}

func TestSummarizeHonorsWindow(t *testing.T) {
	f := setupReport(t)
	devotee := f.addDevotee(t, "Govinda Das", true)
	f.record(t, devotee.ID, "2026-07-31", 1, 1, 1, false)
	f.record(t, devotee.ID, "2026-08-01", 1, 0, 0, false)
	f.record(t, devotee.ID, "2026-09-01", 1, 1, 1, false)

	summary, err := f.report.Summarize(f.ctx, devotee.ID, augustWindow)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalDays)
	assert.Equal(t, 1.0, summary.TotalPoints)
}

func TestSummarizeUnknownDevotee(t *testing.T) {
	f := setupReport(t)

	_, err := f.report.Summarize(f.ctx, f.node.Generate(), augustWindow)
	assert.ErrorIs(t, err, rosterdomain.ErrDevoteeNotFound)
}

func TestRankAllOrdersByPointsThenDays(t *testing.T) {
	f := setupReport(t)
	steady := f.addDevotee(t, "Steady Sam", true)
	burst := f.addDevotee(t, "Burst Bhakta", false)
	idle := f.addDevotee(t, "Idle Ishvara", false)

	// Same 6 total points: three 2-point days versus two 3-point days. The
	// devotee with more recorded days ranks higher.
	f.record(t, steady.ID, "2026-08-01", 1, 1, 0, false)
	f.record(t, steady.ID, "2026-08-02", 1, 1, 0, false)
	f.record(t, steady.ID, "2026-08-03", 1, 1, 0, false)
	f.record(t, burst.ID, "2026-08-01", 1, 1, 1, false)
	f.record(t, burst.ID, "2026-08-02", 1, 1, 1, false)

	summaries, err := f.report.RankAll(f.ctx, augustWindow)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, steady.ID, summaries[0].DevoteeID)
	assert.Equal(t, burst.ID, summaries[1].DevoteeID)
	assert.Equal(t, idle.ID, summaries[2].DevoteeID)
	assert.Equal(t, summaries[0].TotalPoints, summaries[1].TotalPoints)
	assert.Equal(t, 0, summaries[2].TotalDays)
}

func TestRankAllFullTieKeepsRosterOrder(t *testing.T) {
	f := setupReport(t)
	resident := f.addDevotee(t, "Zeta Das", true)
	visitor := f.addDevotee(t, "Alpha Das", false)

	f.record(t, resident.ID, "2026-08-01", 1, 0, 0, false)
	f.record(t, visitor.ID, "2026-08-02", 1, 0, 0, false)

	summaries, err := f.report.RankAll(f.ctx, augustWindow)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Residents precede non-residents in the roster, and a full tie keeps
	// that order.
	assert.Equal(t, resident.ID, summaries[0].DevoteeID)
	assert.Equal(t, visitor.ID, summaries[1].DevoteeID)
}

func TestWindowValidation(t *testing.T) {
	f := setupReport(t)

	for _, window := range []domain.Window{
		{Start: "", End: "2026-08-31"},
		{Start: "2026-08-01", End: "31-08-2026"},
		{Start: "2026-08-31", End: "2026-08-01"},
	} {
		_, err := f.report.RankAll(f.ctx, window)
		assert.ErrorIs(t, err, domain.ErrInvalidWindow, "window=%v", window)
	}
}
