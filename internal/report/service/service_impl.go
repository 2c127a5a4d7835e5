package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/sadhanahub/sadhana/internal/ledger/domain"
	"github.com/sadhanahub/sadhana/internal/report/domain"
	rosterdomain "github.com/sadhanahub/sadhana/internal/roster/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Roster rosterdomain.Service
	Ledger ledgerdomain.Service
}

type Service struct {
	log    *zap.Logger
	roster rosterdomain.Service
	ledger ledgerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:    p.Log.Named("report.service"),
		roster: p.Roster,
		ledger: p.Ledger,
	}
}

func (s *Service) Summarize(ctx context.Context, devoteeID snowflake.ID, window domain.Window) (domain.DevoteeSummary, error) {
	if err := validateWindow(window); err != nil {
		return domain.DevoteeSummary{}, err
	}

	devotee, err := s.roster.Get(ctx, devoteeID)
	if err != nil {
		return domain.DevoteeSummary{}, err
	}

	entries, err := s.ledger.List(ctx, ledgerdomain.ListRequest{
		DevoteeID: devoteeID,
		From:      window.Start,
		To:        window.End,
	})
	if err != nil {
		return domain.DevoteeSummary{}, err
	}

	return summarize(devotee, entries), nil
}

func (s *Service) RankAll(ctx context.Context, window domain.Window) ([]domain.DevoteeSummary, error) {
	if err := validateWindow(window); err != nil {
		return nil, err
	}

	devotees, err := s.roster.List(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.List(ctx, ledgerdomain.ListRequest{
		From: window.Start,
		To:   window.End,
	})
	if err != nil {
		return nil, err
	}

	byDevotee := make(map[snowflake.ID][]ledgerdomain.Entry)
	for _, entry := range entries {
		byDevotee[entry.DevoteeID] = append(byDevotee[entry.DevoteeID], entry)
	}

	summaries := make([]domain.DevoteeSummary, 0, len(devotees))
	for _, devotee := range devotees {
		summaries = append(summaries, summarize(devotee, byDevotee[devotee.ID]))
	}

	// Stable keeps the roster's canonical order for full ties, which makes
	// the ranking deterministic.
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].TotalPoints != summaries[j].TotalPoints {
			return summaries[i].TotalPoints > summaries[j].TotalPoints
		}
		return summaries[i].TotalDays > summaries[j].TotalDays
	})

	return summaries, nil
}

func summarize(devotee rosterdomain.Devotee, entries []ledgerdomain.Entry) domain.DevoteeSummary {
	summary := domain.DevoteeSummary{
		DevoteeID:   devotee.ID,
		DevoteeName: devotee.Name,
		IsResident:  devotee.IsResident,
	}

	days := make(map[string]struct{}, len(entries))
	var totalMangla, totalJapa, totalLecture float64
	for _, entry := range entries {
		days[entry.Date] = struct{}{}
		totalMangla += entry.Mangla
		totalJapa += entry.Japa
		totalLecture += entry.Lecture
		if entry.TempleVisit {
			summary.TempleVisits++
		}
	}

	summary.TotalDays = len(days)
	if summary.TotalDays == 0 {
		return summary
	}

	totalDays := float64(summary.TotalDays)
	summary.TotalPoints = totalMangla + totalJapa + totalLecture
	summary.MaxPoints = totalDays * 3
	summary.ManglaPercentage = totalMangla / totalDays * 100
	summary.JapaPercentage = totalJapa / totalDays * 100
	summary.LecturePercentage = totalLecture / totalDays * 100
	summary.TotalPercentage = summary.TotalPoints / summary.MaxPoints * 100
	return summary
}

func validateWindow(window domain.Window) error {
	if _, err := time.Parse(ledgerdomain.DateLayout, window.Start); err != nil {
		return domain.ErrInvalidWindow
	}
	if _, err := time.Parse(ledgerdomain.DateLayout, window.End); err != nil {
		return domain.ErrInvalidWindow
	}
	if window.Start > window.End {
		return domain.ErrInvalidWindow
	}
	return nil
}
