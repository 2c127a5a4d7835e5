package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Summarize computes one devotee's report over the window.
	Summarize(ctx context.Context, devoteeID snowflake.ID, window Window) (DevoteeSummary, error)

	// RankAll summarizes every roster devotee over the window, ordered by
	// total points descending, ties broken by total days descending.
	// Devotees with no entries appear with an all-zero summary.
	RankAll(ctx context.Context, window Window) ([]DevoteeSummary, error)
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidWindow = errors.New("invalid_window")
)
