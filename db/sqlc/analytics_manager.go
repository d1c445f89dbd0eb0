package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) IncrementGamesPlayedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.IncrementGamesPlayedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementGamesWonCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.IncrementGamesWonCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesPlayedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.GetGamesPlayedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesWonCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.GetGamesWonCount(ctx, serverIpNet)
}
