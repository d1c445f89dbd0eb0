package sqlc

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sqlc-dev/pqtype"
)

const (
	QuerierCtxTimeout = time.Second * 10
)

type DbManager struct {
	Analytics *AnalyticsManager
	Results   *ResultsManager
}

func NewDbManager(queries Querier) DbManager {
	return DbManager{
		Analytics: NewAnalyticsManager(queries),
		Results:   NewResultsManager(queries),
	}
}

// RecordGame stores a finished game and bumps the counters of the
// server it was played on. Every write is attempted; failures are
// returned together.
func (dm DbManager) RecordGame(ctx context.Context, serverIpNet pqtype.Inet, arg InsertGameResultParams) error {
	var result *multierror.Error

	if _, err := dm.Results.InsertGameResult(ctx, arg); err != nil {
		result = multierror.Append(result, err)
	}

	if err := dm.Analytics.IncrementGamesPlayedCount(ctx, serverIpNet); err != nil {
		result = multierror.Append(result, err)
	}

	if arg.Outcome == OutcomeWon {
		if err := dm.Analytics.IncrementGamesWonCount(ctx, serverIpNet); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
