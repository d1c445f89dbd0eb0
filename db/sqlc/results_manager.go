package sqlc

import "context"

const (
	OutcomeWon     = "won"
	OutcomeLost    = "lost"
	OutcomeAborted = "aborted"
)

type ResultsManager struct {
	queries Querier
}

func NewResultsManager(queries Querier) *ResultsManager {
	return &ResultsManager{queries: queries}
}

func (r *ResultsManager) InsertGameResult(ctx context.Context, arg InsertGameResultParams) (InsertGameResultRow, error) {
	return r.queries.InsertGameResult(ctx, arg)
}

func (r *ResultsManager) CountWins(ctx context.Context) (int64, error) {
	return r.queries.CountGamesByOutcome(ctx, OutcomeWon)
}

func (r *ResultsManager) CountLosses(ctx context.Context) (int64, error) {
	return r.queries.CountGamesByOutcome(ctx, OutcomeLost)
}

func (r *ResultsManager) ListRecent(ctx context.Context, limit int32) ([]ListRecentGameResultsRow, error) {
	return r.queries.ListRecentGameResults(ctx, limit)
}
