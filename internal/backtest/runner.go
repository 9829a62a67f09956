package backtest

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

// Runner executes independent backtests concurrently. Runs share only the
// engine's read-only data source, so fan-out is safe.
type Runner struct {
	engine *Engine
	limit  int
}

// NewRunner creates a Runner that executes at most limit backtests at a time.
// A limit below 1 means no bound.
func NewRunner(engine *Engine, limit int) *Runner {
	return &Runner{
		engine: engine,
		limit:  limit,
	}
}

// RunAll backtests every strategy over the same period and capital. Results
// are returned in the order of the input strategies. The first failing run
// cancels the rest and its error is returned.
func (r *Runner) RunAll(ctx context.Context, strategies []domain.Strategy, start, end time.Time, initialCapital float64) ([]*domain.BacktestResult, error) {
	results := make([]*domain.BacktestResult, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for i, strat := range strategies {
		i, strat := i, strat
		g.Go(func() error {
			res, err := r.engine.Run(gctx, strat, start, end, initialCapital)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
