// Package backtest implements the strategy backtesting engine: historical
// data loading, day-by-day portfolio simulation, position sizing, and
// performance, risk, and benchmark analytics.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/store"
)

// ErrDataUnavailable reports that no historical data exists for the requested
// period. It is fatal: the run aborts before simulation starts.
var ErrDataUnavailable = errors.New("no historical data available")

// priceTolerance is how far a record's timestamp may sit from the simulated
// day and still count as that day's record.
const priceTolerance = 24 * time.Hour

// Loader assembles per-asset price and prediction series for a date range
// from a HistoryStore.
type Loader struct {
	store store.HistoryStore
	log   *slog.Logger
}

// NewLoader creates a Loader reading from the given store.
func NewLoader(hs store.HistoryStore, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		store: hs,
		log:   logger.With("component", "loader"),
	}
}

// Load returns the series of every asset that has at least one price or
// prediction record in [start, end]. Assets without records in range are
// omitted. It fails with ErrDataUnavailable when the universe cannot be
// enumerated or no asset has any data for the period.
func (l *Loader) Load(ctx context.Context, start, end time.Time) (map[string]*domain.AssetSeries, error) {
	assets, err := l.store.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: enumerating asset universe: %v", ErrDataUnavailable, err)
	}

	series := make(map[string]*domain.AssetSeries)
	for _, asset := range assets {
		prices, err := l.store.ReadPrices(ctx, asset, start, end)
		if err != nil {
			return nil, fmt.Errorf("reading prices for %s: %w", asset, err)
		}
		preds, err := l.store.ReadPredictions(ctx, asset, start, end)
		if err != nil {
			return nil, fmt.Errorf("reading predictions for %s: %w", asset, err)
		}
		if len(prices) == 0 && len(preds) == 0 {
			continue
		}
		series[asset] = &domain.AssetSeries{
			Asset:       asset,
			Prices:      prices,
			Predictions: preds,
		}
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no records in [%s, %s]",
			ErrDataUnavailable, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	l.log.Debug("loaded historical series",
		"assets", len(series),
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"))

	return series, nil
}

// nearestPrice returns the price record closest to day within the tolerance.
func nearestPrice(prices []domain.PricePoint, day time.Time, tol time.Duration) (domain.PricePoint, bool) {
	var (
		best  domain.PricePoint
		found bool
	)
	bestDist := tol + 1
	for _, p := range prices {
		d := absDuration(p.Timestamp.Sub(day))
		if d <= tol && d < bestDist {
			best = p
			bestDist = d
			found = true
		}
	}
	return best, found
}

// nearestPrediction returns the prediction record closest to day within the
// tolerance.
func nearestPrediction(preds []domain.PredictionPoint, day time.Time, tol time.Duration) (domain.PredictionPoint, bool) {
	var (
		best  domain.PredictionPoint
		found bool
	)
	bestDist := tol + 1
	for _, p := range preds {
		d := absDuration(p.Timestamp.Sub(day))
		if d <= tol && d < bestDist {
			best = p
			bestDist = d
			found = true
		}
	}
	return best, found
}

// lastPriceAt returns the latest price record at or before day, falling back
// to the earliest record when every record is after day.
func lastPriceAt(prices []domain.PricePoint, day time.Time) (domain.PricePoint, bool) {
	var (
		best  domain.PricePoint
		found bool
	)
	for _, p := range prices {
		if p.Timestamp.After(day) {
			continue
		}
		if !found || p.Timestamp.After(best.Timestamp) {
			best = p
			found = true
		}
	}
	if !found && len(prices) > 0 {
		return prices[0], true
	}
	return best, found
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
