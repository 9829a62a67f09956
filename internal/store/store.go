// Package store defines the read-only historical data boundary consumed by
// the backtesting engine, plus SQLite and Parquet implementations of it.
package store

import (
	"context"
	"time"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

// HistoryStore persists and retrieves per-asset price and prediction history.
// Read methods must be safe for concurrent use; independent backtest runs
// share a single store.
type HistoryStore interface {
	// ListAssets returns all distinct assets with any stored history.
	ListAssets(ctx context.Context) ([]string, error)

	// ReadPrices returns the asset's price records with timestamps in
	// [start, end], ordered by timestamp.
	ReadPrices(ctx context.Context, asset string, start, end time.Time) ([]domain.PricePoint, error)

	// ReadPredictions returns the asset's prediction records with timestamps
	// in [start, end], ordered by timestamp.
	ReadPredictions(ctx context.Context, asset string, start, end time.Time) ([]domain.PredictionPoint, error)

	// WritePrices persists a batch of price records, replacing records that
	// share an (asset, timestamp) key.
	WritePrices(ctx context.Context, prices []domain.PricePoint) error

	// WritePredictions persists a batch of prediction records, replacing
	// records that share an (asset, timestamp) key.
	WritePredictions(ctx context.Context, preds []domain.PredictionPoint) error
}
