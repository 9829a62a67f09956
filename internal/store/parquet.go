package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

// Compile-time interface check.
var _ HistoryStore = (*ParquetHistory)(nil)

// ParquetHistory implements HistoryStore using Parquet files on disk, one
// file per asset and year.
type ParquetHistory struct {
	DataDir string
}

// NewParquetHistory creates a ParquetHistory rooted at the given data
// directory.
func NewParquetHistory(dataDir string) *ParquetHistory {
	return &ParquetHistory{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// PriceRecord is the Parquet schema for daily price data.
type PriceRecord struct {
	Asset     string  `parquet:"asset"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
	MarketCap float64 `parquet:"market_cap"`
}

// PredictionRecord is the Parquet schema for daily prediction data.
type PredictionRecord struct {
	Asset      string  `parquet:"asset"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Score      float64 `parquet:"score"`
	Confidence float64 `parquet:"confidence"`
	Direction  string  `parquet:"direction"`
	RiskLevel  string  `parquet:"risk_level"`
}

// ---------------------------------------------------------------------------
// HistoryStore implementation
// ---------------------------------------------------------------------------

// ListAssets returns all assets that have price or prediction files.
func (s *ParquetHistory) ListAssets(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for _, kind := range []string{"prices", "predictions"} {
		entries, err := os.ReadDir(filepath.Join(s.DataDir, kind))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				seen[e.Name()] = true
			}
		}
	}

	assets := make([]string, 0, len(seen))
	for a := range seen {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	return assets, nil
}

// ReadPrices reads price data from Parquet files for the asset and range.
func (s *ParquetHistory) ReadPrices(_ context.Context, asset string, start, end time.Time) ([]domain.PricePoint, error) {
	var prices []domain.PricePoint
	for year := start.Year(); year <= end.Year(); year++ {
		records, err := readParquetFile[PriceRecord](s.seriesPath("prices", asset, year))
		if err != nil {
			// File doesn't exist for this year — skip.
			continue
		}
		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if inRange(ts, start, end) {
				prices = append(prices, domain.PricePoint{
					Asset:     r.Asset,
					Timestamp: ts,
					Open:      r.Open,
					High:      r.High,
					Low:       r.Low,
					Close:     r.Close,
					Volume:    r.Volume,
					MarketCap: r.MarketCap,
				})
			}
		}
	}
	return prices, nil
}

// ReadPredictions reads prediction data from Parquet files for the asset and
// range.
func (s *ParquetHistory) ReadPredictions(_ context.Context, asset string, start, end time.Time) ([]domain.PredictionPoint, error) {
	var preds []domain.PredictionPoint
	for year := start.Year(); year <= end.Year(); year++ {
		records, err := readParquetFile[PredictionRecord](s.seriesPath("predictions", asset, year))
		if err != nil {
			continue
		}
		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if inRange(ts, start, end) {
				preds = append(preds, domain.PredictionPoint{
					Asset:      r.Asset,
					Timestamp:  ts,
					Score:      r.Score,
					Confidence: r.Confidence,
					Direction:  r.Direction,
					RiskLevel:  domain.RiskLevel(r.RiskLevel),
				})
			}
		}
	}
	return preds, nil
}

// WritePrices writes price data grouped by asset and year, merging with any
// existing records for the same file.
func (s *ParquetHistory) WritePrices(_ context.Context, prices []domain.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}

	type key struct {
		asset string
		year  int
	}
	groups := make(map[key][]PriceRecord)
	for _, p := range prices {
		k := key{asset: p.Asset, year: p.Timestamp.Year()}
		groups[k] = append(groups[k], PriceRecord{
			Asset:     p.Asset,
			Timestamp: p.Timestamp.UnixMilli(),
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
			MarketCap: p.MarketCap,
		})
	}

	for k, records := range groups {
		path := s.seriesPath("prices", k.asset, k.year)

		existing, _ := readParquetFile[PriceRecord](path)
		merged := mergeRecords(existing, records, func(r PriceRecord) int64 { return r.Timestamp })

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing prices for %s/%d: %w", k.asset, k.year, err)
		}
	}
	return nil
}

// WritePredictions writes prediction data grouped by asset and year, merging
// with any existing records for the same file.
func (s *ParquetHistory) WritePredictions(_ context.Context, preds []domain.PredictionPoint) error {
	if len(preds) == 0 {
		return nil
	}

	type key struct {
		asset string
		year  int
	}
	groups := make(map[key][]PredictionRecord)
	for _, p := range preds {
		k := key{asset: p.Asset, year: p.Timestamp.Year()}
		groups[k] = append(groups[k], PredictionRecord{
			Asset:      p.Asset,
			Timestamp:  p.Timestamp.UnixMilli(),
			Score:      p.Score,
			Confidence: p.Confidence,
			Direction:  p.Direction,
			RiskLevel:  string(p.RiskLevel),
		})
	}

	for k, records := range groups {
		path := s.seriesPath("predictions", k.asset, k.year)

		existing, _ := readParquetFile[PredictionRecord](path)
		merged := mergeRecords(existing, records, func(r PredictionRecord) int64 { return r.Timestamp })

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing predictions for %s/%d: %w", k.asset, k.year, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// seriesPath returns the filesystem path for a series Parquet file.
// Layout: <dataDir>/<kind>/<ASSET>/<YYYY>.parquet
func (s *ParquetHistory) seriesPath(kind, asset string, year int) string {
	return filepath.Join(s.DataDir, kind, strings.ToUpper(asset), fmt.Sprintf("%d.parquet", year))
}

func inRange(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

// mergeRecords deduplicates records by timestamp, preferring incoming records
// over existing ones. Results are sorted by timestamp.
func mergeRecords[T any](existing, incoming []T, tsOf func(T) int64) []T {
	seen := make(map[int64]T, len(existing)+len(incoming))
	for _, r := range existing {
		seen[tsOf(r)] = r
	}
	for _, r := range incoming {
		seen[tsOf(r)] = r
	}

	merged := make([]T, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return tsOf(merged[i]) < tsOf(merged[j])
	})
	return merged
}
