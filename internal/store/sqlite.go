package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ HistoryStore = (*SQLiteHistory)(nil)

// SQLiteHistory implements HistoryStore backed by a SQLite database.
type SQLiteHistory struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS prices (
	asset      TEXT    NOT NULL,
	ts         INTEGER NOT NULL, -- Unix ms
	open       REAL    NOT NULL,
	high       REAL    NOT NULL,
	low        REAL    NOT NULL,
	close      REAL    NOT NULL,
	volume     REAL    NOT NULL,
	market_cap REAL    NOT NULL,
	PRIMARY KEY (asset, ts)
);

CREATE TABLE IF NOT EXISTS predictions (
	asset      TEXT    NOT NULL,
	ts         INTEGER NOT NULL, -- Unix ms
	score      REAL    NOT NULL,
	confidence REAL    NOT NULL,
	direction  TEXT    NOT NULL,
	risk_level TEXT    NOT NULL,
	PRIMARY KEY (asset, ts)
);
`

// NewSQLiteHistory opens (or creates) a SQLite database at dbPath, ensures
// the schema exists, and returns a ready-to-use SQLiteHistory.
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteHistory{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}

// ListAssets returns all distinct assets with any stored history.
func (s *SQLiteHistory) ListAssets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset FROM (
			SELECT asset FROM prices
			UNION
			SELECT asset FROM predictions
		) ORDER BY asset`)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// ReadPrices returns price records for the asset in [start, end].
func (s *SQLiteHistory) ReadPrices(ctx context.Context, asset string, start, end time.Time) ([]domain.PricePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset, ts, open, high, low, close, volume, market_cap
		FROM prices
		WHERE asset = ? AND ts BETWEEN ? AND ?
		ORDER BY ts`,
		asset, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("reading prices for %s: %w", asset, err)
	}
	defer rows.Close()

	var prices []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		var ts int64
		if err := rows.Scan(&p.Asset, &ts, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.MarketCap); err != nil {
			return nil, err
		}
		p.Timestamp = time.UnixMilli(ts).UTC()
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// ReadPredictions returns prediction records for the asset in [start, end].
func (s *SQLiteHistory) ReadPredictions(ctx context.Context, asset string, start, end time.Time) ([]domain.PredictionPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset, ts, score, confidence, direction, risk_level
		FROM predictions
		WHERE asset = ? AND ts BETWEEN ? AND ?
		ORDER BY ts`,
		asset, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("reading predictions for %s: %w", asset, err)
	}
	defer rows.Close()

	var preds []domain.PredictionPoint
	for rows.Next() {
		var p domain.PredictionPoint
		var ts int64
		if err := rows.Scan(&p.Asset, &ts, &p.Score, &p.Confidence, &p.Direction, &p.RiskLevel); err != nil {
			return nil, err
		}
		p.Timestamp = time.UnixMilli(ts).UTC()
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// WritePrices upserts a batch of price records inside one transaction.
func (s *SQLiteHistory) WritePrices(ctx context.Context, prices []domain.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO prices
			(asset, ts, open, high, low, close, volume, market_cap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx, p.Asset, p.Timestamp.UnixMilli(),
			p.Open, p.High, p.Low, p.Close, p.Volume, p.MarketCap); err != nil {
			return fmt.Errorf("writing price %s@%s: %w", p.Asset, p.Timestamp, err)
		}
	}
	return tx.Commit()
}

// WritePredictions upserts a batch of prediction records inside one
// transaction.
func (s *SQLiteHistory) WritePredictions(ctx context.Context, preds []domain.PredictionPoint) error {
	if len(preds) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO predictions
			(asset, ts, score, confidence, direction, risk_level)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range preds {
		if _, err := stmt.ExecContext(ctx, p.Asset, p.Timestamp.UnixMilli(),
			p.Score, p.Confidence, p.Direction, string(p.RiskLevel)); err != nil {
			return fmt.Errorf("writing prediction %s@%s: %w", p.Asset, p.Timestamp, err)
		}
	}
	return tx.Commit()
}
