// Command history-import loads CSV price and prediction history into the
// configured store so a universe can be backtested.
//
// Price CSV columns:      asset,date,open,high,low,close,volume,market_cap
// Prediction CSV columns: asset,date,score,confidence,direction,risk_level
//
// The first row is treated as a header and skipped. Dates are YYYY-MM-DD.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/config"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/store"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/util"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "path to YAML config (defaults apply when empty)")
		pricesCSV = flag.String("prices", "", "path to a price history CSV")
		predsCSV  = flag.String("predictions", "", "path to a prediction history CSV")
	)
	flag.Parse()

	if *pricesCSV == "" && *predsCSV == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	hs, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer closeStore()

	ctx := context.Background()

	if *pricesCSV != "" {
		prices, err := readPriceCSV(*pricesCSV)
		if err != nil {
			log.Fatalf("failed to read %s: %v", *pricesCSV, err)
		}
		if err := hs.WritePrices(ctx, prices); err != nil {
			log.Fatalf("failed to write prices: %v", err)
		}
		logger.Info("imported prices", "file", *pricesCSV, "records", len(prices))
	}

	if *predsCSV != "" {
		preds, err := readPredictionCSV(*predsCSV)
		if err != nil {
			log.Fatalf("failed to read %s: %v", *predsCSV, err)
		}
		if err := hs.WritePredictions(ctx, preds); err != nil {
			log.Fatalf("failed to write predictions: %v", err)
		}
		logger.Info("imported predictions", "file", *predsCSV, "records", len(preds))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if p := os.Getenv("BACKTEST_CONFIG"); p != "" {
			path = p
		} else {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func openStore(cfg *config.Config) (store.HistoryStore, func(), error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		sh, err := store.NewSQLiteHistory(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sh, func() { sh.Close() }, nil
	case "parquet":
		return store.NewParquetHistory(cfg.Storage.DataDir), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func readPriceCSV(path string) ([]domain.PricePoint, error) {
	rows, err := readCSV(path, 8)
	if err != nil {
		return nil, err
	}

	prices := make([]domain.PricePoint, 0, len(rows))
	for i, row := range rows {
		ts, err := time.Parse("2006-01-02", row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date %q: %w", i+2, row[1], err)
		}
		nums, err := parseFloats(row[2:8])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		prices = append(prices, domain.PricePoint{
			Asset:     row[0],
			Timestamp: ts,
			Open:      nums[0],
			High:      nums[1],
			Low:       nums[2],
			Close:     nums[3],
			Volume:    nums[4],
			MarketCap: nums[5],
		})
	}
	return prices, nil
}

func readPredictionCSV(path string) ([]domain.PredictionPoint, error) {
	rows, err := readCSV(path, 6)
	if err != nil {
		return nil, err
	}

	preds := make([]domain.PredictionPoint, 0, len(rows))
	for i, row := range rows {
		ts, err := time.Parse("2006-01-02", row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date %q: %w", i+2, row[1], err)
		}
		nums, err := parseFloats(row[2:4])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		preds = append(preds, domain.PredictionPoint{
			Asset:      row[0],
			Timestamp:  ts,
			Score:      nums[0],
			Confidence: nums[1],
			Direction:  row[4],
			RiskLevel:  domain.RiskLevel(row[5]),
		})
	}
	return preds, nil
}

func readCSV(path string, wantFields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantFields
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil // skip header
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
