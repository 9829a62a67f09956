// Command backtest runs a strategy backtest against stored historical data
// and prints the resulting report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/backtest"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/config"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/store"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/util"
)

func main() {
	var (
		cfgPath      = flag.String("config", "", "path to YAML config (defaults apply when empty)")
		strategyPath = flag.String("strategy", "", "path to YAML strategy definition (required)")
		startStr     = flag.String("start", "", "start date, YYYY-MM-DD (required)")
		endStr       = flag.String("end", "", "end date, YYYY-MM-DD (required)")
		capital      = flag.Float64("capital", 10000, "initial capital")
		jsonOut      = flag.Bool("json", false, "print the full result as JSON instead of a report")
	)
	flag.Parse()

	if *strategyPath == "" || *startStr == "" || *endStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	end, err := time.Parse("2006-01-02", *endStr)
	if err != nil {
		log.Fatalf("invalid -end: %v", err)
	}

	strat, err := loadStrategy(*strategyPath)
	if err != nil {
		log.Fatalf("failed to load strategy: %v", err)
	}

	hs, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer closeStore()

	engine := backtest.NewEngine(hs, backtest.Config{
		RiskFreeRate: cfg.Backtest.RiskFreeRate,
		Seed:         cfg.Backtest.Seed,
		Benchmark: backtest.BenchmarkConfig{
			Asset:        cfg.Backtest.Benchmark.Asset,
			AnnualReturn: cfg.Backtest.Benchmark.AnnualReturn,
			NoiseStdDev:  cfg.Backtest.Benchmark.NoiseStdDev,
		},
	}, logger)

	result, err := engine.Run(context.Background(), strat, start, end, *capital)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	if *jsonOut {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("failed to encode result: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	fmt.Print(backtest.FormatResult(result))
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

func loadStrategy(path string) (domain.Strategy, error) {
	var strat domain.Strategy
	data, err := os.ReadFile(path)
	if err != nil {
		return strat, err
	}
	if err := yaml.Unmarshal(data, &strat); err != nil {
		return strat, err
	}
	if strat.ID == "" {
		return strat, fmt.Errorf("strategy definition %s has no id", path)
	}
	return strat, nil
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
