package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
	"github.com/Shiv2515/builder-aura-den-sub001/internal/store"
)

// Defaults applied by NewEngine when the corresponding Config field is zero.
const (
	defaultRiskFreeRate    = 0.02
	defaultBenchmarkReturn = 0.08
	defaultBenchmarkNoise  = 0.01
)

// BenchmarkConfig selects the reference series for alpha/beta comparison.
// When Asset names an asset whose prices cover the simulated period, its
// closes provide the benchmark returns. Otherwise a synthetic series is
// generated from AnnualReturn plus Gaussian noise scaled by NoiseStdDev.
type BenchmarkConfig struct {
	Asset        string
	AnnualReturn float64
	NoiseStdDev  float64
}

// Config holds the per-engine parameters shared by every run.
type Config struct {
	// RiskFreeRate is the annual risk-free rate as a fraction.
	RiskFreeRate float64
	// Seed drives the pseudo-random source used to synthesize benchmark
	// noise. Each run derives a fresh source from it, so identical inputs
	// produce identical results.
	Seed      int64
	Benchmark BenchmarkConfig
}

// Engine runs strategy backtests against historical data. It holds no
// run-scoped state: a single Engine may serve concurrent runs, and multiple
// engines with different parameters may coexist.
type Engine struct {
	loader       *Loader
	log          *slog.Logger
	riskFreeRate float64
	seed         int64
	benchmark    BenchmarkConfig
}

// NewEngine creates an Engine reading history from the given store.
func NewEngine(hs store.HistoryStore, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RiskFreeRate == 0 {
		cfg.RiskFreeRate = defaultRiskFreeRate
	}
	if cfg.Benchmark.AnnualReturn == 0 {
		cfg.Benchmark.AnnualReturn = defaultBenchmarkReturn
	}
	if cfg.Benchmark.NoiseStdDev == 0 {
		cfg.Benchmark.NoiseStdDev = defaultBenchmarkNoise
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	return &Engine{
		loader:       NewLoader(hs, logger),
		log:          logger.With("component", "engine"),
		riskFreeRate: cfg.RiskFreeRate,
		seed:         cfg.Seed,
		benchmark:    cfg.Benchmark,
	}
}

// Run replays the strategy over [start, end] one calendar day at a time and
// returns the full result: metrics, trade ledger, and snapshot history. The
// simulation is a pure function of its inputs; two runs with identical
// arguments against an unchanged store yield identical results.
func (e *Engine) Run(ctx context.Context, strategy domain.Strategy, start, end time.Time, initialCapital float64) (*domain.BacktestResult, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %v", initialCapital)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	series, err := e.loader.Load(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// Deterministic iteration order over the universe.
	assets := make([]string, 0, len(series))
	for a := range series {
		assets = append(assets, a)
	}
	sort.Strings(assets)

	log := e.log.With("strategy", strategy.ID)
	log.Info("backtest starting",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"assets", len(assets),
		"initial_capital", initialCapital)

	pf := newPortfolio(initialCapital)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		e.evaluateExits(pf, strategy, series, day, log)
		e.evaluateEntries(pf, strategy, series, assets, day, log)
		markToMarket(pf, series, day)
		e.checkRiskLimits(pf, strategy, day, log)
		pf.snapshot(day)
	}

	e.closeRemaining(pf, series, end, log)

	result := e.buildResult(strategy, series, pf, start, end, initialCapital)

	log.Info("backtest complete",
		"final_value", result.FinalValue,
		"total_return_pct", result.Performance.TotalReturnPct,
		"trades", result.TradeStats.TotalTrades)

	return result, nil
}

// evaluateExits closes every open position whose take-profit, stop-loss, or
// max-hold condition is breached at the day's price. Positions without a
// price record near the day are skipped until one appears.
func (e *Engine) evaluateExits(pf *portfolio, strategy domain.Strategy, series map[string]*domain.AssetSeries, day time.Time, log *slog.Logger) {
	for _, asset := range pf.openAssets() {
		s, ok := series[asset]
		if !ok {
			continue
		}
		price, ok := nearestPrice(s.Prices, day, priceTolerance)
		if !ok {
			continue
		}

		pos := pf.positions[asset]
		pnlPct := pctChange(pos.EntryPrice, price.Close)
		held := daysBetween(pos.EntryDate, day)

		reason, due := exitSignal(strategy.Exit, pnlPct, held)
		if !due {
			continue
		}

		trade := pf.closePosition(asset, day, price.Close, reason)
		log.Debug("position closed",
			"asset", asset,
			"reason", string(reason),
			"pnl_pct", trade.PnLPct,
			"hold_days", trade.HoldDays)
	}
}

// evaluateEntries opens positions for assets whose prediction satisfies every
// entry condition, while cash, the max-positions limit, and the drawdown gate
// allow it. An asset already held is never pyramided.
func (e *Engine) evaluateEntries(pf *portfolio, strategy domain.Strategy, series map[string]*domain.AssetSeries, assets []string, day time.Time, log *slog.Logger) {
	if pf.entriesSuspended {
		return
	}

	for _, asset := range assets {
		if strategy.Risk.MaxPositions > 0 && len(pf.positions) >= strategy.Risk.MaxPositions {
			return
		}
		if _, held := pf.positions[asset]; held {
			continue
		}

		s := series[asset]
		pred, ok := nearestPrediction(s.Predictions, day, priceTolerance)
		if !ok {
			continue
		}
		price, ok := nearestPrice(s.Prices, day, priceTolerance)
		if !ok || price.Close <= 0 {
			continue
		}
		if !entrySignal(strategy.Entry, pred, price) {
			continue
		}

		size := positionSize(strategy.Sizing, pf.value(), pf.cash, pred, price)
		if size <= 0 {
			continue
		}

		pf.openPosition(asset, day, price, size, pred)
		log.Debug("position opened",
			"asset", asset,
			"entry_price", price.Close,
			"size", size,
			"score", pred.Score)
	}
}

// markToMarket revalues every open position at the nearest available price
// and advances the running peak portfolio value.
func markToMarket(pf *portfolio, series map[string]*domain.AssetSeries, day time.Time) {
	for asset, pos := range pf.positions {
		s, ok := series[asset]
		if !ok {
			continue
		}
		price, ok := nearestPrice(s.Prices, day, priceTolerance)
		if !ok {
			continue
		}
		pos.CurrentPrice = price.Close
		pos.CurrentValue = pos.Quantity * price.Close
	}

	if v := pf.value(); v > pf.peakValue {
		pf.peakValue = v
	}
}

// checkRiskLimits flips the entry gate when the max-drawdown limit is
// breached, and releases it once the portfolio recovers. Open positions are
// never liquidated by the gate.
func (e *Engine) checkRiskLimits(pf *portfolio, strategy domain.Strategy, day time.Time, log *slog.Logger) {
	limit := strategy.Risk.MaxDrawdownPct
	if limit <= 0 {
		return
	}

	dd := pf.drawdownPct()
	switch {
	case dd > limit && !pf.entriesSuspended:
		pf.entriesSuspended = true
		log.Warn("max drawdown breached; suspending new entries",
			"date", day.Format("2006-01-02"),
			"drawdown_pct", dd,
			"limit_pct", limit)
	case dd <= limit && pf.entriesSuspended:
		pf.entriesSuspended = false
		log.Info("drawdown recovered; entries resumed",
			"date", day.Format("2006-01-02"),
			"drawdown_pct", dd)
	}
}

// closeRemaining force-closes every still-open position at its asset's last
// available price with exit reason strategy_exit.
func (e *Engine) closeRemaining(pf *portfolio, series map[string]*domain.AssetSeries, end time.Time, log *slog.Logger) {
	for _, asset := range pf.openAssets() {
		exitPrice := pf.positions[asset].CurrentPrice
		if s, ok := series[asset]; ok {
			if price, found := lastPriceAt(s.Prices, end); found {
				exitPrice = price.Close
			}
		}
		trade := pf.closePosition(asset, end, exitPrice, domain.ExitStrategyExit)
		log.Debug("position force-closed at period end",
			"asset", asset,
			"pnl_pct", trade.PnLPct)
	}
}

// buildResult derives all analytics from the run's snapshots and ledger.
func (e *Engine) buildResult(strategy domain.Strategy, series map[string]*domain.AssetSeries, pf *portfolio, start, end time.Time, initialCapital float64) *domain.BacktestResult {
	returns := dailyReturns(pf.snapshots)
	finalValue := pf.cash // every position has been closed

	rng := rand.New(rand.NewSource(e.seed))
	benchReturns := e.benchmarkReturns(series, pf.snapshots, rng)

	return &domain.BacktestResult{
		RunID:          uuid.NewString(),
		StrategyID:     strategy.ID,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: initialCapital,
		FinalValue:     finalValue,
		Performance:    performanceMetrics(pf.snapshots, returns, initialCapital, finalValue, start, end, e.riskFreeRate),
		Risk:           riskMetrics(returns),
		TradeStats:     tradeStats(pf.trades),
		Benchmark:      compareBenchmark(returns, benchReturns, e.riskFreeRate),
		Snapshots:      pf.snapshots,
		Trades:         pf.trades,
	}
}
