// Package domain defines the core value types shared across the backtesting
// engine: strategies, historical series, positions, trades, and results.
package domain

import "time"

// ---------------------------------------------------------------------------
// Historical series
// ---------------------------------------------------------------------------

// PricePoint is one daily price record for an asset.
type PricePoint struct {
	Asset     string    `json:"asset" yaml:"asset"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Open      float64   `json:"open" yaml:"open"`
	High      float64   `json:"high" yaml:"high"`
	Low       float64   `json:"low" yaml:"low"`
	Close     float64   `json:"close" yaml:"close"`
	Volume    float64   `json:"volume" yaml:"volume"`
	MarketCap float64   `json:"market_cap" yaml:"market_cap"`
}

// RiskLevel classifies a prediction's rug/risk tier.
type RiskLevel string

// Risk tiers, ordered from safest to riskiest.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Rank returns the ordinal of the risk level (low=0, medium=1, high=2).
// Unknown levels rank above high so they never pass a risk ceiling.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return 3
	}
}

// PredictionPoint is one daily prediction record for an asset. Score and
// Confidence are on a 0-100 scale.
type PredictionPoint struct {
	Asset      string    `json:"asset" yaml:"asset"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Score      float64   `json:"score" yaml:"score"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	Direction  string    `json:"direction" yaml:"direction"`
	RiskLevel  RiskLevel `json:"risk_level" yaml:"risk_level"`
}

// AssetSeries bundles the price and prediction history of a single asset for
// one backtest period. Both slices are ordered by timestamp.
type AssetSeries struct {
	Asset       string
	Prices      []PricePoint
	Predictions []PredictionPoint
}

// ---------------------------------------------------------------------------
// Strategy definition
// ---------------------------------------------------------------------------

// EntryConditions are threshold predicates a prediction must satisfy before a
// position is opened. A zero-valued field disables that predicate.
type EntryConditions struct {
	MinScore      float64   `json:"min_score" yaml:"min_score"`
	MinConfidence float64   `json:"min_confidence" yaml:"min_confidence"`
	MaxRiskLevel  RiskLevel `json:"max_risk_level" yaml:"max_risk_level"`
	MinVolume     float64   `json:"min_volume" yaml:"min_volume"`
	MinMarketCap  float64   `json:"min_market_cap" yaml:"min_market_cap"`
}

// ExitConditions bound how long and how far a position may run. A zero-valued
// field disables that exit.
type ExitConditions struct {
	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	StopLossPct   float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	MaxHoldDays   int     `json:"max_hold_days" yaml:"max_hold_days"`
}

// SizingType selects the position-sizing policy.
type SizingType string

// Supported sizing policies.
const (
	SizingFixedAmount        SizingType = "fixed_amount"
	SizingPercentage         SizingType = "percentage"
	SizingKellyCriterion     SizingType = "kelly_criterion"
	SizingVolatilityAdjusted SizingType = "volatility_adjusted"
)

// PositionSizing configures how much cash a new position commits. Value is a
// dollar amount for fixed_amount and a percentage of portfolio value for the
// other policies. MaxPositionSize caps the result when non-zero.
type PositionSizing struct {
	Type            SizingType `json:"type" yaml:"type"`
	Value           float64    `json:"value" yaml:"value"`
	MaxPositionSize float64    `json:"max_position_size" yaml:"max_position_size"`
}

// RiskManagement holds run-wide risk limits. MaxPositions of zero means
// unlimited concurrent positions; MaxDrawdownPct of zero disables the
// drawdown gate.
type RiskManagement struct {
	MaxPositions   int     `json:"max_positions" yaml:"max_positions"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`
}

// Strategy is the immutable configuration for one backtest run.
type Strategy struct {
	ID     string          `json:"id" yaml:"id"`
	Name   string          `json:"name" yaml:"name"`
	Entry  EntryConditions `json:"entry_conditions" yaml:"entry_conditions"`
	Exit   ExitConditions  `json:"exit_conditions" yaml:"exit_conditions"`
	Sizing PositionSizing  `json:"position_sizing" yaml:"position_sizing"`
	Risk   RiskManagement  `json:"risk_management" yaml:"risk_management"`
}

// ---------------------------------------------------------------------------
// Positions and trades
// ---------------------------------------------------------------------------

// Position is an open holding inside a running simulation.
type Position struct {
	Asset        string          `json:"asset"`
	EntryDate    time.Time       `json:"entry_date"`
	EntryPrice   float64         `json:"entry_price"`
	Quantity     float64         `json:"quantity"`
	CostBasis    float64         `json:"cost_basis"`
	CurrentPrice float64         `json:"current_price"`
	CurrentValue float64         `json:"current_value"`
	Prediction   PredictionPoint `json:"prediction"`
}

// ExitReason identifies why a position was closed.
type ExitReason string

// Exit reasons. StrategyExit marks positions force-closed at period end.
const (
	ExitTakeProfit   ExitReason = "take_profit"
	ExitStopLoss     ExitReason = "stop_loss"
	ExitMaxHold      ExitReason = "max_hold"
	ExitStrategyExit ExitReason = "strategy_exit"
)

// Trade is a closed position, immutable once appended to the ledger.
type Trade struct {
	Asset      string          `json:"asset"`
	EntryDate  time.Time       `json:"entry_date"`
	EntryPrice float64         `json:"entry_price"`
	ExitDate   time.Time       `json:"exit_date"`
	ExitPrice  float64         `json:"exit_price"`
	Quantity   float64         `json:"quantity"`
	CostBasis  float64         `json:"cost_basis"`
	PnL        float64         `json:"pnl"`
	PnLPct     float64         `json:"pnl_pct"`
	HoldDays   int             `json:"hold_days"`
	ExitReason ExitReason      `json:"exit_reason"`
	Prediction PredictionPoint `json:"prediction"`
}

// Snapshot records the portfolio at the end of one simulated day.
type Snapshot struct {
	Date           time.Time `json:"date"`
	Value          float64   `json:"value"`
	Cash           float64   `json:"cash"`
	PositionsValue float64   `json:"positions_value"`
	DrawdownPct    float64   `json:"drawdown_pct"`
	OpenPositions  int       `json:"open_positions"`
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// PerformanceMetrics are return- and volatility-based figures derived from
// the snapshot history. Percent fields are in percentage points.
type PerformanceMetrics struct {
	TotalReturnPct      float64 `json:"total_return_pct"`
	AnnualizedReturnPct float64 `json:"annualized_return_pct"`
	VolatilityPct       float64 `json:"volatility_pct"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	SortinoRatio        float64 `json:"sortino_ratio"`
	MaxDrawdownPct      float64 `json:"max_drawdown_pct"`
	CalmarRatio         float64 `json:"calmar_ratio"`
}

// RiskMetrics are tail-risk figures over the daily return series. VaR and
// expected shortfall are reported as positive magnitudes.
type RiskMetrics struct {
	ValueAtRisk95Pct     float64 `json:"var_95_pct"`
	ExpectedShortfallPct float64 `json:"expected_shortfall_pct"`
	DownsideDeviationPct float64 `json:"downside_deviation_pct"`
}

// TradeStats summarizes the closed-trade ledger.
type TradeStats struct {
	TotalTrades    int     `json:"total_trades"`
	WinningTrades  int     `json:"winning_trades"`
	LosingTrades   int     `json:"losing_trades"`
	WinRatePct     float64 `json:"win_rate_pct"`
	AvgWinPct      float64 `json:"avg_win_pct"`
	AvgLossPct     float64 `json:"avg_loss_pct"`
	AvgHoldDays    float64 `json:"avg_hold_days"`
	LargestWinPct  float64 `json:"largest_win_pct"`
	LargestLossPct float64 `json:"largest_loss_pct"`
}

// BenchmarkComparison relates the strategy's daily returns to a benchmark
// return series of the same length.
type BenchmarkComparison struct {
	Beta             float64 `json:"beta"`
	Alpha            float64 `json:"alpha"`
	Correlation      float64 `json:"correlation"`
	TrackingErrorPct float64 `json:"tracking_error_pct"`
	InformationRatio float64 `json:"information_ratio"`
}

// BacktestResult is the terminal output of one run.
type BacktestResult struct {
	RunID          string              `json:"run_id"`
	StrategyID     string              `json:"strategy_id"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	InitialCapital float64             `json:"initial_capital"`
	FinalValue     float64             `json:"final_value"`
	Performance    PerformanceMetrics  `json:"performance"`
	Risk           RiskMetrics         `json:"risk"`
	TradeStats     TradeStats          `json:"trade_stats"`
	Benchmark      BenchmarkComparison `json:"benchmark"`
	Snapshots      []Snapshot          `json:"snapshots"`
	Trades         []Trade             `json:"trades"`
}
