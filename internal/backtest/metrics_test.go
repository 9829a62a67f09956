package backtest

import (
	"math"
	"testing"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

func snapshotsFromValues(values []float64) []domain.Snapshot {
	snaps := make([]domain.Snapshot, len(values))
	for i, v := range values {
		snaps[i] = domain.Snapshot{Date: testDay(i), Value: v, Cash: v}
	}
	return snaps
}

func TestDailyReturns(t *testing.T) {
	snaps := snapshotsFromValues([]float64{10000, 10100, 9999})
	returns := dailyReturns(snaps)
	if len(returns) != 2 {
		t.Fatalf("got %d returns, want 2", len(returns))
	}
	if math.Abs(returns[0]-0.01) > 1e-9 {
		t.Errorf("returns[0] = %v, want 0.01", returns[0])
	}
	if returns[1] >= 0 {
		t.Errorf("returns[1] = %v, want negative", returns[1])
	}

	if got := dailyReturns(nil); got != nil {
		t.Errorf("dailyReturns(nil) = %v, want nil", got)
	}
	if got := dailyReturns(snapshotsFromValues([]float64{10000})); got != nil {
		t.Errorf("single-snapshot returns = %v, want nil", got)
	}
}

func TestPerformanceMetricsTotalAndAnnualized(t *testing.T) {
	start := testDay(0)
	end := testDay(364) // one year, so annualized ≈ total
	snaps := snapshotsFromValues([]float64{10000, 10500, 11000})
	returns := dailyReturns(snaps)

	m := performanceMetrics(snaps, returns, 10000, 11000, start, end, 0.02)

	if math.Abs(m.TotalReturnPct-10) > 1e-9 {
		t.Errorf("TotalReturnPct = %v, want 10", m.TotalReturnPct)
	}
	if math.Abs(m.AnnualizedReturnPct-10) > 0.1 {
		t.Errorf("AnnualizedReturnPct = %v, want ~10", m.AnnualizedReturnPct)
	}
	if m.VolatilityPct <= 0 {
		t.Errorf("VolatilityPct = %v, want > 0", m.VolatilityPct)
	}
	if m.SharpeRatio <= 0 {
		t.Errorf("SharpeRatio = %v, want > 0", m.SharpeRatio)
	}
}

func TestPerformanceMetricsZeroGuards(t *testing.T) {
	start := testDay(0)
	end := testDay(9)

	// Empty series.
	m := performanceMetrics(nil, nil, 10000, 10000, start, end, 0.02)
	if m.SharpeRatio != 0 || m.SortinoRatio != 0 || m.CalmarRatio != 0 {
		t.Errorf("empty series ratios = %v/%v/%v, want 0", m.SharpeRatio, m.SortinoRatio, m.CalmarRatio)
	}

	// Flat series: zero volatility, zero drawdown.
	snaps := snapshotsFromValues([]float64{10000, 10000, 10000})
	returns := dailyReturns(snaps)
	m = performanceMetrics(snaps, returns, 10000, 10000, start, end, 0.02)
	if m.SharpeRatio != 0 || m.SortinoRatio != 0 || m.CalmarRatio != 0 {
		t.Errorf("flat series ratios = %v/%v/%v, want 0", m.SharpeRatio, m.SortinoRatio, m.CalmarRatio)
	}
	if math.IsNaN(m.VolatilityPct) || math.IsNaN(m.AnnualizedReturnPct) {
		t.Error("flat series produced NaN metrics")
	}
}

func TestMaxDrawdown(t *testing.T) {
	// Peak 12000, trough 9000 → 25%.
	snaps := snapshotsFromValues([]float64{10000, 12000, 9000, 11000})
	if got := maxDrawdown(snaps); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("maxDrawdown = %v, want 0.25", got)
	}

	// Monotonic rise → 0.
	snaps = snapshotsFromValues([]float64{10000, 11000, 12000})
	if got := maxDrawdown(snaps); got != 0 {
		t.Errorf("maxDrawdown = %v, want 0", got)
	}
}

func TestRiskMetrics(t *testing.T) {
	// 20 returns; 5th percentile index = 1 of the sorted slice.
	returns := make([]float64, 20)
	for i := range returns {
		returns[i] = 0.01
	}
	returns[0] = -0.10
	returns[1] = -0.05

	m := riskMetrics(returns)

	// Sorted: [-0.10, -0.05, 0.01 ...]; cutoff = sorted[1] = -0.05.
	if math.Abs(m.ValueAtRisk95Pct-5) > 1e-9 {
		t.Errorf("VaR95 = %v, want 5", m.ValueAtRisk95Pct)
	}
	// Tail = {-0.10, -0.05} → ES = 7.5%.
	if math.Abs(m.ExpectedShortfallPct-7.5) > 1e-9 {
		t.Errorf("ExpectedShortfall = %v, want 7.5", m.ExpectedShortfallPct)
	}
	if m.DownsideDeviationPct <= 0 {
		t.Errorf("DownsideDeviation = %v, want > 0", m.DownsideDeviationPct)
	}
}

func TestRiskMetricsEmptyAndPositive(t *testing.T) {
	m := riskMetrics(nil)
	if m.ValueAtRisk95Pct != 0 || m.ExpectedShortfallPct != 0 || m.DownsideDeviationPct != 0 {
		t.Errorf("empty returns risk metrics = %+v, want zeros", m)
	}

	// All-positive returns: VaR must not go negative.
	m = riskMetrics([]float64{0.01, 0.02, 0.03})
	if m.ValueAtRisk95Pct != 0 {
		t.Errorf("VaR95 = %v for all-positive returns, want 0", m.ValueAtRisk95Pct)
	}
}

func TestTradeStats(t *testing.T) {
	trades := []domain.Trade{
		{PnL: 300, PnLPct: 30, HoldDays: 2},
		{PnL: 100, PnLPct: 10, HoldDays: 4},
		{PnL: -150, PnLPct: -15, HoldDays: 6},
	}

	s := tradeStats(trades)

	if s.TotalTrades != 3 || s.WinningTrades != 2 || s.LosingTrades != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", s.TotalTrades, s.WinningTrades, s.LosingTrades)
	}
	if math.Abs(s.WinRatePct-66.666666) > 0.01 {
		t.Errorf("WinRatePct = %v, want ~66.67", s.WinRatePct)
	}
	if math.Abs(s.AvgWinPct-20) > 1e-9 {
		t.Errorf("AvgWinPct = %v, want 20", s.AvgWinPct)
	}
	if math.Abs(s.AvgLossPct-(-15)) > 1e-9 {
		t.Errorf("AvgLossPct = %v, want -15", s.AvgLossPct)
	}
	if math.Abs(s.AvgHoldDays-4) > 1e-9 {
		t.Errorf("AvgHoldDays = %v, want 4", s.AvgHoldDays)
	}
	if s.LargestWinPct != 30 || s.LargestLossPct != -15 {
		t.Errorf("largest win/loss = %v/%v, want 30/-15", s.LargestWinPct, s.LargestLossPct)
	}
}

func TestTradeStatsEmpty(t *testing.T) {
	s := tradeStats(nil)
	if s != (domain.TradeStats{}) {
		t.Errorf("empty ledger stats = %+v, want zero value", s)
	}
}
