package backtest

import (
	"math"
	"sort"
	"time"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

// tradingDaysPerYear annualizes volatility-type figures; calendar days drive
// the compound annualized return.
const tradingDaysPerYear = 252

// dailyReturns derives the day-over-day return sequence from the snapshot
// history.
func dailyReturns(snapshots []domain.Snapshot) []float64 {
	if len(snapshots) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(snapshots)-1)
	for i := 1; i < len(snapshots); i++ {
		prev := snapshots[i-1].Value
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (snapshots[i].Value-prev)/prev)
	}
	return returns
}

// performanceMetrics computes the return and volatility figures for the run.
// Every ratio falls back to 0 instead of dividing by zero.
func performanceMetrics(snapshots []domain.Snapshot, returns []float64, initialCapital, finalValue float64, start, end time.Time, riskFreeRate float64) domain.PerformanceMetrics {
	var m domain.PerformanceMetrics

	if initialCapital > 0 {
		m.TotalReturnPct = (finalValue - initialCapital) / initialCapital * 100
	}

	durationDays := daysBetween(start, end)
	if durationDays < 1 {
		durationDays = 1
	}
	if initialCapital > 0 && finalValue > 0 {
		m.AnnualizedReturnPct = (math.Pow(finalValue/initialCapital, 365/float64(durationDays)) - 1) * 100
	}

	m.VolatilityPct = stdev(returns) * math.Sqrt(tradingDaysPerYear) * 100
	m.MaxDrawdownPct = maxDrawdown(snapshots) * 100

	rfPct := riskFreeRate * 100
	if m.VolatilityPct > 0 {
		m.SharpeRatio = (m.AnnualizedReturnPct - rfPct) / m.VolatilityPct
	}
	if down := downsideDeviation(returns) * math.Sqrt(tradingDaysPerYear) * 100; down > 0 {
		m.SortinoRatio = (m.AnnualizedReturnPct - rfPct) / down
	}
	if m.MaxDrawdownPct > 0 {
		m.CalmarRatio = m.AnnualizedReturnPct / m.MaxDrawdownPct
	}

	return m
}

// riskMetrics computes historical 95% VaR, expected shortfall, and downside
// deviation relative to the mean return, all as positive percentage points.
func riskMetrics(returns []float64) domain.RiskMetrics {
	var m domain.RiskMetrics
	if len(returns) == 0 {
		return m
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	idx := int(0.05 * float64(len(sorted)))
	cutoff := sorted[idx]
	if cutoff < 0 {
		m.ValueAtRisk95Pct = -cutoff * 100
	}

	var tailSum float64
	var tailN int
	for _, r := range sorted {
		if r <= cutoff {
			tailSum += r
			tailN++
		}
	}
	if tailN > 0 && tailSum < 0 {
		m.ExpectedShortfallPct = -tailSum / float64(tailN) * 100
	}

	mu := mean(returns)
	var sumSq float64
	var n int
	for _, r := range returns {
		if r < mu {
			d := r - mu
			sumSq += d * d
			n++
		}
	}
	if n > 0 {
		m.DownsideDeviationPct = math.Sqrt(sumSq/float64(n)) * 100
	}

	return m
}

// tradeStats partitions the ledger into winners and losers and summarizes
// each group. All fields are zero for an empty ledger.
func tradeStats(trades []domain.Trade) domain.TradeStats {
	var s domain.TradeStats
	s.TotalTrades = len(trades)
	if s.TotalTrades == 0 {
		return s
	}

	var winSum, lossSum, holdSum float64
	for _, t := range trades {
		holdSum += float64(t.HoldDays)
		if t.PnL > 0 {
			s.WinningTrades++
			winSum += t.PnLPct
			if t.PnLPct > s.LargestWinPct {
				s.LargestWinPct = t.PnLPct
			}
		} else {
			s.LosingTrades++
			lossSum += t.PnLPct
			if t.PnLPct < s.LargestLossPct {
				s.LargestLossPct = t.PnLPct
			}
		}
	}

	s.WinRatePct = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
	if s.WinningTrades > 0 {
		s.AvgWinPct = winSum / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLossPct = lossSum / float64(s.LosingTrades)
	}
	s.AvgHoldDays = holdSum / float64(s.TotalTrades)

	return s
}

// maxDrawdown is the largest peak-to-trough decline of the snapshot value
// path, as a fraction.
func maxDrawdown(snapshots []domain.Snapshot) float64 {
	var peak, maxDD float64
	for _, s := range snapshots {
		if s.Value > peak {
			peak = s.Value
		}
		if peak > 0 {
			if dd := (peak - s.Value) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// downsideDeviation is the root-mean-square of the negative daily returns.
func downsideDeviation(returns []float64) float64 {
	var sumSq float64
	var n int
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(n))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mu := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mu
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
