package backtest

import (
	"fmt"
	"strings"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

// FormatResult renders a human-readable summary of a backtest result.
func FormatResult(res *domain.BacktestResult) string {
	if res == nil {
		return "no backtest result available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "===== BACKTEST RESULT =====\n")
	fmt.Fprintf(&b, "Strategy:          %s\n", res.StrategyID)
	fmt.Fprintf(&b, "Period:            %s — %s\n",
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Initial capital:   %.2f\n", res.InitialCapital)
	fmt.Fprintf(&b, "Final value:       %.2f\n", res.FinalValue)

	p := res.Performance
	fmt.Fprintf(&b, "\nPerformance\n")
	fmt.Fprintf(&b, "  Total return:      %+.2f%%\n", p.TotalReturnPct)
	fmt.Fprintf(&b, "  Annualized return: %+.2f%%\n", p.AnnualizedReturnPct)
	fmt.Fprintf(&b, "  Volatility:        %.2f%%\n", p.VolatilityPct)
	fmt.Fprintf(&b, "  Sharpe ratio:      %.2f\n", p.SharpeRatio)
	fmt.Fprintf(&b, "  Sortino ratio:     %.2f\n", p.SortinoRatio)
	fmt.Fprintf(&b, "  Max drawdown:      %.2f%%\n", p.MaxDrawdownPct)
	fmt.Fprintf(&b, "  Calmar ratio:      %.2f\n", p.CalmarRatio)

	r := res.Risk
	fmt.Fprintf(&b, "\nRisk\n")
	fmt.Fprintf(&b, "  VaR (95%%):            %.2f%%\n", r.ValueAtRisk95Pct)
	fmt.Fprintf(&b, "  Expected shortfall:   %.2f%%\n", r.ExpectedShortfallPct)
	fmt.Fprintf(&b, "  Downside deviation:   %.2f%%\n", r.DownsideDeviationPct)

	t := res.TradeStats
	fmt.Fprintf(&b, "\nTrades\n")
	fmt.Fprintf(&b, "  Total:        %d\n", t.TotalTrades)
	fmt.Fprintf(&b, "  Winners:      %d (%.2f%%)\n", t.WinningTrades, t.WinRatePct)
	fmt.Fprintf(&b, "  Losers:       %d\n", t.LosingTrades)
	fmt.Fprintf(&b, "  Avg win:      %+.2f%%\n", t.AvgWinPct)
	fmt.Fprintf(&b, "  Avg loss:     %+.2f%%\n", t.AvgLossPct)
	fmt.Fprintf(&b, "  Avg hold:     %.1f days\n", t.AvgHoldDays)
	fmt.Fprintf(&b, "  Largest win:  %+.2f%%\n", t.LargestWinPct)
	fmt.Fprintf(&b, "  Largest loss: %+.2f%%\n", t.LargestLossPct)

	bm := res.Benchmark
	fmt.Fprintf(&b, "\nBenchmark comparison\n")
	fmt.Fprintf(&b, "  Beta:              %.2f\n", bm.Beta)
	fmt.Fprintf(&b, "  Alpha:             %.5f\n", bm.Alpha)
	fmt.Fprintf(&b, "  Correlation:       %.2f\n", bm.Correlation)
	fmt.Fprintf(&b, "  Tracking error:    %.2f%%\n", bm.TrackingErrorPct)
	fmt.Fprintf(&b, "  Information ratio: %.2f\n", bm.InformationRatio)

	return b.String()
}
