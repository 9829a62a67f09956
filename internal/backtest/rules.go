package backtest

import "github.com/Shiv2515/builder-aura-den-sub001/internal/domain"

// entrySignal reports whether a prediction and its day's price record satisfy
// every configured entry condition. Conditions left at their zero value are
// disabled and never block an entry.
func entrySignal(cond domain.EntryConditions, pred domain.PredictionPoint, price domain.PricePoint) bool {
	if cond.MinScore > 0 && pred.Score < cond.MinScore {
		return false
	}
	if cond.MinConfidence > 0 && pred.Confidence < cond.MinConfidence {
		return false
	}
	if cond.MaxRiskLevel != "" && pred.RiskLevel.Rank() > cond.MaxRiskLevel.Rank() {
		return false
	}
	if cond.MinVolume > 0 && price.Volume < cond.MinVolume {
		return false
	}
	if cond.MinMarketCap > 0 && price.MarketCap < cond.MinMarketCap {
		return false
	}
	return true
}

// exitSignal checks the exit conditions against a position's unrealized P&L
// and hold duration. Take-profit wins over stop-loss, which wins over
// max-hold; the second return value is false when no exit is due.
func exitSignal(cond domain.ExitConditions, pnlPct float64, heldDays int) (domain.ExitReason, bool) {
	if cond.TakeProfitPct > 0 && pnlPct >= cond.TakeProfitPct {
		return domain.ExitTakeProfit, true
	}
	if cond.StopLossPct > 0 && pnlPct <= -cond.StopLossPct {
		return domain.ExitStopLoss, true
	}
	if cond.MaxHoldDays > 0 && heldDays >= cond.MaxHoldDays {
		return domain.ExitMaxHold, true
	}
	return "", false
}
