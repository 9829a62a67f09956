package backtest

import "github.com/Shiv2515/builder-aura-den-sub001/internal/domain"

// Kelly sizing uses fixed assumed win/loss magnitudes with the prediction's
// confidence as the win-rate proxy. This is an approximation, not a fitted
// Kelly estimate.
const (
	kellyAvgWin  = 0.15
	kellyAvgLoss = 0.08
	kellyCap     = 0.25
)

// positionSize translates the sizing policy into a cash amount for a new
// position, clamped to the policy's optional cap and to available cash.
// It returns 0 when the policy cannot produce a usable size.
func positionSize(sizing domain.PositionSizing, portfolioValue, cash float64, pred domain.PredictionPoint, price domain.PricePoint) float64 {
	var size float64

	switch sizing.Type {
	case domain.SizingFixedAmount:
		size = sizing.Value

	case domain.SizingPercentage:
		size = portfolioValue * sizing.Value / 100

	case domain.SizingKellyCriterion:
		size = kellyFraction(pred.Confidence/100) * portfolioValue

	case domain.SizingVolatilityAdjusted:
		size = portfolioValue * sizing.Value / 100 / volatilityDivisor(price)

	default:
		return 0
	}

	if sizing.MaxPositionSize > 0 && size > sizing.MaxPositionSize {
		size = sizing.MaxPositionSize
	}
	if size > cash {
		size = cash
	}
	if size <= 0 {
		return 0
	}
	return size
}

// kellyFraction computes f = (b·p − (1−p)) / b with b the assumed win/loss
// ratio and p the win rate, clamped to [0, kellyCap].
func kellyFraction(winRate float64) float64 {
	b := kellyAvgWin / kellyAvgLoss
	f := (b*winRate - (1 - winRate)) / b
	if f < 0 {
		return 0
	}
	if f > kellyCap {
		return kellyCap
	}
	return f
}

// volatilityDivisor scales a percentage size down by the triggering day's
// intraday range, floored at 1 so calm days never inflate the size.
func volatilityDivisor(price domain.PricePoint) float64 {
	if price.Close <= 0 {
		return 1
	}
	rangeVol := (price.High - price.Low) / price.Close
	d := 10 * rangeVol
	if d < 1 {
		return 1
	}
	return d
}
