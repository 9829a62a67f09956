package backtest

import (
	"math"
	"sort"
	"time"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

// portfolio is the mutable state of one simulation run: cash, open positions
// keyed by asset, the closed-trade ledger, and the daily snapshot history.
// It lives for the duration of one Engine.Run call.
type portfolio struct {
	cash      float64
	positions map[string]*domain.Position
	peakValue float64
	trades    []domain.Trade
	snapshots []domain.Snapshot

	// entriesSuspended is set while the max-drawdown limit is breached. Open
	// positions keep being managed; new entries are blocked.
	entriesSuspended bool
}

func newPortfolio(initialCapital float64) *portfolio {
	return &portfolio{
		cash:      initialCapital,
		positions: make(map[string]*domain.Position),
		peakValue: initialCapital,
	}
}

// openAssets returns the assets with open positions, sorted so the per-day
// loop visits them in a deterministic order.
func (p *portfolio) openAssets() []string {
	assets := make([]string, 0, len(p.positions))
	for a := range p.positions {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	return assets
}

// openPosition debits cash and records a new holding. The caller guarantees
// size is positive and does not exceed cash, and that the asset is flat.
func (p *portfolio) openPosition(asset string, date time.Time, price domain.PricePoint, size float64, pred domain.PredictionPoint) *domain.Position {
	qty := size / price.Close
	pos := &domain.Position{
		Asset:        asset,
		EntryDate:    date,
		EntryPrice:   price.Close,
		Quantity:     qty,
		CostBasis:    size,
		CurrentPrice: price.Close,
		CurrentValue: size,
		Prediction:   pred,
	}
	p.cash -= size
	p.positions[asset] = pos
	return pos
}

// closePosition converts the asset's open position into a Trade at the given
// exit price, credits the proceeds back to cash, and appends the trade to the
// ledger.
func (p *portfolio) closePosition(asset string, date time.Time, exitPrice float64, reason domain.ExitReason) domain.Trade {
	pos := p.positions[asset]
	proceeds := pos.Quantity * exitPrice

	trade := domain.Trade{
		Asset:      pos.Asset,
		EntryDate:  pos.EntryDate,
		EntryPrice: pos.EntryPrice,
		ExitDate:   date,
		ExitPrice:  exitPrice,
		Quantity:   pos.Quantity,
		CostBasis:  pos.CostBasis,
		PnL:        proceeds - pos.CostBasis,
		PnLPct:     pctChange(pos.EntryPrice, exitPrice),
		HoldDays:   daysBetween(pos.EntryDate, date),
		ExitReason: reason,
		Prediction: pos.Prediction,
	}

	p.cash += proceeds
	delete(p.positions, asset)
	p.trades = append(p.trades, trade)
	return trade
}

// positionsValue is the mark-to-market value of all open positions. The sum
// runs in sorted asset order: float addition is not associative, so summing
// in map iteration order would make the total vary between identical runs.
func (p *portfolio) positionsValue() float64 {
	var total float64
	for _, asset := range p.openAssets() {
		total += p.positions[asset].CurrentValue
	}
	return total
}

// value is cash plus the value of all open positions.
func (p *portfolio) value() float64 {
	return p.cash + p.positionsValue()
}

// drawdownPct is the percentage decline from the peak value observed so far.
func (p *portfolio) drawdownPct() float64 {
	if p.peakValue <= 0 {
		return 0
	}
	dd := (p.peakValue - p.value()) / p.peakValue * 100
	if dd < 0 {
		return 0
	}
	return dd
}

// snapshot appends the day's state to the snapshot history.
func (p *portfolio) snapshot(date time.Time) {
	p.snapshots = append(p.snapshots, domain.Snapshot{
		Date:           date,
		Value:          p.value(),
		Cash:           p.cash,
		PositionsValue: p.positionsValue(),
		DrawdownPct:    p.drawdownPct(),
		OpenPositions:  len(p.positions),
	})
}

// pctChange is the percentage move from a to b.
func pctChange(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return (b - a) / a * 100
}

// daysBetween is the number of days from a to b, rounded to the nearest whole
// day so a DST-shortened or -lengthened span still counts full days.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
