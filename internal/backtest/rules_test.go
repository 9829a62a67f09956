package backtest

import (
	"testing"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

func TestEntrySignalAllConditions(t *testing.T) {
	cond := domain.EntryConditions{
		MinScore:      80,
		MinConfidence: 60,
		MaxRiskLevel:  domain.RiskMedium,
		MinVolume:     500_000,
		MinMarketCap:  10_000_000,
	}
	pred := domain.PredictionPoint{Score: 85, Confidence: 70, RiskLevel: domain.RiskLow}
	price := domain.PricePoint{Volume: 1_000_000, MarketCap: 50_000_000}

	if !entrySignal(cond, pred, price) {
		t.Fatal("all conditions satisfied but entrySignal returned false")
	}

	// Each predicate blocks on its own.
	cases := []struct {
		name  string
		pred  domain.PredictionPoint
		price domain.PricePoint
	}{
		{"low score", domain.PredictionPoint{Score: 79, Confidence: 70, RiskLevel: domain.RiskLow}, price},
		{"low confidence", domain.PredictionPoint{Score: 85, Confidence: 59, RiskLevel: domain.RiskLow}, price},
		{"too risky", domain.PredictionPoint{Score: 85, Confidence: 70, RiskLevel: domain.RiskHigh}, price},
		{"low volume", pred, domain.PricePoint{Volume: 100, MarketCap: 50_000_000}},
		{"low market cap", pred, domain.PricePoint{Volume: 1_000_000, MarketCap: 100}},
	}
	for _, tc := range cases {
		if entrySignal(cond, tc.pred, tc.price) {
			t.Errorf("%s: entrySignal returned true, want false", tc.name)
		}
	}
}

func TestEntrySignalUnsetConditionsNeverBlock(t *testing.T) {
	// Zero-valued conditions are disabled: everything passes.
	if !entrySignal(domain.EntryConditions{}, domain.PredictionPoint{}, domain.PricePoint{}) {
		t.Error("empty conditions blocked an entry")
	}

	// Only min score set; a terrible prediction on every other axis passes.
	cond := domain.EntryConditions{MinScore: 80}
	pred := domain.PredictionPoint{Score: 85, Confidence: 1, RiskLevel: domain.RiskHigh}
	if !entrySignal(cond, pred, domain.PricePoint{}) {
		t.Error("unset conditions blocked an entry")
	}
}

func TestEntrySignalUnknownRiskLevelBlocked(t *testing.T) {
	cond := domain.EntryConditions{MaxRiskLevel: domain.RiskHigh}
	pred := domain.PredictionPoint{RiskLevel: domain.RiskLevel("unknown")}
	if entrySignal(cond, pred, domain.PricePoint{}) {
		t.Error("unknown risk level passed a risk ceiling")
	}
}

func TestExitSignalPriority(t *testing.T) {
	cond := domain.ExitConditions{TakeProfitPct: 30, StopLossPct: 15, MaxHoldDays: 7}

	cases := []struct {
		name     string
		pnlPct   float64
		heldDays int
		want     domain.ExitReason
		due      bool
	}{
		{"take profit", 31, 1, domain.ExitTakeProfit, true},
		{"take profit exact", 30, 1, domain.ExitTakeProfit, true},
		{"stop loss", -16, 1, domain.ExitStopLoss, true},
		{"stop loss exact", -15, 1, domain.ExitStopLoss, true},
		{"max hold", 5, 7, domain.ExitMaxHold, true},
		{"take profit beats max hold", 35, 10, domain.ExitTakeProfit, true},
		{"stop loss beats max hold", -20, 10, domain.ExitStopLoss, true},
		{"no exit", 5, 3, "", false},
	}
	for _, tc := range cases {
		got, due := exitSignal(cond, tc.pnlPct, tc.heldDays)
		if due != tc.due || got != tc.want {
			t.Errorf("%s: exitSignal = (%q, %v), want (%q, %v)", tc.name, got, due, tc.want, tc.due)
		}
	}
}

func TestExitSignalDisabledConditions(t *testing.T) {
	// No exit conditions configured: the position runs to period end.
	if reason, due := exitSignal(domain.ExitConditions{}, 99, 99); due {
		t.Errorf("disabled conditions produced exit %q", reason)
	}
}
