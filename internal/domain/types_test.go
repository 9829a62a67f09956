package domain

import "testing"

func TestRiskLevelRank(t *testing.T) {
	if RiskLow.Rank() >= RiskMedium.Rank() || RiskMedium.Rank() >= RiskHigh.Rank() {
		t.Error("risk levels are not strictly ordered low < medium < high")
	}
	// Unknown levels rank above high so they never pass a risk ceiling.
	if RiskLevel("mystery").Rank() <= RiskHigh.Rank() {
		t.Error("unknown risk level does not rank above high")
	}
}

func TestEnumValues(t *testing.T) {
	if ExitTakeProfit != "take_profit" {
		t.Errorf("ExitTakeProfit = %q, want %q", ExitTakeProfit, "take_profit")
	}
	if ExitStopLoss != "stop_loss" {
		t.Errorf("ExitStopLoss = %q, want %q", ExitStopLoss, "stop_loss")
	}
	if ExitMaxHold != "max_hold" {
		t.Errorf("ExitMaxHold = %q, want %q", ExitMaxHold, "max_hold")
	}
	if ExitStrategyExit != "strategy_exit" {
		t.Errorf("ExitStrategyExit = %q, want %q", ExitStrategyExit, "strategy_exit")
	}

	if SizingFixedAmount != "fixed_amount" || SizingPercentage != "percentage" ||
		SizingKellyCriterion != "kelly_criterion" || SizingVolatilityAdjusted != "volatility_adjusted" {
		t.Error("sizing type constants do not match their wire values")
	}
}
