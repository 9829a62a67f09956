package backtest

import (
	"context"
	"errors"
	"testing"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

func TestRunnerRunAll(t *testing.T) {
	m := newMemHistory()
	addPricePath(m, "MOON", []float64{100, 110, 131, 131, 131})
	addPrediction(m, "MOON", 0, 85, 70)

	strategies := []domain.Strategy{
		testStrategy(),
		testStrategy(),
		testStrategy(),
	}
	strategies[0].ID = "alpha"
	strategies[1].ID = "beta"
	strategies[2].ID = "gamma"
	// gamma never enters.
	strategies[2].Entry.MinScore = 99

	engine := NewEngine(m, Config{Seed: 3}, nil)
	runner := NewRunner(engine, 2)

	results, err := runner.RunAll(context.Background(), strategies, testStart, testDay(4), 10000)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Results come back in input order.
	for i, want := range []string{"alpha", "beta", "gamma"} {
		if results[i].StrategyID != want {
			t.Errorf("results[%d].StrategyID = %q, want %q", i, results[i].StrategyID, want)
		}
	}

	// Identical strategies against the same store agree.
	if results[0].FinalValue != results[1].FinalValue {
		t.Errorf("alpha and beta diverged: %v vs %v", results[0].FinalValue, results[1].FinalValue)
	}
	if results[2].TradeStats.TotalTrades != 0 {
		t.Errorf("gamma traded %d times, want 0", results[2].TradeStats.TotalTrades)
	}
}

func TestRunnerPropagatesError(t *testing.T) {
	m := newMemHistory()
	m.listErr = errors.New("store down")

	runner := NewRunner(NewEngine(m, Config{}, nil), 0)

	_, err := runner.RunAll(context.Background(), []domain.Strategy{testStrategy()}, testStart, testDay(4), 10000)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("got %v, want ErrDataUnavailable", err)
	}
}
