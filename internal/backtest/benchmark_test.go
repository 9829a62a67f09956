package backtest

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Shiv2515/builder-aura-den-sub001/internal/domain"
)

func TestCompareBenchmarkKnownSeries(t *testing.T) {
	// Strategy moves exactly 2x the benchmark: beta 2, correlation 1.
	benchmark := []float64{0.01, -0.02, 0.015, 0.005, -0.01}
	strategy := make([]float64, len(benchmark))
	for i, r := range benchmark {
		strategy[i] = 2 * r
	}

	c := compareBenchmark(strategy, benchmark, 0.02)

	if math.Abs(c.Beta-2) > 1e-9 {
		t.Errorf("Beta = %v, want 2", c.Beta)
	}
	if math.Abs(c.Correlation-1) > 1e-9 {
		t.Errorf("Correlation = %v, want 1", c.Correlation)
	}
	if c.TrackingErrorPct <= 0 {
		t.Errorf("TrackingErrorPct = %v, want > 0", c.TrackingErrorPct)
	}
}

func TestCompareBenchmarkZeroVariance(t *testing.T) {
	// Flat benchmark: beta defaults to 1, correlation stays 0.
	strategy := []float64{0.01, -0.02, 0.015}
	benchmark := []float64{0.005, 0.005, 0.005}

	c := compareBenchmark(strategy, benchmark, 0.02)

	if c.Beta != 1 {
		t.Errorf("Beta = %v, want 1 for zero benchmark variance", c.Beta)
	}
	if c.Correlation != 0 {
		t.Errorf("Correlation = %v, want 0", c.Correlation)
	}
}

func TestCompareBenchmarkIdenticalSeries(t *testing.T) {
	// Identical series: zero tracking error, information ratio 0 (not NaN).
	s := []float64{0.01, -0.02, 0.015}

	c := compareBenchmark(s, s, 0.02)

	if c.TrackingErrorPct != 0 {
		t.Errorf("TrackingErrorPct = %v, want 0", c.TrackingErrorPct)
	}
	if c.InformationRatio != 0 || math.IsNaN(c.InformationRatio) {
		t.Errorf("InformationRatio = %v, want 0", c.InformationRatio)
	}
}

func TestCompareBenchmarkDegenerateInput(t *testing.T) {
	if c := compareBenchmark(nil, nil, 0.02); c != (domain.BenchmarkComparison{}) {
		t.Errorf("empty comparison = %+v, want zero value", c)
	}
	if c := compareBenchmark([]float64{0.01}, []float64{0.01, 0.02}, 0.02); c != (domain.BenchmarkComparison{}) {
		t.Errorf("mismatched lengths comparison = %+v, want zero value", c)
	}
}

func TestSynthesizeBenchmarkDeterministic(t *testing.T) {
	a := synthesizeBenchmark(10, 0.08, 0.01, rand.New(rand.NewSource(5)))
	b := synthesizeBenchmark(10, 0.08, 0.01, rand.New(rand.NewSource(5)))

	if len(a) != 10 || len(b) != 10 {
		t.Fatalf("lengths = %d/%d, want 10", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSynthesizeBenchmarkNoNoise(t *testing.T) {
	returns := synthesizeBenchmark(5, 0.08, 0, rand.New(rand.NewSource(1)))
	want := math.Pow(1.08, 1.0/tradingDaysPerYear) - 1
	for i, r := range returns {
		if math.Abs(r-want) > 1e-12 {
			t.Errorf("returns[%d] = %v, want %v", i, r, want)
		}
	}
}

func TestHistoricalBenchmark(t *testing.T) {
	prices := []domain.PricePoint{
		{Timestamp: testDay(0), Close: 100},
		{Timestamp: testDay(1), Close: 110},
		{Timestamp: testDay(2), Close: 99},
	}
	snaps := snapshotsFromValues([]float64{10000, 10000, 10000})

	returns, ok := historicalBenchmark(prices, snaps)
	if !ok {
		t.Fatal("historicalBenchmark reported insufficient data")
	}
	if len(returns) != 2 {
		t.Fatalf("got %d returns, want 2", len(returns))
	}
	if math.Abs(returns[0]-0.10) > 1e-9 {
		t.Errorf("returns[0] = %v, want 0.10", returns[0])
	}

	// A snapshot date beyond the 24h tolerance of any price: fall back requested.
	longSnaps := snapshotsFromValues([]float64{10000, 10000, 10000, 10000})
	if _, ok := historicalBenchmark(prices[:2], longSnaps); ok {
		t.Error("historicalBenchmark succeeded despite a price gap")
	}
}
