package widgets

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestDebtClockAdvancesWithTicks(t *testing.T) {
	clk := newFakeClock()
	w := NewDebtClock(testEnv(clk))
	start := w.Value()

	clk.Advance(10 * time.Second)
	if cmd := fire(w, w.clk.ticker, clk.Now()); cmd == nil {
		t.Error("accepted tick should schedule the next one")
	}
	if got := w.Value() - start; got != 10_000_000 {
		t.Errorf("after 10s: +%.0f, want +10,000,000", got)
	}
	if !strings.Contains(w.View(60, 6), "円") {
		t.Error("view lacks the yen amount")
	}
}

func TestDebtClockIgnoresForeignTicks(t *testing.T) {
	clk := newFakeClock()
	w := NewDebtClock(testEnv(clk))
	other := NewDebtClock(testEnv(clk))
	start := w.Value()

	clk.Advance(time.Minute)
	fire(w, other.clk.ticker, clk.Now())
	if w.Value() != start {
		t.Error("value moved on another widget's tick")
	}
}

func TestDebtClockStopped(t *testing.T) {
	clk := newFakeClock()
	w := NewDebtClock(testEnv(clk))
	msg := w.clk.ticker.Msg(clk.Now())
	start := w.Value()
	w.Stop()

	clk.Advance(time.Second)
	if cmd := w.Update(msg); cmd != nil {
		t.Error("stopped clock scheduled another tick")
	}
	if w.Value() != start {
		t.Error("stopped clock moved")
	}
}

func TestPopulationNeverRises(t *testing.T) {
	clk := newFakeClock()
	w := NewPopulationTicker(testEnv(clk))
	start := w.Value()
	prev := start
	for i := 0; i < 10; i++ {
		clk.Advance(5 * time.Second)
		fire(w, w.clk.ticker, clk.Now())
		if v := w.Value(); v > prev {
			t.Fatalf("tick %d: %.0f rose above %.0f", i, v, prev)
		}
		prev = w.Value()
	}
	if drop := start - prev; drop < 9 || drop > 11 {
		t.Errorf("50s at -0.2/s dropped %.0f people", drop)
	}
	if !strings.Contains(w.View(40, 5), "秒ごとに1人減少") {
		t.Error("view lacks the pace line")
	}
}

func TestPersonalDebtGrows(t *testing.T) {
	clk := newFakeClock()
	w := NewPersonalDebt(testEnv(clk))
	start := w.Value()
	if start < 10_000_000 || start > 11_000_000 {
		t.Errorf("per-capita debt %.0f out of range", start)
	}
	clk.Advance(time.Hour)
	fire(w, w.clk.ticker, clk.Now())
	if w.Value() <= start {
		t.Error("per-capita debt did not grow")
	}
}

func TestTaxBalanceTotals(t *testing.T) {
	clk := newFakeClock()
	w := NewTaxBalance(testEnv(clk))
	if r, s, d := w.Totals(); r != 0 || s != 0 || d != 0 {
		t.Errorf("start = %v %v %v, want zeros", r, s, d)
	}

	clk.Advance(10 * time.Second)
	fire(w, w.clk.ticker, clk.Now())
	revenue, spending, deficit := w.Totals()
	if revenue != 21_900_000 || spending != 35_500_000 {
		t.Errorf("got revenue %.0f spending %.0f", revenue, spending)
	}
	if deficit != spending-revenue {
		t.Errorf("deficit %.0f", deficit)
	}
	if math.Signbit(deficit) {
		t.Error("deficit should be positive")
	}
}
