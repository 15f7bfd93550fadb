package reveal

import (
	"reflect"
	"testing"
	"time"

	"github.com/monarkh/site/internal/sched"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func portfolioConfig() CounterConfig {
	return CounterConfig{Targets: []int{4, 20, 15, 30, 50}, Duration: 2000 * time.Millisecond, Steps: 50}
}

func TestCounterConfig_Sample(t *testing.T) {
	cfg := portfolioConfig()

	if got := cfg.Sample(0); !reflect.DeepEqual(got, []int{0, 0, 0, 0, 0}) {
		t.Errorf("Sample(0) = %v", got)
	}
	if got := cfg.Sample(2000 * time.Millisecond); !reflect.DeepEqual(got, []int{4, 20, 15, 30, 50}) {
		t.Errorf("Sample(2000ms) = %v", got)
	}
	if got := cfg.Sample(time.Hour); !reflect.DeepEqual(got, []int{4, 20, 15, 30, 50}) {
		t.Errorf("Sample(1h) = %v", got)
	}
	if got := cfg.Sample(-time.Second); !reflect.DeepEqual(got, []int{0, 0, 0, 0, 0}) {
		t.Errorf("Sample(-1s) = %v", got)
	}
	// 1000ms is step 25 of 50: halfway, with 15/2 rounding up.
	if got := cfg.Sample(1000 * time.Millisecond); !reflect.DeepEqual(got, []int{2, 10, 8, 15, 25}) {
		t.Errorf("Sample(1000ms) = %v", got)
	}
}

func TestCounterConfig_SampleMonotonic(t *testing.T) {
	cfg := portfolioConfig()
	prev := cfg.Sample(0)
	for ms := 1; ms <= 2000; ms++ {
		cur := cfg.Sample(time.Duration(ms) * time.Millisecond)
		for i := range cur {
			if cur[i] < prev[i] {
				t.Fatalf("value %d decreased at %dms: %d -> %d", i, ms, prev[i], cur[i])
			}
		}
		prev = cur
	}
}

func TestCounter_SchedulesEveryStepAtTrigger(t *testing.T) {
	clock := sched.NewManual(epoch)
	c := NewCounter(clock, portfolioConfig())

	c.Set(true)
	if c.Pending() != 51 {
		t.Fatalf("expected 51 scheduled steps, got %d", c.Pending())
	}

	clock.Advance(0)
	if got := c.Values(); !reflect.DeepEqual(got, []int{0, 0, 0, 0, 0}) {
		t.Errorf("values at 0ms = %v", got)
	}

	prev := c.Values()
	for elapsed := 40 * time.Millisecond; elapsed <= 2000*time.Millisecond; elapsed += 40 * time.Millisecond {
		clock.Advance(40 * time.Millisecond)
		cur := c.Values()
		want := portfolioConfig().Sample(elapsed)
		if !reflect.DeepEqual(cur, want) {
			t.Fatalf("at %v got %v, want %v", elapsed, cur, want)
		}
		for i := range cur {
			if cur[i] < prev[i] {
				t.Fatalf("value %d decreased at %v", i, elapsed)
			}
		}
		prev = cur
	}

	if got := c.Values(); !reflect.DeepEqual(got, []int{4, 20, 15, 30, 50}) {
		t.Errorf("final values = %v", got)
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending steps, got %d", c.Pending())
	}
}

func TestCounter_ResetToleratesInFlightSteps(t *testing.T) {
	clock := sched.NewManual(epoch)
	c := NewCounter(clock, portfolioConfig())

	c.Set(true)
	clock.Advance(1000 * time.Millisecond)
	c.Set(false)

	if got := c.Values(); !reflect.DeepEqual(got, []int{0, 0, 0, 0, 0}) {
		t.Fatalf("reset values = %v", got)
	}
	if c.Pending() == 0 {
		t.Fatal("tolerant reset cancelled in-flight steps")
	}

	clock.Advance(2 * time.Second)
	if got := c.Values(); !reflect.DeepEqual(got, []int{4, 20, 15, 30, 50}) {
		t.Errorf("late steps should win, got %v", got)
	}
}

func TestCounter_StrictResetCancelsSteps(t *testing.T) {
	clock := sched.NewManual(epoch)
	cfg := portfolioConfig()
	cfg.Strict = true
	c := NewCounter(clock, cfg)

	c.Set(true)
	clock.Advance(1000 * time.Millisecond)
	c.Set(false)

	if c.Pending() != 0 {
		t.Fatalf("expected strict reset to clear steps, %d pending", c.Pending())
	}
	clock.Advance(2 * time.Second)
	if got := c.Values(); !reflect.DeepEqual(got, []int{0, 0, 0, 0, 0}) {
		t.Errorf("values after strict reset = %v", got)
	}
}

func TestCounter_RepeatedTrueIsIgnored(t *testing.T) {
	clock := sched.NewManual(epoch)
	c := NewCounter(clock, portfolioConfig())

	c.Set(true)
	c.Set(true)
	if c.Pending() != 51 {
		t.Errorf("expected a single run, %d pending", c.Pending())
	}
}

func TestCounter_UnmountCancelsEverything(t *testing.T) {
	clock := sched.NewManual(epoch)
	c := NewCounter(clock, portfolioConfig())
	updates := 0
	c.OnChange(func() { updates++ })

	c.Set(true)
	clock.Advance(100 * time.Millisecond)
	before := updates
	c.Unmount()

	clock.Advance(time.Minute)
	c.Set(false)
	c.Set(true)
	if updates != before {
		t.Errorf("counter changed after unmount: %d -> %d", before, updates)
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clock.Pending())
	}
}

func TestCounterConfig_Defaults(t *testing.T) {
	cfg := CounterConfig{}.withDefaults()
	if cfg.Duration != DefaultCountDuration || cfg.Steps != DefaultCountSteps {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Interval() != 40*time.Millisecond {
		t.Errorf("interval = %v, want 40ms", cfg.Interval())
	}
	if !reflect.DeepEqual(cfg.Targets, PortfolioTargets) {
		t.Errorf("targets = %v", cfg.Targets)
	}
}
