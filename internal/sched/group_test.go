package sched

import (
	"reflect"
	"testing"
	"time"
)

func TestEvery_TickCount(t *testing.T) {
	tests := []struct {
		interval time.Duration
		period   time.Duration
		want     int
	}{
		{interval: 0, period: time.Second, want: 0},
		{interval: 999 * time.Millisecond, period: time.Second, want: 0},
		{interval: time.Second, period: time.Second, want: 1},
		{interval: 12500 * time.Millisecond, period: 5 * time.Second, want: 2},
		{interval: 15 * time.Second, period: 5 * time.Second, want: 3},
	}

	for _, tt := range tests {
		c := NewManual(epoch)
		ticks := 0
		Every(c, tt.period, func() { ticks++ })
		c.Advance(tt.interval)
		if ticks != tt.want {
			t.Errorf("interval %v period %v: got %d ticks, want %d", tt.interval, tt.period, ticks, tt.want)
		}
	}
}

func TestEvery_StopFromInsideTick(t *testing.T) {
	c := NewManual(epoch)
	ticks := 0
	var timer Timer
	timer = Every(c, time.Second, func() {
		ticks++
		if ticks == 2 {
			timer.Stop()
		}
	})

	c.Advance(10 * time.Second)
	if ticks != 2 {
		t.Errorf("expected 2 ticks, got %d", ticks)
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", c.Pending())
	}
}

func TestEvery_NonPositivePeriod(t *testing.T) {
	c := NewManual(epoch)
	timer := Every(c, 0, func() { t.Fatal("tick with zero period") })
	c.Advance(time.Hour)
	if timer.Stop() {
		t.Error("expected Stop to report false")
	}
}

func TestGroup_SameNameReplaces(t *testing.T) {
	c := NewManual(epoch)
	g := NewGroup(c)
	ticks := 0

	for i := 0; i < 5; i++ {
		g.Every("advance", time.Second, func() { ticks++ })
	}

	c.Advance(10 * time.Second)
	if ticks != 10 {
		t.Errorf("expected 10 ticks from a single source, got %d", ticks)
	}
}

func TestGroup_AfterRestartsWindow(t *testing.T) {
	c := NewManual(epoch)
	g := NewGroup(c)
	fired := 0

	g.After("cooldown", 7*time.Second, func() { fired++ })
	c.Advance(5 * time.Second)
	g.After("cooldown", 7*time.Second, func() { fired++ })
	c.Advance(5 * time.Second)

	if fired != 0 {
		t.Fatalf("cooldown fired early")
	}
	c.Advance(2 * time.Second)
	if fired != 1 {
		t.Errorf("expected exactly one firing, got %d", fired)
	}
	if g.Active("cooldown") {
		t.Error("fired timer still reported active")
	}
}

func TestGroup_CloseCancelsAndIgnoresLaterSchedules(t *testing.T) {
	c := NewManual(epoch)
	g := NewGroup(c)
	g.After("a", time.Second, func() { t.Error("a fired after close") })
	g.Every("b", time.Second, func() { t.Error("b fired after close") })

	if want := []string{"a", "b"}; !reflect.DeepEqual(g.Names(), want) {
		t.Fatalf("names = %v, want %v", g.Names(), want)
	}

	g.Close()
	g.After("c", time.Second, func() { t.Error("c fired after close") })
	c.Advance(time.Minute)

	if c.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", c.Pending())
	}
	if !g.Closed() {
		t.Error("expected group to report closed")
	}
}

func TestTokens_Clear(t *testing.T) {
	c := NewManual(epoch)
	ts := NewTokens(c)
	fired := 0
	for i := 0; i < 5; i++ {
		ts.After(time.Duration(i)*time.Second, func() { fired++ })
	}

	c.Advance(2 * time.Second)
	if fired != 3 || ts.Len() != 2 {
		t.Fatalf("fired=%d len=%d, want 3 and 2", fired, ts.Len())
	}

	if n := ts.Clear(); n != 2 {
		t.Errorf("Clear cancelled %d, want 2", n)
	}
	c.Advance(time.Minute)
	if fired != 3 {
		t.Errorf("cleared callbacks fired: %d", fired)
	}
}
