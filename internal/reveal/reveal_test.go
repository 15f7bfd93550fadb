package reveal

import (
	"reflect"
	"testing"
	"time"

	"github.com/monarkh/site/internal/sched"
	"github.com/monarkh/site/internal/visibility"
)

func heroElements() []Element {
	return []Element{
		{Name: "title", From: FromBelow},
		{Name: "heading", From: FromLeft, Delay: 200 * time.Millisecond},
		{Name: "body", From: FromRight, Delay: 400 * time.Millisecond},
	}
}

func TestReveal_AppliesDelays(t *testing.T) {
	clock := sched.NewManual(epoch)
	r := NewReveal(clock, heroElements()...)

	if got := r.States(); !reflect.DeepEqual(got, []bool{false, false, false}) {
		t.Fatalf("initial states = %v", got)
	}

	r.Set(true)
	if got := r.States(); !reflect.DeepEqual(got, []bool{true, false, false}) {
		t.Fatalf("states at 0ms = %v", got)
	}
	clock.Advance(200 * time.Millisecond)
	if got := r.States(); !reflect.DeepEqual(got, []bool{true, true, false}) {
		t.Fatalf("states at 200ms = %v", got)
	}
	clock.Advance(200 * time.Millisecond)
	if got := r.States(); !reflect.DeepEqual(got, []bool{true, true, true}) {
		t.Fatalf("states at 400ms = %v", got)
	}
}

func TestReveal_IdempotentWhileVisible(t *testing.T) {
	clock := sched.NewManual(epoch)
	r := NewReveal(clock, heroElements()...)
	changes := 0
	r.OnChange(func() { changes++ })

	r.Set(true)
	clock.Advance(time.Second)
	before := changes

	r.Set(true)
	r.Set(true)
	clock.Advance(time.Second)

	if changes != before {
		t.Errorf("re-observing true changed state %d times", changes-before)
	}
	if r.Pending() != 0 {
		t.Errorf("re-observing true scheduled %d reveals", r.Pending())
	}
}

func TestReveal_HideCancelsPendingDelays(t *testing.T) {
	clock := sched.NewManual(epoch)
	r := NewReveal(clock, heroElements()...)

	r.Set(true)
	clock.Advance(100 * time.Millisecond)
	r.Set(false)

	if got := r.States(); !reflect.DeepEqual(got, []bool{false, false, false}) {
		t.Fatalf("states after hide = %v", got)
	}
	clock.Advance(time.Second)
	if got := r.States(); !reflect.DeepEqual(got, []bool{false, false, false}) {
		t.Errorf("cancelled reveal fired: %v", got)
	}

	r.Set(true)
	clock.Advance(time.Second)
	if got := r.States(); !reflect.DeepEqual(got, []bool{true, true, true}) {
		t.Errorf("second reveal incomplete: %v", got)
	}
}

func TestReveal_Style(t *testing.T) {
	clock := sched.NewManual(epoch)
	r := NewReveal(clock, heroElements()...)

	tests := []struct {
		i         int
		transform string
	}{
		{0, "translateY(20px)"},
		{1, "translateX(-50px)"},
		{2, "translateX(50px)"},
	}
	for _, tt := range tests {
		s := r.Style(tt.i)
		if s.Opacity != 0 || s.Transform != tt.transform {
			t.Errorf("hidden style %d = %+v", tt.i, s)
		}
	}

	r.Set(true)
	if s := r.Style(0); s.Opacity != 1 || s.Transform != "none" || s.Duration != TransitionDuration {
		t.Errorf("revealed style = %+v", s)
	}
	if s := r.Style(7); s != (Style{}) {
		t.Errorf("out of range style = %+v", s)
	}
}

func TestReveal_UnmountCancels(t *testing.T) {
	clock := sched.NewManual(epoch)
	r := NewReveal(clock, heroElements()...)
	r.Set(true)
	r.Unmount()

	clock.Advance(time.Second)
	if r.Revealed(1) || r.Revealed(2) {
		t.Error("delayed element revealed after unmount")
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clock.Pending())
	}
	r.Set(false)
	r.Set(true)
	if clock.Pending() != 0 {
		t.Error("unmounted reveal scheduled work")
	}
}

func TestSequence_Intro(t *testing.T) {
	clock := sched.NewManual(epoch)
	s := NewSequence(clock, IntroCues...)
	s.Start()

	clock.Advance(500 * time.Millisecond)
	if !s.Shown("image") || !s.Shown("blog") || s.Shown("resources") {
		t.Fatalf("state at 500ms = %v", s.Snapshot())
	}
	clock.Advance(1500 * time.Millisecond)
	for _, c := range IntroCues {
		if !s.Shown(c.Name) {
			t.Errorf("%s not shown at 2000ms", c.Name)
		}
	}
}

func TestSequence_StopCancels(t *testing.T) {
	clock := sched.NewManual(epoch)
	s := NewSequence(clock, IntroCues...)
	s.Start()
	clock.Advance(time.Second)
	s.Stop()
	clock.Advance(time.Minute)

	if s.Shown("header") || s.Shown("subheader") {
		t.Errorf("cues fired after stop: %v", s.Snapshot())
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clock.Pending())
	}
}

func TestAnimator_DrivesRevealAndCounter(t *testing.T) {
	clock := sched.NewManual(epoch)
	o := visibility.NewObserver(visibility.Config{Threshold: 0.2, RootMargin: "0px"})
	target := visibility.NewTarget("portfolio")
	target.Mount()
	o.Observe(target)

	r := NewReveal(clock, heroElements()...)
	c := NewCounter(clock, portfolioConfig())
	a := Bind(o, r, c)

	o.Record(0.5)
	clock.Advance(2 * time.Second)
	if !r.Revealed(2) {
		t.Error("reveal not driven by signal")
	}
	if got := c.Values(); !reflect.DeepEqual(got, []int{4, 20, 15, 30, 50}) {
		t.Errorf("counter not driven by signal: %v", got)
	}

	o.Record(0)
	if r.Revealed(0) {
		t.Error("reveal not reset when signal dropped")
	}
	if got := c.Values(); !reflect.DeepEqual(got, []int{0, 0, 0, 0, 0}) {
		t.Errorf("counter not reset: %v", got)
	}

	o.Record(1)
	a.Unmount()
	if clock.Pending() != 0 {
		t.Errorf("unmount left %d timers", clock.Pending())
	}
	o.Record(0)
	o.Record(1)
	if clock.Pending() != 0 {
		t.Error("signal reached animator after unmount")
	}
}

func TestAnimator_AppliesCurrentSignal(t *testing.T) {
	clock := sched.NewManual(epoch)
	o := visibility.NewObserver(visibility.DefaultConfig())
	target := visibility.NewTarget("hero")
	target.Mount()
	o.Observe(target)
	o.Record(1)

	r := NewReveal(clock, heroElements()...)
	Bind(o, r, nil)
	if !r.Revealed(0) {
		t.Error("already-visible signal not applied on bind")
	}
}
