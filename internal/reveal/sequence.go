package reveal

import (
	"time"

	"github.com/monarkh/site/internal/sched"
)

// Cue shows the element called Name At after the page mounts.
type Cue struct {
	Name string
	At   time.Duration
}

// IntroCues stage the page header on first load.
var IntroCues = []Cue{
	{Name: "image", At: 500 * time.Millisecond},
	{Name: "blog", At: 500 * time.Millisecond},
	{Name: "resources", At: 1000 * time.Millisecond},
	{Name: "header", At: 1500 * time.Millisecond},
	{Name: "subheader", At: 2000 * time.Millisecond},
}

// Sequence flips a set of flags on a fixed schedule, independent of
// visibility.
type Sequence struct {
	cues     []Cue
	shown    map[string]bool
	timers   *sched.Group
	onChange func()
}

func NewSequence(clock sched.Clock, cues ...Cue) *Sequence {
	shown := make(map[string]bool, len(cues))
	for _, c := range cues {
		shown[c.Name] = false
	}
	return &Sequence{cues: cues, shown: shown, timers: sched.NewGroup(clock)}
}

func (s *Sequence) OnChange(fn func()) { s.onChange = fn }

// Start schedules every cue. Calling it again restarts cues that have not
// fired yet.
func (s *Sequence) Start() {
	for _, c := range s.cues {
		name := c.Name
		if s.shown[name] {
			continue
		}
		s.timers.After(name, c.At, func() {
			s.shown[name] = true
			if s.onChange != nil {
				s.onChange()
			}
		})
	}
}

// Shown reports whether the named cue has fired.
func (s *Sequence) Shown(name string) bool { return s.shown[name] }

// Snapshot returns the state of every cue.
func (s *Sequence) Snapshot() map[string]bool {
	out := make(map[string]bool, len(s.shown))
	for k, v := range s.shown {
		out[k] = v
	}
	return out
}

// Stop cancels cues that have not fired.
func (s *Sequence) Stop() { s.timers.Close() }
