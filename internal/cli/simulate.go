package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/monarkh/site/internal/carousel"
	"github.com/monarkh/site/internal/live"
	"github.com/monarkh/site/internal/sched"
)

func init() {
	rootCmd.AddCommand(newSimulateCmd())
}

// simulation describes a scripted page view played on a virtual clock.
type simulation struct {
	Page      string
	Items     int
	Duration  time.Duration
	Step      time.Duration
	VisibleAt time.Duration
	HiddenAt  time.Duration // zero keeps regions visible
	Nav       []navEvent
	Options   live.Options
}

type navEvent struct {
	At  time.Duration
	Dir live.Direction
}

func newSimulateCmd() *cobra.Command {
	var (
		sim  simulation
		navs []string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print the motion timeline of a page view",
		Long: `Play a page view on a virtual clock and print every state change:
carousel page, count-up values and revealed elements.

Examples:
  monarkh simulate --items 12 --duration 20s
  monarkh simulate --nav next@6s --nav prev@8s
  monarkh simulate --visible-at 1s --hidden-at 4s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := parseNavEvents(navs)
			if err != nil {
				return err
			}
			sim.Nav = events
			sim.Options = cfg.Motion.LiveOptions(sim.Items)
			return runSimulation(cmd.OutOrStdout(), sim)
		},
	}
	cmd.Flags().StringVar(&sim.Page, "page", "home", "page layout (home or articles)")
	cmd.Flags().IntVar(&sim.Items, "items", 12, "carousel items")
	cmd.Flags().DurationVar(&sim.Duration, "duration", 20*time.Second, "simulated time")
	cmd.Flags().DurationVar(&sim.Step, "step", 250*time.Millisecond, "sampling interval")
	cmd.Flags().DurationVar(&sim.VisibleAt, "visible-at", 0, "when every region scrolls into view")
	cmd.Flags().DurationVar(&sim.HiddenAt, "hidden-at", 0, "when every region scrolls out of view")
	cmd.Flags().StringArrayVar(&navs, "nav", nil, "carousel click as dir@time, e.g. next@6s")
	return cmd
}

func parseNavEvents(specs []string) ([]navEvent, error) {
	events := make([]navEvent, 0, len(specs))
	for _, spec := range specs {
		dir, at, ok := strings.Cut(spec, "@")
		if !ok {
			return nil, fmt.Errorf("invalid nav %q: want dir@time", spec)
		}
		d := live.Direction(dir)
		if d != live.DirNext && d != live.DirPrev {
			return nil, fmt.Errorf("invalid nav %q: direction must be next or prev", spec)
		}
		when, err := time.ParseDuration(at)
		if err != nil {
			return nil, fmt.Errorf("invalid nav %q: %w", spec, err)
		}
		events = append(events, navEvent{At: when, Dir: d})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return events, nil
}

type timelineEvent struct {
	at    time.Duration
	apply func(*live.Page)
}

func runSimulation(out io.Writer, sim simulation) error {
	layout, ok := live.LayoutByName(sim.Page)
	if !ok {
		return fmt.Errorf("unknown page %q", sim.Page)
	}
	if sim.Step <= 0 {
		return fmt.Errorf("step must be positive")
	}

	clock := sched.NewManual(time.Unix(0, 0))
	page := live.NewPage(clock, layout, sim.Options)
	defer page.Unmount()

	events := []timelineEvent{{at: sim.VisibleAt, apply: func(p *live.Page) {
		for _, r := range layout.Regions {
			p.Intersect(r.Region, 1)
		}
	}}}
	if sim.HiddenAt > 0 {
		events = append(events, timelineEvent{at: sim.HiddenAt, apply: func(p *live.Page) {
			for _, r := range layout.Regions {
				p.Intersect(r.Region, 0)
			}
		}})
	}
	for _, n := range sim.Nav {
		dir := n.Dir
		events = append(events, timelineEvent{at: n.At, apply: func(p *live.Page) { p.Navigate(dir) }})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].at < events[j].at })

	page.Mount()
	for _, r := range layout.Regions {
		page.MountRegion(r.Region)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCAROUSEL\tCOUNTERS\tREVEALED")

	var last string
	var elapsed time.Duration
	for {
		for len(events) > 0 && events[0].at <= elapsed {
			events[0].apply(page)
			events = events[1:]
		}
		clock.Advance(0)

		row := describe(page.Snapshot(), layout)
		if row != last {
			fmt.Fprintf(w, "%.2fs\t%s\n", elapsed.Seconds(), row)
			last = row
		}

		if elapsed >= sim.Duration {
			break
		}
		next := min(elapsed+sim.Step, sim.Duration)
		if len(events) > 0 && events[0].at < next {
			next = events[0].at
		}
		clock.Advance(next - elapsed)
		elapsed = next
	}
	return w.Flush()
}

// describe renders the columns of one timeline row.
func describe(s live.Snapshot, layout live.Layout) string {
	cols := []string{describeCarousel(s.Carousel), "-", ""}
	if s.Counters != nil {
		cols[1] = fmt.Sprint(s.Counters)
	}

	var revealed []string
	for _, r := range layout.Regions {
		n := 0
		for _, on := range s.Reveal[r.Region] {
			if on {
				n++
			}
		}
		revealed = append(revealed, fmt.Sprintf("%s %d/%d", r.Region, n, len(s.Reveal[r.Region])))
	}
	cols[2] = strings.Join(revealed, " ")
	return strings.Join(cols, "\t")
}

func describeCarousel(st *carousel.State) string {
	if st == nil {
		return "-"
	}
	if st.Mode == carousel.ModeScroll {
		return fmt.Sprintf("scroll %.0fpx", st.ScrollLeft)
	}
	state := "paused"
	if st.AutoAdvancing {
		state = "auto"
	}
	return fmt.Sprintf("%d/%d %s", st.CurrentPage+1, st.TotalPages, state)
}
