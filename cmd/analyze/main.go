// Command analyze plays headless matches between two computer paddles on
// every arena profile and prints how each arena plays: rally lengths, how
// often a paddle that tracks perfectly still misses, and which side wins.
// Matches run on a stepped clock that never sleeps, so simulated minutes
// cost only the CPU time of their ticks.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/exp/rand"

	"github.com/wricardo/mcp-training/pongserver/game/bot"
	"github.com/wricardo/mcp-training/pongserver/game/config"
	"github.com/wricardo/mcp-training/pongserver/game/engine"
	"github.com/wricardo/mcp-training/pongserver/game/match"
)

// Report summarises one simulated match
type Report struct {
	Arena        string
	Points       int
	Score        [2]int
	Hits         [2]int
	Ticks        int
	LongestRally int
	Elapsed      time.Duration
}

// AverageRally is the mean number of paddle hits per point
func (r Report) AverageRally() float64 {
	if r.Points == 0 {
		return 0
	}
	return float64(r.Hits[0]+r.Hits[1]) / float64(r.Points)
}

// Winner returns the seat with more points, or "" on a tie
func (r Report) Winner() match.SeatID {
	switch {
	case r.Score[0] > r.Score[1]:
		return match.SeatOne
	case r.Score[1] > r.Score[0]:
		return match.SeatTwo
	}
	return ""
}

// stepClock is a clock whose Now only moves when advanced. Unlike clock.Mock
// it never sleeps; Match.Tick reads nothing but Now.
type stepClock struct {
	clock.Clock
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{Clock: clock.New(), now: time.Unix(0, 0).UTC()}
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// simulate plays one match until points have been scored or maxTicks pass.
// Seat one predicts where the ball will arrive; seat two chases the ball.
func simulate(arena engine.Arena, points, maxTicks int, seed uint64) Report {
	steps := newStepClock()
	m := match.New(arena,
		match.WithClock(steps),
		match.WithCoin(rand.New(rand.NewSource(seed))),
	)

	pilots := []*bot.Pilot{
		bot.NewPilot(bot.Tracker{Arena: arena, Seat: match.SeatOne, Deadband: 0.2, Predict: true}),
		bot.NewPilot(bot.Tracker{Arena: arena, Seat: match.SeatTwo, Deadband: 0.2}),
	}
	for i, p := range pilots {
		if _, err := m.AssignSeat(fmt.Sprintf("bot-%d", i+1)); err != nil {
			panic(err)
		}
		m.MarkReady(p.Seat())
	}

	report := Report{Arena: arena.Name}
	rally := 0
	dx := m.Snapshot().Ball.DX

	for report.Points < points && report.Ticks < maxTicks {
		steps.advance(arena.TickInterval())
		outcome := m.Tick()
		report.Ticks++

		snap := m.Snapshot()
		switch outcome {
		case engine.SeatOneScored:
			report.Score[0]++
		case engine.SeatTwoScored:
			report.Score[1]++
		}

		if outcome != engine.NoScore {
			report.Points++
			if rally > report.LongestRally {
				report.LongestRally = rally
			}
			rally = 0
		} else if dx*snap.Ball.DX < 0 {
			// A paddle turned the ball around; it now travels away from the hitter
			if snap.Ball.DX > 0 {
				report.Hits[0]++
			} else {
				report.Hits[1]++
			}
			rally++
		}
		dx = snap.Ball.DX

		for _, p := range pilots {
			for _, in := range p.Update(snap) {
				m.ApplyPaddleIntent(p.Seat(), in.Direction, in.Start)
			}
		}
	}

	report.Elapsed = time.Duration(report.Ticks) * arena.TickInterval()
	return report
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "Points played: %d in %s (%d ticks)\n", r.Points, r.Elapsed.Round(time.Second), r.Ticks)
	fmt.Fprintf(w, "Score: %d - %d\n", r.Score[0], r.Score[1])
	fmt.Fprintf(w, "Hits: predictor %d, chaser %d\n", r.Hits[0], r.Hits[1])
	fmt.Fprintf(w, "Average rally: %.1f hits, longest %d\n", r.AverageRally(), r.LongestRally)

	switch r.Winner() {
	case match.SeatOne:
		fmt.Fprintf(w, "✅ Predicting paddle wins\n")
	case match.SeatTwo:
		fmt.Fprintf(w, "⚠️  Chasing paddle wins: paddle speed may be too high for the ball\n")
	default:
		fmt.Fprintf(w, "⚠️  Even match\n")
	}
	if r.Points > 0 && r.AverageRally() < 1 {
		fmt.Fprintf(w, "⚠️  Most serves are never returned: the ball may be too fast for the paddles\n")
	}
}

func main() {
	configDir := flag.String("config-dir", "configs", "Directory containing arena profiles")
	points := flag.Int("points", 11, "Points to play per arena")
	seed := flag.Uint64("seed", 1, "Seed for serve directions")
	maxMinutes := flag.Int("max-minutes", 30, "Simulated time limit per arena")
	verbose := flag.Bool("verbose", false, "Show match log output")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	manager, err := config.NewManager(*configDir)
	if err != nil {
		fmt.Printf("Error opening profiles: %v\n", err)
		os.Exit(1)
	}
	arenas, err := manager.ListArenas()
	if err != nil {
		fmt.Printf("Error listing profiles: %v\n", err)
		os.Exit(1)
	}

	for _, info := range arenas {
		fmt.Printf("\n=== Analyzing %s ===\n", info.Filename)

		arena, err := manager.LoadArena(info.ArenaID)
		if err != nil {
			fmt.Printf("Error loading profile: %v\n", err)
			continue
		}

		maxTicks := *maxMinutes * 60 * arena.TickRate
		printReport(os.Stdout, simulate(arena, *points, maxTicks, *seed))
	}
}
