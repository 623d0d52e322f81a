package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rork/affective-core/go-core/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	verbose := flag.Bool("v", false, "print per-tick detail")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [-v]")
		os.Exit(2)
	}

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(1)
	}

	cfg := replay.DefaultReplayConfig()
	cfg.DT = fixture.DT
	if fixture.Seed != 0 {
		cfg.Seed = fixture.Seed
	}

	results := replay.Replay(fixture.StartField(), fixture.Ticks, cfg)

	if *verbose {
		for _, r := range results {
			fmt.Printf("%-12s v=%+.3f a=%.3f u=%.3f m=%.3f regime=%-22s energy=%.4f coherence=%.3f\n",
				r.TurnID, r.Field.V, r.Field.A, r.Field.U, r.Field.M,
				r.Regime.Regime, r.Energy, r.Metrics.SelfCoherence)
			if r.Commentary != "" {
				fmt.Printf("             %s\n", r.Commentary)
			}
		}
		fmt.Println()
	}

	s := replay.Summarize(results)
	fmt.Printf("replayed %d ticks", s.TotalTicks)
	if fixture.Description != "" {
		fmt.Printf(" (%s)", fixture.Description)
	}
	fmt.Println()
	for regime, n := range s.RegimeCounts {
		fmt.Printf("  %-22s %d\n", regime, n)
	}
	fmt.Printf("final field: v=%+.3f a=%.3f u=%.3f m=%.3f\n",
		s.FinalField.V, s.FinalField.A, s.FinalField.U, s.FinalField.M)
	fmt.Printf("final metrics: coherence=%.3f continuity=%.3f density=%.3f\n",
		s.FinalMetrics.SelfCoherence, s.FinalMetrics.NarrativeContinuity, s.FinalMetrics.IntrospectiveDensity)
	fmt.Printf("mean energy: %.4f\n", s.MeanEnergy)
}

// #endregion main
