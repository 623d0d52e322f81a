package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/rork/affective-core/go-core/internal/journal"
)

// #region main

func main() {
	dbPath := flag.String("db", "core.db", "path to journal database")
	lastN := flag.Int("last", 10, "number of rows to show")
	showTicks := flag.Bool("ticks", false, "dump recent tick snapshots")
	showTasks := flag.Bool("tasks", false, "dump recent maintenance tasks")
	showMeta := flag.Bool("meta", false, "dump the latest meta-model version")
	flag.Parse()

	if !*showTicks && !*showTasks && !*showMeta {
		fmt.Fprintln(os.Stderr, "usage: inspect --db core.db [--last N] [--ticks] [--tasks] [--meta]")
		os.Exit(2)
	}

	j, err := journal.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open journal: %v\n", err)
		os.Exit(1)
	}
	defer j.Close()

	if *showTicks {
		dumpTicks(j, *lastN)
	}
	if *showTasks {
		dumpTasks(j, *lastN)
	}
	if *showMeta {
		dumpMeta(j)
	}
}

// #endregion main

// #region dump

func dumpTicks(j *journal.Journal, n int) {
	ticks, err := j.RecentTicks(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recent ticks: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("=== tick snapshots (%d) ===\n", len(ticks))
	for _, t := range ticks {
		fmt.Printf("%s  %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"), t.TickID)
		fmt.Printf("  v=%+.3f a=%.3f u=%.3f m=%.3f regime=%s load=%.3f\n",
			t.Valence, t.Arousal, t.Uncertainty, t.Motivation, t.Regime, t.CognitiveLoad)
		fmt.Printf("  coherence=%.3f continuity=%.3f density=%.3f\n",
			t.SelfCoherence, t.NarrativeContinuity, t.IntrospectiveDensity)
		if t.Commentary != "" {
			fmt.Printf("  %q\n", t.Commentary)
		}
	}
}

func dumpTasks(j *journal.Journal, n int) {
	tasks, err := j.TaskHistory(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "task history: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("=== maintenance log (%d) ===\n", len(tasks))
	for _, t := range tasks {
		fmt.Printf("%s  cycle=%d %-14s %-10s %dms",
			t.CreatedAt.Format("2006-01-02 15:04:05"), t.Cycle, t.TaskType, t.Status, t.DurationMs)
		if t.Reason != "" {
			fmt.Printf("  (%s)", t.Reason)
		}
		fmt.Println()
	}
}

func dumpMeta(j *journal.Journal) {
	v, err := j.LatestMeta()
	if err != nil {
		fmt.Fprintf(os.Stderr, "latest meta: %v\n", err)
		os.Exit(1)
	}
	if v == nil {
		fmt.Println("=== meta-model: no versions recorded ===")
		return
	}
	fmt.Println("=== latest meta-model version ===")
	fmt.Printf("version: %s\n", v.VersionID)
	if v.ParentID != "" {
		fmt.Printf("parent:  %s\n", v.ParentID)
	}
	fmt.Printf("created: %s\n", v.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("baseline: v=%+.3f a=%.3f u=%.3f m=%.3f\n",
		v.BaselineV, v.BaselineA, v.BaselineU, v.BaselineM)
	fmt.Printf("temporal coherence: %.3f\n", v.TemporalCoherence)

	var norm float64
	for _, x := range v.IdentityVector {
		norm += x * x
	}
	fmt.Printf("identity vector: dim=%d l2=%.4f head=[%.3f %.3f %.3f %.3f]\n",
		len(v.IdentityVector), math.Sqrt(norm),
		v.IdentityVector[0], v.IdentityVector[1], v.IdentityVector[2], v.IdentityVector[3])

	if len(v.StyleSignature) > 0 {
		fmt.Println("style signature:")
		for k, s := range v.StyleSignature {
			fmt.Printf("  %-20s %.4f\n", k, s)
		}
	}
}

// #endregion dump
