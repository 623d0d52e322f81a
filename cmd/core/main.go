package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rork/affective-core/go-core/internal/affect"
	"github.com/rork/affective-core/go-core/internal/config"
	"github.com/rork/affective-core/go-core/internal/journal"
	"github.com/rork/affective-core/go-core/internal/reflective"
	"github.com/rork/affective-core/go-core/internal/sommeil"
)

// #region driver
// driver wires the three core components together and tracks the
// activity state the idle predicate reads.
type driver struct {
	sim       *affect.Simulator
	engine    *reflective.Engine
	scheduler *sommeil.Scheduler
	journal   *journal.Journal
	cfg       config.Config

	mu            sync.Mutex
	lastActivity  time.Time
	pendingBoost  float64 // intrinsic stimulus fed back by consolidation
	cycleCount    int
	lastMetaID    string
}

func (d *driver) touch() {
	d.mu.Lock()
	d.lastActivity = time.Now()
	d.mu.Unlock()
}

// isIdle holds when no user turn arrived for the configured window.
func (d *driver) isIdle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Since(d.lastActivity) >= d.cfg.IdleAfter
}

// takeBoost consumes the intrinsic stimulus accumulated by background
// consolidation since the previous turn.
func (d *driver) takeBoost() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := d.pendingBoost
	d.pendingBoost = 0
	return b
}

// #endregion driver

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	dyn, err := config.LoadDynamics(cfg.DynamicsFile)
	if err != nil {
		log.Fatalf("dynamics: %v", err)
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	d := &driver{
		sim:          affect.NewSimulator(dyn),
		engine:       reflective.NewEngine(rng),
		scheduler:    sommeil.NewScheduler(sommeil.DefaultConfig()),
		cfg:          cfg,
		lastActivity: time.Now(),
	}

	// Journal failures are non-fatal: the core stays usable without
	// storage, it just loses the durable trail.
	j, err := journal.Open(cfg.DBPath)
	if err != nil {
		log.Printf("[CORE] journal unavailable, running without persistence: %v", err)
	} else {
		d.journal = j
		defer j.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.maintenanceLoop(ctx)

	fmt.Println("Affective core ready.")
	fmt.Printf("  DB: %s | dt: %g | idle after: %s\n", cfg.DBPath, cfg.DT, cfg.IdleAfter)
	fmt.Println("Type a line per turn (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	current := affect.Zero(time.Now())
	turnNum := 0

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		d.touch()
		turnNum++
		current = d.runTurn(current, line, turnNum)
	}
}

// #endregion main

// #region turn
// runTurn maps one line of input onto simulator inputs, advances the
// field, and feeds the reflective pipeline.
func (d *driver) runTurn(current affect.Field, line string, turnNum int) affect.Field {
	external := externalInput(line)
	metaFeedback := d.engine.ReflectiveMetrics().SelfCoherence
	intrinsic := d.takeBoost()

	prev := current
	next := d.sim.Step(current, external, metaFeedback, intrinsic, d.cfg.DT)

	attention := attentionTokens(line)
	load := clamp01(float64(len(line)) / 200)
	predictions := map[string]float64{"continue_topic": 0.5 + 0.5*overlapBoost(attention)}

	snap := d.engine.Monitor(next, load, attention, predictions)
	d.engine.UpdateMetaModel(next.V-prev.V, "responsive", 0.5+external/2)
	coherence := d.engine.EvaluateSelfCoherence()
	continuity := d.engine.EvaluateNarrativeContinuity()

	regime := affect.Classify(next)
	fmt.Printf("[turn-%d] v=%.3f a=%.3f u=%.3f m=%.3f regime=%s(%.2f)\n",
		turnNum, next.V, next.A, next.U, next.M, regime.Regime, regime.Confidence)
	fmt.Printf("  %s\n", snap.Commentary)

	d.recordTurn(next, snap, regime, coherence, continuity)
	return next
}

func (d *driver) recordTurn(f affect.Field, snap reflective.Snapshot, regime affect.RegimeResult, coherence, continuity float64) {
	if d.journal == nil {
		return
	}
	m := d.engine.ReflectiveMetrics()
	err := d.journal.RecordTick(journal.TickRecord{
		TickID:               uuid.New().String(),
		Valence:              f.V,
		Arousal:              f.A,
		Uncertainty:          f.U,
		Motivation:           f.M,
		Regime:               string(regime.Regime),
		CognitiveLoad:        snap.CognitiveLoad,
		Commentary:           snap.Commentary,
		SelfCoherence:        coherence,
		NarrativeContinuity:  continuity,
		IntrospectiveDensity: m.IntrospectiveDensity,
	})
	if err != nil {
		log.Printf("[CORE] record tick: %v", err)
	}
}

// #endregion turn

// #region maintenance
// maintenanceLoop schedules and runs sommeil cycles on the configured
// interval. Consolidated memory counts flow back into the next turn as
// intrinsic stimulus.
func (d *driver) maintenanceLoop(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.CycleInterval)
	defer ticker.Stop()

	hooks := sommeil.Hooks{
		OnConsolidate: func(ctx context.Context, count int) error {
			d.mu.Lock()
			d.pendingBoost += float64(count) / 20
			d.mu.Unlock()
			return nil
		},
		OnIndexRebuild: func(ctx context.Context) error {
			return nil
		},
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if len(d.scheduler.QueuedTasks()) == 0 {
				d.scheduler.ScheduleMaintenance()
			}
			report := d.scheduler.RunCycle(ctx, d.isIdle, hooks)
			if report.Skipped {
				continue
			}
			d.logCycle(report)
			d.snapshotMeta()
		}
	}
}

func (d *driver) logCycle(report sommeil.CycleReport) {
	if d.journal == nil {
		return
	}
	d.mu.Lock()
	d.cycleCount++
	cycle := d.cycleCount
	d.mu.Unlock()

	for _, task := range report.Tasks {
		err := d.journal.LogTask(journal.TaskEntry{
			TaskID:     task.ID,
			TaskType:   string(task.Type),
			Status:     string(task.Status),
			DurationMs: task.Duration.Milliseconds(),
			Cycle:      cycle,
			Reason:     task.Err,
		})
		if err != nil {
			log.Printf("[CORE] log task: %v", err)
		}
	}
}

// snapshotMeta persists the meta-model after each completed cycle,
// chained to the previous version.
func (d *driver) snapshotMeta() {
	if d.journal == nil {
		return
	}
	meta := d.engine.Meta()
	id := uuid.New().String()

	d.mu.Lock()
	parent := d.lastMetaID
	d.lastMetaID = id
	d.mu.Unlock()

	err := d.journal.RecordMeta(journal.MetaVersion{
		VersionID:         id,
		ParentID:          parent,
		IdentityVector:    meta.IdentityVector,
		StyleSignature:    meta.StyleSignature,
		BaselineV:         meta.EmotionalBaseline.V,
		BaselineA:         meta.EmotionalBaseline.A,
		BaselineU:         meta.EmotionalBaseline.U,
		BaselineM:         meta.EmotionalBaseline.M,
		TemporalCoherence: meta.TemporalCoherence,
	})
	if err != nil {
		log.Printf("[CORE] record meta: %v", err)
	}
}

// #endregion maintenance

// #region input-mapping
// externalInput maps a line of text to a signed scalar: longer,
// emphatic input excites; question marks read as uncertainty-inducing.
func externalInput(line string) float64 {
	v := clamp01(float64(len(line)) / 120)
	if strings.Contains(line, "!") {
		v += 0.3
	}
	if strings.Contains(line, "?") {
		v -= 0.2
	}
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return v
}

// attentionTokens extracts up to 8 topic-ish tokens (length > 4).
func attentionTokens(line string) []string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(line)) {
		tok = strings.Trim(tok, ".,!?;:")
		if len(tok) > 4 {
			out = append(out, tok)
		}
		if len(out) == 8 {
			break
		}
	}
	return out
}

func overlapBoost(attention []string) float64 {
	if len(attention) == 0 {
		return 0
	}
	return clamp01(float64(len(attention)) / 8)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion input-mapping
