package sommeil

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// #region config
// Config tunes simulated maintenance work.
type Config struct {
	// ConsolidationBatch is the number of memories a consolidation
	// task reports to OnConsolidate.
	ConsolidationBatch int

	// SimulatedTaskDelay pads pruning/reranking tasks so their
	// durations are observable. Zero keeps cycles instant in tests.
	SimulatedTaskDelay time.Duration
}

// DefaultConfig returns standard maintenance tuning.
func DefaultConfig() Config {
	return Config{
		ConsolidationBatch: 8,
		SimulatedTaskDelay: 0,
	}
}

// #endregion config

// #region scheduler
// Scheduler owns the priority queue of maintenance tasks and runs
// idle-gated cycles over it. The running flag is the only concurrency
// control: a cycle requested while one is active is skipped, never
// queued. Mirrors the single-context model of the rest of the core;
// the mutex only protects the queue from a driving timer firing while
// a cycle drains it.
type Scheduler struct {
	mu      sync.Mutex
	queue   []Task
	metrics Metrics
	running bool
	config  Config
}

// NewScheduler creates a scheduler. Metrics live for the scheduler's
// lifetime and only ResetMetrics clears them.
func NewScheduler(config Config) *Scheduler {
	if config.ConsolidationBatch <= 0 {
		config.ConsolidationBatch = DefaultConfig().ConsolidationBatch
	}
	return &Scheduler{config: config}
}

// #endregion scheduler

// #region queue
// Queue appends a new task and re-sorts the queue descending by
// priority. The sort is stable, so equal priorities keep insertion
// order.
func (s *Scheduler) Queue(typ TaskType, priority int) Task {
	task := Task{
		ID:        uuid.New().String(),
		Type:      typ,
		Priority:  priority,
		Timestamp: time.Now(),
		Status:    StatusQueued,
	}

	s.mu.Lock()
	s.queue = append(s.queue, task)
	sortByPriority(s.queue)
	s.mu.Unlock()

	return task
}

// ScheduleMaintenance enqueues one task of each type with the standard
// priority ordering: consolidation first, indexing last.
func (s *Scheduler) ScheduleMaintenance() {
	s.Queue(TaskConsolidation, 3)
	s.Queue(TaskPruning, 2)
	s.Queue(TaskReranking, 2)
	s.Queue(TaskIndexing, 1)
}

// QueuedTasks returns a copy of the queue in execution order.
func (s *Scheduler) QueuedTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.queue...)
}

func sortByPriority(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority > tasks[j].Priority
	})
}

// #endregion queue

// #region run-cycle
// RunCycle drains the queue in priority order while isIdle holds.
// A cycle already in progress, or a non-idle host at entry, makes the
// call a logged no-op. The idle predicate is re-checked between tasks
// only: a started task always reaches completed or failed, and tasks
// not yet started when idleness is lost go back to the live queue with
// status reset to queued. Handler errors mark the task failed with the
// duration measured up to the failure and never abort the rest of the
// cycle.
func (s *Scheduler) RunCycle(ctx context.Context, isIdle func() bool, hooks Hooks) CycleReport {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Printf("[SOMMEIL] cycle skipped: already running")
		return CycleReport{Skipped: true, SkipReason: "cycle already running"}
	}
	if !isIdle() {
		s.mu.Unlock()
		log.Printf("[SOMMEIL] cycle skipped: host not idle")
		return CycleReport{Skipped: true, SkipReason: "host not idle"}
	}
	s.running = true
	snapshot := s.queue
	s.queue = nil
	s.mu.Unlock()

	start := time.Now()
	report := CycleReport{}

	for i := range snapshot {
		// The entry check covers the first task; idleness is re-checked
		// between tasks only, never during one.
		if i > 0 && !isIdle() {
			s.requeue(snapshot[i:])
			report.Requeued = len(snapshot) - i
			log.Printf("[SOMMEIL] idleness lost, requeued %d tasks", report.Requeued)
			break
		}

		task := snapshot[i]
		task.Status = StatusRunning
		taskStart := time.Now()

		err := s.dispatch(ctx, task.Type, hooks)
		task.Duration = time.Since(taskStart)
		if err != nil {
			task.Status = StatusFailed
			task.Err = err.Error()
			report.Failed++
			log.Printf("[SOMMEIL] task %s (%s) failed after %s: %v", task.ID, task.Type, task.Duration, err)
		} else {
			task.Status = StatusCompleted
			report.Completed++
		}
		report.Executed++
		report.Tasks = append(report.Tasks, task)
	}

	report.Elapsed = time.Since(start)

	s.mu.Lock()
	s.metrics.CyclesRun++
	s.metrics.TotalOptimizationTime += report.Elapsed
	s.metrics.LastRunTimestamp = time.Now()
	s.running = false
	s.mu.Unlock()

	log.Printf("[SOMMEIL] cycle done: executed=%d completed=%d failed=%d requeued=%d elapsed=%s",
		report.Executed, report.Completed, report.Failed, report.Requeued, report.Elapsed)
	return report
}

// requeue pushes unstarted tasks back onto the live queue with status
// reset to queued.
func (s *Scheduler) requeue(tasks []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		t.Status = StatusQueued
		s.queue = append(s.queue, t)
	}
	sortByPriority(s.queue)
}

// #endregion run-cycle

// #region dispatch
// dispatch executes one task by its type tag. The task set is fixed
// and small, so a switch beats handler indirection.
func (s *Scheduler) dispatch(ctx context.Context, typ TaskType, hooks Hooks) error {
	switch typ {
	case TaskConsolidation:
		count := s.config.ConsolidationBatch
		if hooks.OnConsolidate != nil {
			if err := hooks.OnConsolidate(ctx, count); err != nil {
				return err
			}
		}
		s.mu.Lock()
		s.metrics.MemoriesConsolidated += count
		s.mu.Unlock()
		return nil

	case TaskPruning, TaskReranking:
		// Simulated work: duration bookkeeping is the only effect.
		if s.config.SimulatedTaskDelay > 0 {
			time.Sleep(s.config.SimulatedTaskDelay)
		}
		return nil

	case TaskIndexing:
		if hooks.OnIndexRebuild != nil {
			if err := hooks.OnIndexRebuild(ctx); err != nil {
				return err
			}
		}
		s.mu.Lock()
		s.metrics.IndicesRebuilt++
		s.mu.Unlock()
		return nil

	default:
		return nil
	}
}

// #endregion dispatch

// #region metrics
// Metrics returns a copy of the cumulative counters.
func (s *Scheduler) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// ResetMetrics clears the counters. The only reset path.
func (s *Scheduler) ResetMetrics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = Metrics{}
}

// #endregion metrics
