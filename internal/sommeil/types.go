package sommeil

import (
	"context"
	"time"
)

// #region task
// TaskType names a kind of background maintenance work.
type TaskType string

const (
	TaskConsolidation TaskType = "consolidation"
	TaskPruning       TaskType = "pruning"
	TaskReranking     TaskType = "reranking"
	TaskIndexing      TaskType = "indexing"
)

// TaskStatus tracks a task through its lifecycle:
// queued → running → completed | failed. A task interrupted before it
// starts goes back to queued; running is never left dangling.
type TaskStatus string

const (
	StatusQueued    TaskStatus = "queued"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// Task is one unit of queued maintenance work.
type Task struct {
	ID        string
	Type      TaskType
	Priority  int // higher runs first
	Timestamp time.Time
	Status    TaskStatus
	Duration  time.Duration // set on completion or failure
	Err       string        // failure reason, empty otherwise
}

// #endregion task

// #region hooks
// Hooks are the host-supplied handlers a cycle may invoke. Either may
// be nil; the corresponding task then only does its bookkeeping.
type Hooks struct {
	// OnConsolidate receives the number of memories consolidated this
	// cycle. Errors mark the task failed without aborting the cycle.
	OnConsolidate func(ctx context.Context, count int) error

	// OnIndexRebuild is invoked by indexing tasks.
	OnIndexRebuild func(ctx context.Context) error
}

// #endregion hooks

// #region metrics
// Metrics holds cumulative counters for the scheduler's lifetime.
// Everything except LastRunTimestamp is monotonically non-decreasing;
// only ResetMetrics clears them.
type Metrics struct {
	CyclesRun             int
	TotalOptimizationTime time.Duration
	MemoriesConsolidated  int
	IndicesRebuilt        int
	LastRunTimestamp      time.Time
}

// #endregion metrics

// #region cycle-report
// CycleReport summarizes one RunCycle call.
type CycleReport struct {
	Executed   int // tasks that reached running
	Completed  int
	Failed     int
	Requeued   int // tasks pushed back when idleness was lost
	Elapsed    time.Duration
	Skipped    bool // cycle did not run at all
	SkipReason string
	Tasks      []Task // processed tasks with final status and duration
}

// #endregion cycle-report
