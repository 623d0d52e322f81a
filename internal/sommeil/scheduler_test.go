package sommeil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return NewScheduler(DefaultConfig())
}

func alwaysIdle() bool { return true }

func TestQueueOrdering(t *testing.T) {
	s := testScheduler(t)
	s.Queue(TaskPruning, 5)
	s.Queue(TaskConsolidation, 9)

	queued := s.QueuedTasks()
	if len(queued) != 2 {
		t.Fatalf("expected 2 queued tasks, got %d", len(queued))
	}
	if queued[0].Type != TaskConsolidation {
		t.Fatalf("expected consolidation first, got %s", queued[0].Type)
	}
}

func TestQueueStableForEqualPriorities(t *testing.T) {
	s := testScheduler(t)
	first := s.Queue(TaskPruning, 2)
	second := s.Queue(TaskReranking, 2)
	third := s.Queue(TaskIndexing, 2)

	queued := s.QueuedTasks()
	if queued[0].ID != first.ID || queued[1].ID != second.ID || queued[2].ID != third.ID {
		t.Fatal("equal priorities must keep insertion order")
	}
}

func TestScheduleMaintenanceOrdering(t *testing.T) {
	s := testScheduler(t)
	s.ScheduleMaintenance()

	queued := s.QueuedTasks()
	if len(queued) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(queued))
	}
	wantOrder := []TaskType{TaskConsolidation, TaskPruning, TaskReranking, TaskIndexing}
	for i, w := range wantOrder {
		if queued[i].Type != w {
			t.Fatalf("position %d: got %s, want %s", i, queued[i].Type, w)
		}
	}
}

func TestTaskIDsUnique(t *testing.T) {
	s := testScheduler(t)
	a := s.Queue(TaskPruning, 1)
	b := s.Queue(TaskPruning, 1)
	if a.ID == b.ID || a.ID == "" {
		t.Fatalf("expected unique non-empty IDs, got %q and %q", a.ID, b.ID)
	}
}

func TestRunCycleDrainsQueue(t *testing.T) {
	s := testScheduler(t)
	s.ScheduleMaintenance()

	report := s.RunCycle(context.Background(), alwaysIdle, Hooks{})
	if report.Skipped {
		t.Fatalf("cycle should not skip: %s", report.SkipReason)
	}
	if report.Executed != 4 || report.Completed != 4 {
		t.Fatalf("expected 4 completed, got executed=%d completed=%d", report.Executed, report.Completed)
	}
	if len(s.QueuedTasks()) != 0 {
		t.Fatalf("queue should be empty, has %d", len(s.QueuedTasks()))
	}
	for _, task := range report.Tasks {
		if task.Status != StatusCompleted {
			t.Fatalf("task %s ended %s", task.Type, task.Status)
		}
	}
}

func TestRunCycleSkipsWhenNotIdle(t *testing.T) {
	s := testScheduler(t)
	s.Queue(TaskPruning, 1)

	report := s.RunCycle(context.Background(), func() bool { return false }, Hooks{})
	if !report.Skipped {
		t.Fatal("expected skip when not idle")
	}
	if len(s.QueuedTasks()) != 1 {
		t.Fatal("queue must be untouched by a skipped cycle")
	}
	if s.Metrics().CyclesRun != 0 {
		t.Fatal("skipped cycle must not count")
	}
}

func TestRunCyclePreemption(t *testing.T) {
	s := testScheduler(t)
	s.Queue(TaskConsolidation, 3)
	s.Queue(TaskPruning, 2)
	s.Queue(TaskIndexing, 1)

	calls := 0
	idleOnce := func() bool {
		calls++
		return calls == 1
	}

	report := s.RunCycle(context.Background(), idleOnce, Hooks{})
	if report.Executed != 1 {
		t.Fatalf("expected exactly 1 executed task, got %d", report.Executed)
	}
	if report.Requeued != 2 {
		t.Fatalf("expected 2 requeued, got %d", report.Requeued)
	}

	queued := s.QueuedTasks()
	if len(queued) != 2 {
		t.Fatalf("expected 2 tasks back in queue, got %d", len(queued))
	}
	for _, task := range queued {
		if task.Status != StatusQueued {
			t.Fatalf("requeued task has status %s", task.Status)
		}
	}
}

func TestRunCycleFailureIsolation(t *testing.T) {
	s := testScheduler(t)
	s.Queue(TaskConsolidation, 9)
	s.Queue(TaskIndexing, 1)

	rebuilt := false
	hooks := Hooks{
		OnConsolidate: func(ctx context.Context, count int) error {
			return errors.New("store unavailable")
		},
		OnIndexRebuild: func(ctx context.Context) error {
			rebuilt = true
			return nil
		},
	}

	report := s.RunCycle(context.Background(), alwaysIdle, hooks)
	if report.Failed != 1 || report.Completed != 1 {
		t.Fatalf("expected 1 failed + 1 completed, got failed=%d completed=%d", report.Failed, report.Completed)
	}
	if !rebuilt {
		t.Fatal("second task should still run after first fails")
	}
	if report.Tasks[0].Status != StatusFailed || report.Tasks[0].Err == "" {
		t.Fatalf("first task should record failure, got %+v", report.Tasks[0])
	}
	if report.Tasks[1].Status != StatusCompleted {
		t.Fatalf("second task should complete, got %s", report.Tasks[1].Status)
	}
}

func TestFailedConsolidationDoesNotCount(t *testing.T) {
	s := testScheduler(t)
	s.Queue(TaskConsolidation, 1)

	hooks := Hooks{
		OnConsolidate: func(ctx context.Context, count int) error {
			return errors.New("nope")
		},
	}
	s.RunCycle(context.Background(), alwaysIdle, hooks)
	if got := s.Metrics().MemoriesConsolidated; got != 0 {
		t.Fatalf("failed consolidation must not count, got %d", got)
	}
}

func TestConsolidationAndIndexingCounters(t *testing.T) {
	s := NewScheduler(Config{ConsolidationBatch: 5})
	s.ScheduleMaintenance()

	var gotCount int
	hooks := Hooks{
		OnConsolidate: func(ctx context.Context, count int) error {
			gotCount = count
			return nil
		},
	}
	s.RunCycle(context.Background(), alwaysIdle, hooks)

	if gotCount != 5 {
		t.Fatalf("expected batch 5 passed to hook, got %d", gotCount)
	}
	m := s.Metrics()
	if m.MemoriesConsolidated != 5 {
		t.Fatalf("expected 5 memories consolidated, got %d", m.MemoriesConsolidated)
	}
	if m.IndicesRebuilt != 1 {
		t.Fatalf("expected 1 index rebuilt, got %d", m.IndicesRebuilt)
	}
}

func TestMetricsAccumulateAcrossCycles(t *testing.T) {
	s := testScheduler(t)
	for i := 0; i < 3; i++ {
		s.ScheduleMaintenance()
		s.RunCycle(context.Background(), alwaysIdle, Hooks{})
	}
	m := s.Metrics()
	if m.CyclesRun != 3 {
		t.Fatalf("expected 3 cycles, got %d", m.CyclesRun)
	}
	if m.MemoriesConsolidated != 3*DefaultConfig().ConsolidationBatch {
		t.Fatalf("unexpected consolidation count %d", m.MemoriesConsolidated)
	}
	if m.LastRunTimestamp.IsZero() {
		t.Fatal("last run timestamp unset")
	}
}

func TestResetMetrics(t *testing.T) {
	s := testScheduler(t)
	s.ScheduleMaintenance()
	s.RunCycle(context.Background(), alwaysIdle, Hooks{})
	s.ResetMetrics()
	if s.Metrics() != (Metrics{}) {
		t.Fatalf("expected zeroed metrics, got %+v", s.Metrics())
	}
}

func TestRunCycleReentrancyGuard(t *testing.T) {
	s := testScheduler(t)
	s.Queue(TaskIndexing, 1)

	inner := CycleReport{}
	hooks := Hooks{
		OnIndexRebuild: func(ctx context.Context) error {
			// Re-enter from inside a running cycle.
			inner = s.RunCycle(ctx, alwaysIdle, Hooks{})
			return nil
		},
	}
	outer := s.RunCycle(context.Background(), alwaysIdle, hooks)

	if outer.Skipped {
		t.Fatalf("outer cycle should run: %s", outer.SkipReason)
	}
	if !inner.Skipped || inner.SkipReason != "cycle already running" {
		t.Fatalf("inner cycle should be skipped as re-entrant, got %+v", inner)
	}
	if s.Metrics().CyclesRun != 1 {
		t.Fatalf("expected 1 cycle counted, got %d", s.Metrics().CyclesRun)
	}
}

func TestTaskDurationRecorded(t *testing.T) {
	s := NewScheduler(Config{ConsolidationBatch: 1, SimulatedTaskDelay: 2 * time.Millisecond})
	s.Queue(TaskPruning, 1)
	report := s.RunCycle(context.Background(), alwaysIdle, Hooks{})
	if report.Tasks[0].Duration < 2*time.Millisecond {
		t.Fatalf("expected simulated delay in duration, got %s", report.Tasks[0].Duration)
	}
}
