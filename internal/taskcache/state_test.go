package taskcache

import (
	"errors"
	"testing"

	"dtask/internal/service"
)

func tasks(ids ...int64) []service.Task {
	out := make([]service.Task, len(ids))
	for i, id := range ids {
		out[i] = service.Task{ID: id, Title: "t", State: service.StatePending}
	}
	return out
}

func ids(ts []service.Task) []int64 {
	out := make([]int64, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReduce_Transitions(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name  string
		from  Phase
		ev    event
		phase Phase
	}{
		{"first load", Uninitialized, loadStarted{}, Loading},
		{"load ok", Loading, loadSucceeded{tasks: tasks(1)}, Ready},
		{"load failed", Loading, loadFailed{err: errBoom}, Failed},
		{"refresh", Ready, loadStarted{}, Refreshing},
		{"refresh ok", Refreshing, loadSucceeded{tasks: tasks(2)}, Ready},
		{"refresh failed", Refreshing, loadFailed{err: errBoom}, Failed},
		{"retry after failure", Failed, loadStarted{}, Loading},
		{"delete keeps phase", Ready, deleteStarted{id: 1}, Ready},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reduce(State{Phase: tt.from}, tt.ev)
			if got.Phase != tt.phase {
				t.Errorf("expected %s, got %s", tt.phase, got.Phase)
			}
		})
	}
}

func TestReduce_LoadReplacesAndClearsStale(t *testing.T) {
	s := State{Phase: Refreshing, Tasks: tasks(1, 2, 3), Stale: true, Err: errors.New("old")}
	s = reduce(s, loadSucceeded{tasks: tasks(3, 4)})

	if !equalIDs(ids(s.Tasks), []int64{3, 4}) {
		t.Errorf("expected full replace with [3 4], got %v", ids(s.Tasks))
	}
	if s.Stale {
		t.Error("successful load should clear stale")
	}
	if s.Err != nil {
		t.Errorf("successful load should clear error, got %v", s.Err)
	}
}

func TestReduce_LoadFailedKeepsPreviousSnapshot(t *testing.T) {
	errBoom := errors.New("boom")
	s := reduce(State{Phase: Refreshing, Tasks: tasks(1, 2)}, loadFailed{err: errBoom})

	if !equalIDs(ids(s.Tasks), []int64{1, 2}) {
		t.Errorf("expected previous tasks kept, got %v", ids(s.Tasks))
	}
	if !errors.Is(s.Err, errBoom) {
		t.Errorf("expected error recorded, got %v", s.Err)
	}

	first := reduce(State{Phase: Loading}, loadFailed{err: errBoom})
	if first.Tasks == nil || len(first.Tasks) != 0 {
		t.Errorf("expected empty non-nil tasks after failed first load, got %v", first.Tasks)
	}
}

func TestReduce_DeleteLifecycle(t *testing.T) {
	s := State{Phase: Ready, Tasks: tasks(1, 2, 3)}

	s = reduce(s, deleteStarted{id: 2})
	if !s.InFlight(2) {
		t.Fatal("expected id 2 in flight")
	}
	if len(s.Tasks) != 3 {
		t.Error("task should stay visible while its delete is in flight")
	}

	s = reduce(s, deleteSucceeded{id: 2})
	if s.InFlight(2) {
		t.Error("marker should be cleared after success")
	}
	if !equalIDs(ids(s.Tasks), []int64{1, 3}) {
		t.Errorf("expected [1 3], got %v", ids(s.Tasks))
	}
	if !s.Stale {
		t.Error("collection should be stale after a mutation")
	}
}

func TestReduce_DeleteFailedKeepsTask(t *testing.T) {
	s := State{Phase: Ready, Tasks: tasks(1, 2)}
	s = reduce(s, deleteStarted{id: 1})
	s = reduce(s, deleteFailed{id: 1})

	if s.InFlight(1) {
		t.Error("marker should be cleared after failure")
	}
	if !equalIDs(ids(s.Tasks), []int64{1, 2}) {
		t.Errorf("expected tasks unchanged, got %v", ids(s.Tasks))
	}
	if s.Stale {
		t.Error("a failed delete changes nothing on the server")
	}
}

func TestReduce_SnapshotsAreNotAliased(t *testing.T) {
	before := State{Phase: Ready, Tasks: tasks(1, 2, 3)}
	before = reduce(before, deleteStarted{id: 1})

	after := reduce(before, deleteSucceeded{id: 1})

	if !equalIDs(ids(before.Tasks), []int64{1, 2, 3}) {
		t.Errorf("earlier snapshot was modified: %v", ids(before.Tasks))
	}
	if !before.InFlight(1) {
		t.Error("earlier snapshot lost its in-flight marker")
	}
	if after.InFlight(1) {
		t.Error("later snapshot should not have the marker")
	}
}

func TestReduce_Invalidated(t *testing.T) {
	s := reduce(State{Phase: Ready, Tasks: tasks(1)}, invalidated{})
	if !s.Stale || s.Phase != Ready {
		t.Errorf("expected stale Ready, got %+v", s)
	}
}

func TestReduce_LoadOverlappingDelete(t *testing.T) {
	s := reduce(State{Phase: Ready, Tasks: tasks(1, 2)}, loadStarted{})
	s = reduce(s, deleteStarted{id: 1})
	s = reduce(s, deleteSucceeded{id: 1})

	// The list was read before the delete landed.
	s = reduce(s, loadSucceeded{tasks: tasks(1, 2)})
	if !equalIDs(ids(s.Tasks), []int64{2}) {
		t.Errorf("expected [2], got %v", ids(s.Tasks))
	}
	if !s.Stale {
		t.Error("expected stale after a load that overlapped a delete")
	}

	s = reduce(s, loadStarted{})
	s = reduce(s, loadSucceeded{tasks: tasks(2, 3)})
	if !equalIDs(ids(s.Tasks), []int64{2, 3}) {
		t.Errorf("expected [2 3], got %v", ids(s.Tasks))
	}
	if s.Stale || len(s.removedAt) != 0 {
		t.Errorf("expected a fresh state with no pending removals, got stale=%v removed=%v", s.Stale, s.removedAt)
	}
}

func TestReduce_LoadOverlappingCreate(t *testing.T) {
	s := reduce(State{Phase: Ready, Tasks: tasks(1)}, loadStarted{})
	s = reduce(s, invalidated{})
	s = reduce(s, loadSucceeded{tasks: tasks(1)})
	if !s.Stale {
		t.Error("expected stale after a load that overlapped a create")
	}
}
