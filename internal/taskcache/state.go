package taskcache

import (
	"slices"

	"dtask/internal/service"
)

// Phase is where the collection is in its load lifecycle.
type Phase int

const (
	// Uninitialized: nothing loaded yet, or no session to load for.
	Uninitialized Phase = iota
	// Loading: first fetch (or a retry after Failed) in flight.
	Loading
	// Ready: Tasks holds the last successful snapshot.
	Ready
	// Refreshing: Tasks is shown while a replacement is fetched.
	Refreshing
	// Failed: the last fetch failed; Err says why and a retry is possible.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Refreshing:
		return "refreshing"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the collection.
// Tasks and Deleting are replaced, never modified in place.
type State struct {
	Phase    Phase
	Tasks    []service.Task
	Stale    bool
	Deleting map[int64]bool
	Err      error

	// gen counts confirmed mutations. loadGen is gen when the current
	// load started; removedAt maps ids deleted since then to their gen.
	gen       uint64
	loadGen   uint64
	removedAt map[int64]uint64
}

// InFlight reports whether a delete for id is outstanding.
func (s State) InFlight(id int64) bool {
	return s.Deleting[id]
}

// Find returns the task with id, if present.
func (s State) Find(id int64) (service.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

type event interface {
	event()
}

type loadStarted struct{}

type loadSucceeded struct {
	tasks []service.Task
}

type loadFailed struct {
	err error
}

type deleteStarted struct {
	id int64
}

type deleteSucceeded struct {
	id int64
}

type deleteFailed struct {
	id int64
}

type invalidated struct{}

func (loadStarted) event()     {}
func (loadSucceeded) event()   {}
func (loadFailed) event()      {}
func (deleteStarted) event()   {}
func (deleteSucceeded) event() {}
func (deleteFailed) event()    {}
func (invalidated) event()     {}

// reduce returns the state that follows s after ev.
func reduce(s State, ev event) State {
	switch ev := ev.(type) {
	case loadStarted:
		if s.Phase == Ready || s.Phase == Refreshing {
			s.Phase = Refreshing
		} else {
			s.Phase = Loading
		}
		s.loadGen = s.gen

	case loadSucceeded:
		// Full replace, except for mutations confirmed after the list was
		// requested: those ids stay gone and the collection stays stale.
		s.Phase = Ready
		s.Tasks = slices.Clone(ev.tasks)
		if s.Tasks == nil {
			s.Tasks = []service.Task{}
		}
		s.Err = nil
		s.Stale = s.gen != s.loadGen
		s.Tasks = slices.DeleteFunc(s.Tasks, func(t service.Task) bool {
			g, ok := s.removedAt[t.ID]
			return ok && g > s.loadGen
		})
		s.removedAt = removedSince(s.removedAt, s.loadGen)

	case loadFailed:
		s.Phase = Failed
		s.Err = ev.err
		if s.Tasks == nil {
			s.Tasks = []service.Task{}
		}

	case deleteStarted:
		s.Deleting = withID(s.Deleting, ev.id)

	case deleteSucceeded:
		s.Deleting = withoutID(s.Deleting, ev.id)
		s.Tasks = slices.DeleteFunc(slices.Clone(s.Tasks), func(t service.Task) bool {
			return t.ID == ev.id
		})
		s.gen++
		s.removedAt = withRemoved(s.removedAt, ev.id, s.gen)
		s.Stale = true

	case deleteFailed:
		s.Deleting = withoutID(s.Deleting, ev.id)

	case invalidated:
		s.gen++
		s.Stale = true
	}
	return s
}

func withID(m map[int64]bool, id int64) map[int64]bool {
	out := make(map[int64]bool, len(m)+1)
	for k := range m {
		out[k] = true
	}
	out[id] = true
	return out
}

func withoutID(m map[int64]bool, id int64) map[int64]bool {
	if !m[id] {
		return m
	}
	out := make(map[int64]bool, len(m))
	for k := range m {
		if k != id {
			out[k] = true
		}
	}
	return out
}

func withRemoved(m map[int64]uint64, id int64, gen uint64) map[int64]uint64 {
	out := make(map[int64]uint64, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[id] = gen
	return out
}

// removedSince keeps the entries newer than gen.
func removedSince(m map[int64]uint64, gen uint64) map[int64]uint64 {
	var out map[int64]uint64
	for k, v := range m {
		if v > gen {
			if out == nil {
				out = make(map[int64]uint64)
			}
			out[k] = v
		}
	}
	return out
}
