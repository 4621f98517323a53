// Package taskcache holds the current session's tasks, refreshes them from
// the backend and applies deletes as soon as the backend confirms them.
package taskcache

import (
	"context"
	"io"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"dtask/internal/service"
)

// DeleteOutcome says what a Delete call did.
type DeleteOutcome int

const (
	// Deleted: the backend confirmed and the task left the collection.
	Deleted DeleteOutcome = iota
	// Kept: the backend refused or failed; the task stays and may be retried.
	Kept
	// Ignored: a delete for the same id was already in flight; nothing was sent.
	Ignored
)

func (o DeleteOutcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case Kept:
		return "kept"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Cache is the task collection for one session.
// A nil session keeps it Uninitialized and makes every remote call a no-op.
type Cache struct {
	svc  service.TaskService
	sess *service.Session
	log  *log.Logger

	mu    sync.Mutex
	state State

	loads singleflight.Group
}

// New returns an empty cache for sess. logger may be nil.
func New(svc service.TaskService, sess *service.Session, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Cache{svc: svc, sess: sess, log: logger}
}

// Snapshot returns the current state.
func (c *Cache) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load is called whenever a view of the tasks is entered: the first call
// loads, later calls refresh. Without a session nothing happens.
func (c *Cache) Load(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh replaces the collection with the server's current list.
// Concurrent calls share one request.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.sess == nil {
		return nil
	}
	return c.fetch(ctx)
}

// EnsureFresh refreshes unless the collection is Ready and not stale.
func (c *Cache) EnsureFresh(ctx context.Context) error {
	s := c.Snapshot()
	if s.Phase == Ready && !s.Stale {
		return nil
	}
	return c.Refresh(ctx)
}

// Create asks the backend for a new task and marks the collection stale.
// The task appears in the collection only after the next refresh.
func (c *Cache) Create(ctx context.Context, title, description string) (service.Task, error) {
	if c.sess == nil {
		return service.Task{}, service.ErrNotLoggedIn
	}
	task, err := c.svc.CreateTask(ctx, title, description, c.sess.Email)
	if err != nil {
		return service.Task{}, err
	}
	c.dispatch(invalidated{})
	return task, nil
}

// Delete removes a task. At most one delete per id is in flight;
// a second request for the same id returns Ignored without a remote call.
func (c *Cache) Delete(ctx context.Context, id int64) (DeleteOutcome, error) {
	if c.sess == nil {
		return Kept, service.ErrNotLoggedIn
	}

	c.mu.Lock()
	if c.state.InFlight(id) {
		c.mu.Unlock()
		c.log.Printf("delete %d already in flight, ignoring", id)
		return Ignored, nil
	}
	c.state = reduce(c.state, deleteStarted{id: id})
	c.mu.Unlock()

	res, err := c.svc.DeleteTask(ctx, id, c.sess.Email)
	if err != nil {
		c.dispatch(deleteFailed{id: id})
		return Kept, err
	}
	if !res.Success {
		c.dispatch(deleteFailed{id: id})
		return Kept, nil
	}
	c.dispatch(deleteSucceeded{id: id})
	return Deleted, nil
}

// fetch runs one list request for all concurrent callers. The request
// outlives a caller that gives up; each caller waits on its own ctx.
func (c *Cache) fetch(ctx context.Context) error {
	ch := c.loads.DoChan("list", func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		c.dispatch(loadStarted{})
		tasks, err := c.svc.ListTasks(ctx, c.sess.Email)
		if err != nil {
			c.dispatch(loadFailed{err: err})
			return nil, err
		}
		c.dispatch(loadSucceeded{tasks: tasks})
		return nil, nil
	})
	select {
	case res := <-ch:
		if res.Shared {
			c.log.Printf("task refresh shared between callers")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cache) dispatch(ev event) {
	c.mu.Lock()
	prev := c.state.Phase
	c.state = reduce(c.state, ev)
	next := c.state.Phase
	c.mu.Unlock()

	if prev != next {
		c.log.Printf("tasks: %s -> %s", prev, next)
	}
}
