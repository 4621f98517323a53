// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"dtask/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	users  map[string]fakeAccount
	tasks  map[string][]service.Task // account -> tasks
	nextID int64
	calls  map[string]int

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	DeleteTaskErr error
	LoginErr      error
	RegisterErr   error

	// DeleteRejects makes DeleteTask answer {success:false}.
	DeleteRejects bool

	// RegisterRefusal, if set, makes Register answer {success:false} with this message.
	RegisterRefusal string

	// DeleteStarted, if set, receives the id of every delete that reaches
	// the fake; DeleteRelease, if set, blocks it until a value arrives.
	DeleteStarted chan int64
	DeleteRelease chan struct{}

	// ListStarted and ListRelease do the same for ListTasks. The list
	// itself is read before ListStarted is signalled.
	ListStarted chan struct{}
	ListRelease chan struct{}
}

type fakeAccount struct {
	username string
	password string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[string]fakeAccount),
		tasks:  make(map[string][]service.Task),
		nextID: 1,
		calls:  make(map[string]int),
	}
}

// AddUser adds an account that can log in.
func (f *FakeService) AddUser(email, username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeAccount{username: username, password: password}
}

// AddTask adds a task to an account and returns it.
func (f *FakeService) AddTask(accountID, title, description, state string) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(accountID, title, description, state)
}

// Tasks returns a copy of an account's tasks.
func (f *FakeService) Tasks(accountID string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks[accountID]))
	copy(result, f.tasks[accountID])
	return result
}

// Calls returns how many times op was invoked
// ("list", "create", "delete", "login", "register").
func (f *FakeService) Calls(op string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[op]
}

func (f *FakeService) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *FakeService) insertLocked(accountID, title, description, state string) service.Task {
	if state == "" {
		state = service.StatePending
	}
	task := service.Task{
		ID:          f.nextID,
		Title:       title,
		Description: description,
		State:       state,
		CreatedDate: service.Timestamp{Time: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Hour)},
	}
	f.nextID++
	f.tasks[accountID] = append(f.tasks[accountID], task)
	return task
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, accountID string) ([]service.Task, error) {
	f.count("list")
	// The list is taken when the request arrives, as a server would.
	tasks := f.Tasks(accountID)
	if f.ListStarted != nil {
		f.ListStarted <- struct{}{}
	}
	if f.ListRelease != nil {
		select {
		case <-f.ListRelease:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title, description, accountID string) (service.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := service.ValidateNewTask(title, description, accountID); err != nil {
		return service.Task{}, err
	}
	f.count("create")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(accountID, title, description, ""), nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64, accountID string) (service.DeleteResult, error) {
	f.count("delete")
	if f.DeleteStarted != nil {
		f.DeleteStarted <- id
	}
	if f.DeleteRelease != nil {
		select {
		case <-f.DeleteRelease:
		case <-ctx.Done():
			return service.DeleteResult{}, ctx.Err()
		}
	}
	if f.DeleteTaskErr != nil {
		return service.DeleteResult{}, f.DeleteTaskErr
	}
	if f.DeleteRejects {
		return service.DeleteResult{Success: false}, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := f.tasks[accountID]
	for i, t := range tasks {
		if t.ID == id {
			f.tasks[accountID] = append(tasks[:i:i], tasks[i+1:]...)
			break
		}
	}
	// Unknown ids are treated as already deleted.
	return service.DeleteResult{Success: true}, nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.Session, error) {
	f.count("login")
	if f.LoginErr != nil {
		return service.Session{}, f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[email]
	if !ok || u.password != password {
		return service.Session{}, &service.AuthError{Message: "Invalid email or password"}
	}
	return service.Session{Email: email, Username: u.username}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, displayName, email, password string) (service.RegisterResult, error) {
	f.count("register")
	if f.RegisterErr != nil {
		return service.RegisterResult{}, f.RegisterErr
	}
	if f.RegisterRefusal != "" {
		return service.RegisterResult{Success: false, Message: f.RegisterRefusal}, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[email]; exists {
		return service.RegisterResult{}, &service.AuthError{Message: "Email already registered"}
	}
	f.users[email] = fakeAccount{username: displayName, password: password}
	return service.RegisterResult{Success: true, Message: "User registered successfully"}, nil
}
