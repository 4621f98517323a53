package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"dtask/internal/service"
)

// Servlet paths served by FakeBackend.
const (
	TaskPath = "/TaskServlet"
	AuthPath = "/AuthServlet"
)

type fakeUser struct {
	username string
	hash     []byte
}

type ownedTask struct {
	owner string
	task  service.Task
}

// FakeBackend is an HTTP stand-in for the task and auth servlets.
type FakeBackend struct {
	Server *httptest.Server

	mu     sync.Mutex
	users  map[string]fakeUser
	tasks  []ownedTask
	nextID int64
	calls  map[string]int
	now    func() time.Time

	// Failure injection
	ListStatus int    // non-zero: list replies with this status
	ListBody   string // non-empty: list replies with this raw body
	AuthBody   string // non-empty: auth replies with this raw body
	DeleteHold chan struct{}
}

// NewFakeBackend starts a fake backend that is closed when the test ends.
func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeBackend{
		users:  make(map[string]fakeUser),
		calls:  make(map[string]int),
		nextID: 1,
		now:    func() time.Time { return time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC) },
	}

	r := gin.New()
	r.GET(TaskPath, f.listTasks)
	r.POST(TaskPath, f.createTask)
	r.DELETE(TaskPath, f.deleteTask)
	r.POST(AuthPath, f.auth)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the backend base URL.
func (f *FakeBackend) URL() string { return f.Server.URL }

// TaskURL returns the task endpoint.
func (f *FakeBackend) TaskURL() string { return f.Server.URL + TaskPath }

// AuthURL returns the auth endpoint.
func (f *FakeBackend) AuthURL() string { return f.Server.URL + AuthPath }

// AddUser registers an account directly.
func (f *FakeBackend) AddUser(email, username, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeUser{username: username, hash: hash}
}

// AddTask stores a task for email and returns it.
func (f *FakeBackend) AddTask(email, title, description, state string) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(email, title, description, state)
}

// Calls returns how many requests reached op ("list", "create", "delete", "login", "register").
func (f *FakeBackend) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of requests served.
func (f *FakeBackend) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeBackend) insertLocked(email, title, description, state string) service.Task {
	task := service.Task{
		ID:          f.nextID,
		Title:       title,
		Description: description,
		State:       state,
		CreatedDate: service.Timestamp{Time: f.now()},
	}
	f.nextID++
	f.tasks = append(f.tasks, ownedTask{owner: email, task: task})
	return task
}

func (f *FakeBackend) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *FakeBackend) listTasks(c *gin.Context) {
	f.count("list")
	if f.ListStatus != 0 {
		c.JSON(f.ListStatus, gin.H{"error": "list failed"})
		return
	}
	if f.ListBody != "" {
		c.Data(http.StatusOK, "text/html", []byte(f.ListBody))
		return
	}

	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, 0)
	for _, ot := range f.tasks {
		if ot.owner == email {
			result = append(result, ot.task)
		}
	}
	c.JSON(http.StatusOK, result)
}

func (f *FakeBackend) createTask(c *gin.Context) {
	f.count("create")
	title := strings.TrimSpace(c.PostForm("title"))
	email := c.PostForm("email")
	if title == "" || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and email required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	task := f.insertLocked(email, title, c.PostForm("description"), "")
	c.JSON(http.StatusOK, task)
}

func (f *FakeBackend) deleteTask(c *gin.Context) {
	f.count("delete")
	if f.DeleteHold != nil {
		<-f.DeleteHold
	}

	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	email := c.Query("email")
	if err != nil || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "id and email required"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ot := range f.tasks {
		if ot.task.ID == id && ot.owner == email {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "task not found"})
}

func (f *FakeBackend) auth(c *gin.Context) {
	action := c.PostForm("action")
	f.count(action)
	if f.AuthBody != "" {
		c.Data(http.StatusOK, "text/html", []byte(f.AuthBody))
		return
	}

	email := c.PostForm("email")
	password := c.PostForm("password")

	switch action {
	case "login":
		f.mu.Lock()
		u, ok := f.users[email]
		f.mu.Unlock()
		if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": email, "username": u.username})

	case "register":
		f.mu.Lock()
		_, exists := f.users[email]
		f.mu.Unlock()
		if exists {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already registered"})
			return
		}
		f.AddUser(email, c.PostForm("username"), password)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User registered successfully"})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}
