package taskcache_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"dtask/internal/backend/servlet"
	"dtask/internal/service"
	"dtask/internal/session"
	"dtask/internal/storage"
	"dtask/internal/taskcache"
	"dtask/internal/testutil"
)

func TestScenario_LoginCreateList(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.AddUser("a@b.com", "A", "secret1")

	client := servlet.NewWithHTTPClient(http.DefaultClient, backend.TaskURL(), backend.AuthURL(), 5*time.Second)
	store := session.NewStore(storage.New(t.TempDir()), nil)
	ctrl := session.NewController(client, store)
	ctx := context.Background()

	sess, err := ctrl.Login(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Email != "a@b.com" || sess.Username != "A" {
		t.Fatalf("unexpected session %+v", sess)
	}

	cur, ok := ctrl.Current()
	if !ok {
		t.Fatal("session was not persisted")
	}
	cache := taskcache.New(client, &cur, nil)

	if err := cache.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s := cache.Snapshot(); s.Phase != taskcache.Ready || len(s.Tasks) != 0 {
		t.Fatalf("expected empty ready collection, got %s with %d tasks", s.Phase, len(s.Tasks))
	}

	if _, err := cache.Create(ctx, "Buy milk", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := cache.EnsureFresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	s := cache.Snapshot()
	if len(s.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(s.Tasks))
	}
	task := s.Tasks[0]
	if task.Title != "Buy milk" || task.State != service.StatePending {
		t.Errorf("unexpected task %+v", task)
	}

	outcome, err := cache.Delete(ctx, task.ID)
	if err != nil || outcome != taskcache.Deleted {
		t.Fatalf("delete: %s, %v", outcome, err)
	}
	if err := cache.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if n := len(cache.Snapshot().Tasks); n != 0 {
		t.Errorf("expected empty collection after delete, got %d", n)
	}

	if err := ctrl.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := ctrl.Current(); ok {
		t.Error("session survived logout")
	}
}

func TestScenario_ListFailureSurfaces(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.ListStatus = http.StatusInternalServerError

	client := servlet.NewWithHTTPClient(http.DefaultClient, backend.TaskURL(), backend.AuthURL(), 5*time.Second)
	cache := taskcache.New(client, &service.Session{Email: "a@b.com"}, nil)

	err := cache.Load(context.Background())
	if !service.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	s := cache.Snapshot()
	if s.Phase != taskcache.Failed {
		t.Errorf("expected failed, got %s", s.Phase)
	}
	if len(s.Tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(s.Tasks))
	}
}
