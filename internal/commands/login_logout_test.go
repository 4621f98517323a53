package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"dtask/internal/commands"
	"dtask/internal/exitcode"
	"dtask/internal/service"
	"dtask/internal/session"
	"dtask/internal/storage"
	"dtask/internal/testutil"
)

func storedSession(t *testing.T, dir string) (service.Session, bool) {
	t.Helper()
	return session.NewStore(storage.New(dir), nil).Load()
}

// TestLoginCommand_Success verifies the session is persisted
func TestLoginCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser(account, "Ann", "secret1")
	dir := filepath.Join(t.TempDir(), "dtask")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials(" a@b.com ", "secret1")
	stdout, stderr, code := runCommandIn(t, dir, cmd, svc, nil, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "logged in as Ann\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	sess, ok := storedSession(t, dir)
	if !ok {
		t.Fatal("session not stored")
	}
	if sess.Email != account || sess.Username != "Ann" {
		t.Errorf("unexpected session %+v", sess)
	}

	info, err := os.Stat(filepath.Join(dir, session.UserKey+".json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies no backend call is made
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	dir := t.TempDir()
	if err := session.NewStore(storage.New(dir), nil).Save(*testSession); err != nil {
		t.Fatalf("save: %v", err)
	}

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("x@y.com", "whatever")
	stdout, _, code := runCommandIn(t, dir, cmd, svc, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "already logged in as Ann\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if svc.Calls("login") != 0 {
		t.Error("expected no login call")
	}
}

// TestLoginCommand_BadCredentials verifies the backend message is shown and nothing is stored
func TestLoginCommand_BadCredentials(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser(account, "Ann", "secret1")
	dir := t.TempDir()

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials(account, "wrong")
	stdout, stderr, code := runCommandIn(t, dir, cmd, svc, nil, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: auth error: Invalid email or password\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if _, ok := storedSession(t, dir); ok {
		t.Error("session should not be stored after a failed login")
	}
}

// TestLoginCommand_MissingFields verifies validation happens before any call
func TestLoginCommand_MissingFields(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials(account, "  ")
	_, stderr, code := runCommand(t, cmd, svc, nil, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: email and password required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls("login") != 0 {
		t.Error("expected no login call")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout with no session
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, nil, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected %q, got %q", "not logged in\n", stdout)
	}
}

// TestLogoutCommand_ClearsSession verifies the session record is removed
func TestLogoutCommand_ClearsSession(t *testing.T) {
	dir := t.TempDir()
	if err := session.NewStore(storage.New(dir), nil).Save(*testSession); err != nil {
		t.Fatalf("save: %v", err)
	}

	stdout, _, code := runCommandIn(t, dir, &commands.LogoutCmd{}, nil, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if _, ok := storedSession(t, dir); ok {
		t.Error("session survived logout")
	}
}

// TestLogoutCommand_CorruptRecord verifies an unreadable record is still removed
func TestLogoutCommand_CorruptRecord(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, session.UserKey+".json"), []byte("{oops"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	stdout, _, code := runCommandIn(t, dir, &commands.LogoutCmd{}, nil, nil, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, session.UserKey+".json")); !os.IsNotExist(err) {
		t.Error("corrupt record should be removed")
	}
}
