package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFileStartsAnonymous(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "nope", "session.json"))
	if s.Current() != nil {
		t.Errorf("expected anonymous session for missing file")
	}
	if s.Token() != "" {
		t.Errorf("expected empty token for anonymous session")
	}
}

func TestLoginPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := Open(path)
	err := s.Login(User{
		ID:    "64f0c1d2e3a4b5c6d7e8f901",
		Name:  "Asha Verma",
		Email: "asha@example.com",
		Phone: "+919876543210",
		Role:  "user",
		Token: "token-abc",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	reopened := Open(path)
	u := reopened.Current()
	if u == nil {
		t.Fatalf("expected persisted session to survive reopen")
	}
	if u.Name != "Asha Verma" || u.Token != "token-abc" {
		t.Errorf("reopened session = %+v, want persisted user", u)
	}
	if reopened.Token() != "token-abc" {
		t.Errorf("Token() = %q, want token-abc", reopened.Token())
	}
}

func TestLoginRequiresToken(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "session.json"))
	if err := s.Login(User{Name: "No Token"}); err == nil {
		t.Errorf("expected error for login without token")
	}
}

func TestLogoutClearsAndRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := Open(path)
	if err := s.Login(User{ID: "1", Name: "A", Token: "tok"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if s.Current() != nil {
		t.Errorf("expected anonymous session after logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected session file to be removed, stat err = %v", err)
	}

	// Logout on an already-anonymous session is a no-op.
	if err := s.Logout(); err != nil {
		t.Errorf("second Logout should not fail: %v", err)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "session.json"))
	if err := s.Login(User{ID: "1", Name: "A", Token: "tok"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	u := s.Current()
	u.Name = "mutated"

	if got := s.Current().Name; got != "A" {
		t.Errorf("store user mutated through Current() copy: %s", got)
	}
}

func TestOpenIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	s := Open(path)
	if s.Current() != nil {
		t.Errorf("corrupt session file should start anonymous")
	}
}
