package session

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Credentials(t *testing.T) {
	s := openTestStore(t)

	token, err := s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "" {
		t.Fatalf("fresh store has token %q", token)
	}

	if err := s.SetCredentials("me@example.com", "jwt123"); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}
	token, _ = s.Token()
	if token != "jwt123" {
		t.Fatalf("Token = %q", token)
	}
	email, _ := s.Email()
	if email != "me@example.com" {
		t.Fatalf("Email = %q", email)
	}

	if err := s.ClearCredentials(); err != nil {
		t.Fatalf("ClearCredentials: %v", err)
	}
	token, _ = s.Token()
	email, _ = s.Email()
	if token != "" || email != "" {
		t.Fatalf("credentials survived clear: %q %q", token, email)
	}
}

func TestStore_SetSettingUpserts(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSetting("k", "v1"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting("k", "v2"); err != nil {
		t.Fatalf("SetSetting again: %v", err)
	}
	got, err := s.GetSetting("k")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "v2" {
		t.Fatalf("GetSetting = %q, want v2", got)
	}
}

func TestStore_LastTaskID(t *testing.T) {
	s := openTestStore(t)

	id, err := s.LastTaskID()
	if err != nil {
		t.Fatalf("LastTaskID: %v", err)
	}
	if id != 0 {
		t.Fatalf("fresh store last task = %d", id)
	}

	if err := s.SetLastTaskID(42); err != nil {
		t.Fatalf("SetLastTaskID: %v", err)
	}
	id, _ = s.LastTaskID()
	if id != 42 {
		t.Fatalf("LastTaskID = %d, want 42", id)
	}

	if err := s.SetLastTaskID(0); err != nil {
		t.Fatalf("SetLastTaskID(0): %v", err)
	}
	id, _ = s.LastTaskID()
	if id != 0 {
		t.Fatalf("LastTaskID after reset = %d", id)
	}
}

func TestStore_CorruptLastTaskIDIgnored(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSetting("last_task_id", "not-a-number"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	id, err := s.LastTaskID()
	if err != nil {
		t.Fatalf("LastTaskID: %v", err)
	}
	if id != 0 {
		t.Fatalf("corrupt value parsed to %d", id)
	}
}
