package workspace

import (
	"context"
	"testing"

	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/models"
)

func TestShareManager_InvalidEmailNeverReachesBackend(t *testing.T) {
	called := false
	svc := &fakeBackend{
		shareTask: func(context.Context, int64, string, string) (*models.TaskShare, error) {
			called = true
			return nil, nil
		},
	}
	m := NewShareManager(svc, 1, logging.Nop(), nil)

	m.Share(context.Background(), "not-an-email", models.PermissionView)
	if called {
		t.Fatal("invalid email reached the backend")
	}
	if m.Err() != "Enter a valid email address" {
		t.Fatalf("Err() = %q", m.Err())
	}
}

func TestShareManager_SuccessRefreshesList(t *testing.T) {
	svc := &fakeBackend{
		listShares: func(context.Context, int64) ([]models.TaskShare, error) {
			return []models.TaskShare{{ID: 1, SharedWithEmail: "friend@example.com", Permission: models.PermissionView}}, nil
		},
	}
	m := NewShareManager(svc, 1, logging.Nop(), nil)

	m.Share(context.Background(), "friend@example.com", models.PermissionView)
	if m.Err() != "" {
		t.Fatalf("Err() = %q, want empty", m.Err())
	}
	if m.Success() != "Task shared with friend@example.com" {
		t.Fatalf("Success() = %q", m.Success())
	}
	if len(m.Shares()) != 1 {
		t.Fatalf("got %d shares, want 1", len(m.Shares()))
	}
}

func TestShareManager_BackendDetailSurfacesInline(t *testing.T) {
	svc := &fakeBackend{
		shareTask: func(context.Context, int64, string, string) (*models.TaskShare, error) {
			return nil, &api.Error{StatusCode: 400, Message: "Task already shared with this user"}
		},
	}
	m := NewShareManager(svc, 1, logging.Nop(), nil)

	m.Share(context.Background(), "friend@example.com", models.PermissionEdit)
	if m.Err() != "Task already shared with this user" {
		t.Fatalf("Err() = %q, want the backend detail", m.Err())
	}
	if m.Success() != "" {
		t.Fatalf("Success() = %q, want empty", m.Success())
	}
}

func TestShareManager_Revoke(t *testing.T) {
	revoked := int64(0)
	svc := &fakeBackend{
		revokeShare: func(_ context.Context, _ int64, shareID int64) error {
			revoked = shareID
			return nil
		},
	}
	m := NewShareManager(svc, 1, logging.Nop(), nil)

	m.Revoke(context.Background(), 42, "friend@example.com")
	if revoked != 42 {
		t.Fatalf("revoked share %d, want 42", revoked)
	}
	if m.Success() != "Access revoked for friend@example.com" {
		t.Fatalf("Success() = %q", m.Success())
	}
}

func TestShareManager_ClearMessages(t *testing.T) {
	m := NewShareManager(&fakeBackend{}, 1, logging.Nop(), nil)

	m.Share(context.Background(), "bogus", models.PermissionView)
	if m.Err() == "" {
		t.Fatal("expected an inline error")
	}
	m.ClearMessages()
	if m.Err() != "" || m.Success() != "" {
		t.Fatal("messages not cleared")
	}
}
