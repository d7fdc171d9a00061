// Package session persists local client state (auth token, last
// opened task) in a small sqlite database under the XDG data
// directory. Nothing owned by the backend is cached here.
package session

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Setting keys
const (
	keyToken      = "auth_token"
	keyEmail      = "auth_email"
	keyLastTaskID = "last_task_id"
)

// Store wraps the local state database
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the local state database
func Open() (*Store, error) {
	path, err := statePath()
	if err != nil {
		return nil, err
	}
	return OpenPath(path)
}

// OpenPath opens the database at an explicit path; used in tests
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db}, nil
}

// statePath returns the path to the database file
func statePath() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "taskdesk")
	if err := os.MkdirAll(appDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(appDir, "taskdesk.db"), nil
}

// GetSetting retrieves a setting value by key
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (s *Store) SetSetting(key, value string) error {
	_, err := s.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// DeleteSetting removes a setting
func (s *Store) DeleteSetting(key string) error {
	_, err := s.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// Token returns the stored bearer token, empty when logged out
func (s *Store) Token() (string, error) {
	return s.GetSetting(keyToken)
}

// SetCredentials stores the bearer token and account email after login
func (s *Store) SetCredentials(email, token string) error {
	if err := s.SetSetting(keyEmail, email); err != nil {
		return err
	}
	return s.SetSetting(keyToken, token)
}

// Email returns the logged-in account email, if any
func (s *Store) Email() (string, error) {
	return s.GetSetting(keyEmail)
}

// ClearCredentials forgets the stored token and email
func (s *Store) ClearCredentials() error {
	if err := s.DeleteSetting(keyToken); err != nil {
		return err
	}
	return s.DeleteSetting(keyEmail)
}

// LastTaskID returns the last opened task, 0 when unset
func (s *Store) LastTaskID() (int64, error) {
	value, err := s.GetSetting(keyLastTaskID)
	if err != nil || value == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return id, nil
}

// SetLastTaskID remembers the last opened task
func (s *Store) SetLastTaskID(id int64) error {
	if id == 0 {
		return s.DeleteSetting(keyLastTaskID)
	}
	return s.SetSetting(keyLastTaskID, strconv.FormatInt(id, 10))
}
