// Package localstate persists session state between process restarts: the
// "is signed in" flag and the cached user, stored as JSON text in a
// single-file sqlite database.
package localstate

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mach10-org/mach-app/internal/models"
)

const (
	keyConnected = "isConnected"
	keyUser      = "user"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local state (path: %s): %w", path, err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init local state schema (path: %s): %w", path, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Connected reports the persisted signed-in flag; a missing entry means
// signed out.
func (s *Store) Connected() (bool, error) {
	var connected bool
	ok, err := s.get(keyConnected, &connected)
	if err != nil || !ok {
		return false, err
	}
	return connected, nil
}

func (s *Store) SetConnected(connected bool) error {
	return s.set(keyConnected, connected)
}

// User returns the cached user, or nil when none is stored.
func (s *Store) User() (*models.User, error) {
	var user *models.User
	if _, err := s.get(keyUser, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUser replaces the cached user. A nil user is stored as JSON null, which
// reads back as no user.
func (s *Store) SetUser(user *models.User) error {
	return s.set(keyUser, user)
}

func (s *Store) get(key string, dest any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read local state (key: %s): %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode local state (key: %s): %w", key, err)
	}
	return true, nil
}

func (s *Store) set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode local state (key: %s): %w", key, err)
	}

	const query = `
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.Exec(query, key, string(raw)); err != nil {
		return fmt.Errorf("write local state (key: %s): %w", key, err)
	}
	return nil
}
