// Package cache is the device-local key-value store backing offline
// resilience and fast cold starts. It holds exactly three kinds of values:
// the serialized ledger and goal per user, and the device-wide display
// preference. The remote store stays authoritative; the cache is overwritten
// on every snapshot delivery.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/ichika06/ojt-tracker/timelog"
)

const (
	logsKeyPrefix = "timeTrackerLogs_"
	goalKeyPrefix = "timeTrackerGoal_"
	darkModeKey   = "darkMode"
)

type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	store := &Store{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS cache_values (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}
	return nil
}

// SaveLedger serializes a ledger snapshot under the user's namespace.
func (s *Store) SaveLedger(userID string, entries []timelog.Entry) error {
	if entries == nil {
		entries = []timelog.Entry{}
	}
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cached ledger: %w", err)
	}
	return s.set(logsKeyPrefix+userID, string(blob))
}

// LoadLedger reads the cached snapshot for a user. The second return value
// is false when the user has no cached ledger.
func (s *Store) LoadLedger(userID string) ([]timelog.Entry, bool, error) {
	raw, ok, err := s.get(logsKeyPrefix + userID)
	if err != nil || !ok {
		return nil, false, err
	}

	var entries []timelog.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false, fmt.Errorf("decode cached ledger: %w", err)
	}
	return entries, true, nil
}

// SaveGoal caches the user's goal.
func (s *Store) SaveGoal(userID string, goal float64) error {
	return s.set(goalKeyPrefix+userID, strconv.FormatFloat(goal, 'f', -1, 64))
}

// LoadGoal reads the cached goal; ok is false when none is cached.
func (s *Store) LoadGoal(userID string) (float64, bool, error) {
	raw, ok, err := s.get(goalKeyPrefix + userID)
	if err != nil || !ok {
		return 0, false, err
	}

	goal, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode cached goal %q: %w", raw, err)
	}
	return goal, true, nil
}

// SaveDarkMode stores the device-wide display preference.
func (s *Store) SaveDarkMode(enabled bool) error {
	return s.set(darkModeKey, strconv.FormatBool(enabled))
}

// LoadDarkMode reads the display preference, defaulting to light.
func (s *Store) LoadDarkMode() (bool, error) {
	raw, ok, err := s.get(darkModeKey)
	if err != nil || !ok {
		return false, err
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("decode dark mode value %q: %w", raw, err)
	}
	return enabled, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO cache_values (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set cache value %q: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM cache_values WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cache value %q: %w", key, err)
	}
	return value, true, nil
}
