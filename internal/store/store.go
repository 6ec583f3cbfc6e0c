// Package store provides the SQLite-backed local key-value store that holds
// the plan draft and the cached remote trip id.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Well-known keys.
const (
	KeyDraft         = "trip-planner-draft"
	KeyDraftTime     = "trip-planner-draft-time"
	KeyCurrentTripID = "current-trip-id"
)

var (
	// ErrNoDraft is returned by LoadDraft when nothing has been saved.
	ErrNoDraft = errors.New("store: no draft")
	// ErrCorruptDraft is returned by LoadDraft when the draft cannot be parsed.
	ErrCorruptDraft = errors.New("store: corrupt draft")
)

// Store is a small persistent key-value table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the store database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the store database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)",
		key, value, s.now().UTC().Format(time.RFC3339))
	return err
}

// Delete removes the given keys.
func (s *Store) Delete(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, k := range keys {
		if _, err := tx.Exec("DELETE FROM kv WHERE key = ?", k); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveDraft writes the itinerary and the time of writing in one transaction.
func (s *Store) SaveDraft(it model.Itinerary) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC()
	stamp := now.Format(time.RFC3339)
	if _, err := tx.Exec("INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)",
		KeyDraft, string(payload), stamp); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)",
		KeyDraftTime, now.Format(time.RFC3339Nano), stamp); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadDraft returns the saved itinerary and when it was written.
func (s *Store) LoadDraft() (model.Itinerary, time.Time, error) {
	return s.LoadDraftOnto(model.Itinerary{})
}

// LoadDraftOnto applies the saved draft on top of base, keeping whatever
// the draft leaves out.
func (s *Store) LoadDraftOnto(base model.Itinerary) (model.Itinerary, time.Time, error) {
	raw, ok, err := s.Get(KeyDraft)
	if err != nil {
		return model.Itinerary{}, time.Time{}, err
	}
	if !ok {
		return model.Itinerary{}, time.Time{}, ErrNoDraft
	}
	it, err := base.Overlay([]byte(raw))
	if err != nil {
		return model.Itinerary{}, time.Time{}, fmt.Errorf("%w: %v", ErrCorruptDraft, err)
	}

	var at time.Time
	if stamp, ok, _ := s.Get(KeyDraftTime); ok {
		at, _ = time.Parse(time.RFC3339Nano, stamp)
	}
	return it, at, nil
}

// ClearDraft removes the draft and its timestamp.
func (s *Store) ClearDraft() error {
	return s.Delete(KeyDraft, KeyDraftTime)
}

// CurrentTripID returns the server id cached by the last successful save.
func (s *Store) CurrentTripID() (int64, bool, error) {
	raw, ok, err := s.Get(KeyCurrentTripID)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, nil
	}
	return id, true, nil
}

// SetCurrentTripID caches the server id of the trip being edited.
func (s *Store) SetCurrentTripID(id int64) error {
	return s.Set(KeyCurrentTripID, strconv.FormatInt(id, 10))
}

// ClearCurrentTripID forgets the cached server id.
func (s *Store) ClearCurrentTripID() error {
	return s.Delete(KeyCurrentTripID)
}
