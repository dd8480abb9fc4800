package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	pmerror "github.com/msto63/parmacl/foundation/core/error"
)

// ArgRecord is the stored form of one parsed argument
type ArgRecord struct {
	Option   bool   `json:"option"`
	Code     string `json:"code,omitempty"`
	Value    string `json:"value,omitempty"`
	HasValue bool   `json:"has_value,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// Entry is one parsed command line
type Entry struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Line      string      `json:"line"`
	ArgCount  int         `json:"arg_count"`
	Args      []ArgRecord `json:"args,omitempty"`
	ErrorID   string      `json:"error_id,omitempty"`
	ErrorText string      `json:"error_text,omitempty"`
}

// Failed reports whether the line could not be parsed
func (e *Entry) Failed() bool {
	return e.ErrorID != ""
}

// Filter selects entries for Recent
type Filter struct {
	SessionID  string
	FailedOnly bool
	Since      time.Time
	Limit      int
}

// Stats summarizes the store contents
type Stats struct {
	Total    int64
	Failed   int64
	Sessions int64
	Last     time.Time
}

// Store persists parsed command lines
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, filter Filter) ([]*Entry, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string // database file, or ":memory:"
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/history.db",
	}
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and if needed creates) a SQLite history store
func New(cfg Config) (*SQLiteStore, error) {
	dsn := ":memory:"
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, pmerror.Wrap(err, "failed to create history directory").
				WithCode(pmerror.CodeDatabaseError).
				WithOperation("history.New").
				WithDetail("path", cfg.Path)
		}
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, pmerror.Wrap(err, "failed to open history database").
			WithCode(pmerror.CodeDatabaseError).
			WithOperation("history.New").
			WithDetail("path", cfg.Path)
	}
	if cfg.Path == ":memory:" {
		// every connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, pmerror.Wrap(err, "failed to initialize history schema").
			WithCode(pmerror.CodeDatabaseError).
			WithOperation("history.New")
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		line TEXT NOT NULL,
		arg_count INTEGER NOT NULL,
		args TEXT,
		error_id TEXT,
		error_text TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id);
	CREATE INDEX IF NOT EXISTS idx_history_error ON history(error_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores an entry, assigning an ID and timestamp when missing
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	// stored as text; a single zone keeps ordering and range queries correct
	entry.Timestamp = entry.Timestamp.UTC()

	var argsJSON []byte
	if len(entry.Args) > 0 {
		var err error
		if argsJSON, err = json.Marshal(entry.Args); err != nil {
			return pmerror.Wrap(err, "failed to encode history args").
				WithCode(pmerror.CodeInternal).
				WithOperation("history.Record")
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, session_id, timestamp, line, arg_count, args, error_id, error_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.SessionID, entry.Timestamp, entry.Line, entry.ArgCount, nullString(string(argsJSON)),
		nullString(entry.ErrorID), nullString(entry.ErrorText))
	if err != nil {
		return pmerror.Wrap(err, "failed to insert history entry").
			WithCode(pmerror.CodeDatabaseError).
			WithOperation("history.Record").
			WithDetail("id", entry.ID)
	}
	return nil
}

// Recent returns matching entries, newest first
func (s *SQLiteStore) Recent(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, session_id, timestamp, line, arg_count, args, error_id, error_text FROM history WHERE 1=1`
	var args []interface{}

	if filter.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}
	if filter.FailedOnly {
		query += " AND error_id IS NOT NULL"
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pmerror.Wrap(err, "failed to query history").
			WithCode(pmerror.CodeDatabaseError).
			WithOperation("history.Recent")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var argsJSON, errorID, errorText sql.NullString

		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Timestamp, &entry.Line,
			&entry.ArgCount, &argsJSON, &errorID, &errorText); err != nil {
			return nil, pmerror.Wrap(err, "failed to scan history entry").
				WithCode(pmerror.CodeDatabaseError).
				WithOperation("history.Recent")
		}

		if argsJSON.Valid {
			if err := json.Unmarshal([]byte(argsJSON.String), &entry.Args); err != nil {
				return nil, pmerror.Wrap(err, "failed to decode history args").
					WithCode(pmerror.CodeDatabaseError).
					WithOperation("history.Recent").
					WithDetail("id", entry.ID)
			}
		}
		entry.ErrorID = errorID.String
		entry.ErrorText = errorText.String

		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, pmerror.Wrap(err, "failed to read history").
			WithCode(pmerror.CodeDatabaseError).
			WithOperation("history.Recent")
	}

	return entries, nil
}

// Stats returns entry counts and the time of the newest entry
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(error_id),
		       COUNT(DISTINCT session_id)
		FROM history
	`).Scan(&stats.Total, &stats.Failed, &stats.Sessions)
	if err != nil {
		return nil, pmerror.Wrap(err, "failed to read history stats").
			WithCode(pmerror.CodeDatabaseError).
			WithOperation("history.Stats")
	}

	if stats.Total > 0 {
		var last time.Time
		err := s.db.QueryRowContext(ctx, `SELECT timestamp FROM history ORDER BY timestamp DESC, rowid DESC LIMIT 1`).Scan(&last)
		if err != nil {
			return nil, pmerror.Wrap(err, "failed to read last history entry").
				WithCode(pmerror.CodeDatabaseError).
				WithOperation("history.Stats")
		}
		stats.Last = last
	}
	return stats, nil
}

// Prune removes entries older than the specified duration
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, pmerror.Wrap(err, "failed to prune history").
			WithCode(pmerror.CodeDatabaseError).
			WithOperation("history.Prune")
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
