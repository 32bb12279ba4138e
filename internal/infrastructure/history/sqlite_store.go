// Package history persists the command audit trail in SQLite. Only command
// proposals are recorded; conversation turns never reach this store.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/pkg/filesystem"
	"github.com/doeshing/voco/internal/ports"
)

// SQLiteStore persists proposal outcomes in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens (creating if needed) the database at path. An empty
// path defaults to ~/.voco/history.db.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS proposals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		timestamp TEXT,
		utterance TEXT,
		command TEXT,
		summary TEXT,
		final_state TEXT,
		risk_level TEXT,
		exit_code INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save inserts a new audit record.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO proposals
		(session_id, timestamp, utterance, command, summary, final_state, risk_level, exit_code, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.SessionID,
		record.Timestamp.Format(time.RFC3339),
		record.Utterance,
		record.Command,
		record.Summary,
		string(record.FinalState),
		string(record.RiskLevel),
		record.ExitCode,
		record.Duration.Milliseconds(),
	)
	return err
}

// List returns the most recent records, newest first.
func (s *SQLiteStore) List(limit int) ([]domain.HistoryRecord, error) {
	query := `SELECT session_id, timestamp, utterance, command, summary, final_state, risk_level, exit_code, duration_ms
		FROM proposals ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, state, risk string
		var durationMS int64
		if err := rows.Scan(&rec.SessionID, &ts, &rec.Utterance, &rec.Command, &rec.Summary, &state, &risk, &rec.ExitCode, &durationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.FinalState = domain.ProposalState(state)
		rec.RiskLevel = domain.RiskLevel(risk)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all audit records.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM proposals")
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.path
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".voco", "history.db")
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
