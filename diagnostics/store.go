package diagnostics

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store persists query trails per session using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new trail store with the given database path.
// ":memory:" keeps the trail in memory for the life of the process.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps an in-memory database shared by every
	// caller.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the query_log table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS query_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		entry TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_query_log_session ON query_log(session_id, id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records entry for the session.
func (s *Store) Append(sessionID uuid.UUID, entry string) error {
	_, err := s.db.Exec(
		`INSERT INTO query_log (session_id, entry, recorded_at) VALUES (?, ?, ?)`,
		sessionID.String(), entry, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

// Last returns up to n of the session's most recent entries, oldest first.
func (s *Store) Last(sessionID uuid.UUID, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultLast
	}
	rows, err := s.db.Query(
		`SELECT entry FROM (
			SELECT id, entry FROM query_log WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		sessionID.String(), n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []string{}
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear deletes every entry of the session.
func (s *Store) Clear(sessionID uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM query_log WHERE session_id = ?`, sessionID.String()); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

// SessionLog adapts a Store to Log for a single session. Store failures are
// logged and otherwise ignored.
type SessionLog struct {
	store     *Store
	sessionID uuid.UUID
	logger    *zap.Logger
}

// NewSessionLog returns the Log of one session backed by store.
func NewSessionLog(store *Store, sessionID uuid.UUID, logger *zap.Logger) *SessionLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionLog{store: store, sessionID: sessionID, logger: logger}
}

func (l *SessionLog) Record(entry string) {
	if err := l.store.Append(l.sessionID, entry); err != nil {
		l.logger.Warn("failed to record query", zap.Stringer("session", l.sessionID), zap.Error(err))
	}
}

func (l *SessionLog) Last(n int) []string {
	entries, err := l.store.Last(l.sessionID, n)
	if err != nil {
		l.logger.Warn("failed to read query trail", zap.Stringer("session", l.sessionID), zap.Error(err))
		return nil
	}
	return entries
}

func (l *SessionLog) Reset() {
	if err := l.store.Clear(l.sessionID); err != nil {
		l.logger.Warn("failed to clear query trail", zap.Stringer("session", l.sessionID), zap.Error(err))
	}
}
