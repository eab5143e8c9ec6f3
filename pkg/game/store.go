package game

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SessionResult is the server-side summary of one finished session.
// The server never runs the canonical simulation, so results are about
// the session itself, not snake scores.
type SessionResult struct {
	ID      string
	Started time.Time
	Ended   time.Time
	Clients int
	Ticks   int
	Desyncs int
}

// ClientResult records one client's fate within a session. DroppedTurn
// is -1 for a client that stayed until shutdown.
type ClientResult struct {
	SessionID   string
	ClientID    int
	RemoteAddr  string
	DroppedTurn int
	Dead        bool
}

// Store persists session results in a sqlite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the results database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME,
			ended_at DATETIME,
			clients INTEGER,
			ticks INTEGER,
			desyncs INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS session_clients (
			session_id TEXT,
			client_id INTEGER,
			remote_addr TEXT,
			dropped_turn INTEGER,
			dead INTEGER,
			PRIMARY KEY (session_id, client_id)
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// SaveSession writes a finished session and its clients in one transaction.
func (s *Store) SaveSession(res SessionResult, clients []ClientResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, started_at, ended_at, clients, ticks, desyncs) VALUES (?, ?, ?, ?, ?, ?)`,
		res.ID, res.Started, res.Ended, res.Clients, res.Ticks, res.Desyncs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for _, c := range clients {
		_, err = tx.Exec(
			`INSERT INTO session_clients (session_id, client_id, remote_addr, dropped_turn, dead) VALUES (?, ?, ?, ?, ?)`,
			c.SessionID, c.ClientID, c.RemoteAddr, c.DroppedTurn, c.Dead,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session client: %w", err)
		}
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
