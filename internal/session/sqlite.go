package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/trivia/internal/view"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// SQLiteStore keeps view state in a SQLite database so it survives restarts
// of the frontend when the DSN points at a file.
type SQLiteStore struct {
	conn *sql.DB
	now  func() time.Time
}

// OpenSQLite opens the database at dsn and ensures the schema exists.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// A single connection serialises updates and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to session database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply session schema: %w", err)
	}

	return &SQLiteStore{conn: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Ping checks the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Get returns the state of a session, or a fresh state if there is none.
// Reading a session counts as activity.
func (s *SQLiteStore) Get(ctx context.Context, id string) (view.State, error) {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE sessions SET updated_at = ? WHERE id = ?
	`, s.now().Unix(), id)
	if err != nil {
		return view.State{}, fmt.Errorf("failed to touch session %s: %w", id, err)
	}
	return load(ctx, s.conn, id)
}

// Update applies fn to the session's state inside a transaction.
func (s *SQLiteStore) Update(ctx context.Context, id string, fn func(*view.State) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session update %s: %w", id, err)
	}
	defer tx.Rollback()

	st, err := load(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := fn(&st); err != nil {
		return err
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`, id, string(data), s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session %s: %w", id, err)
	}
	return nil
}

// Expire removes sessions last used before cutoff.
func (s *SQLiteStore) Expire(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.conn.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE updated_at < ?
	`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to expire sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired sessions: %w", err)
	}
	return int(n), nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func load(ctx context.Context, q querier, id string) (view.State, error) {
	var data string
	err := q.QueryRowContext(ctx, `
		SELECT state FROM sessions WHERE id = ?
	`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return view.NewState(), nil
		}
		return view.State{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	st := view.NewState()
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return view.State{}, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	if st.Visible == nil {
		st.Visible = map[int]bool{}
	}
	return st, nil
}
