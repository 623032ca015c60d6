package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/codepair/codepair-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id    TEXT NOT NULL UNIQUE,
	code       TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rooms_created_at ON rooms(created_at);
`

// roomIDLength is the length of the public room identifier, a uuid prefix.
const roomIDLength = 8

// SQLiteStore implements store.RoomStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and applies the
// schema. Use ":memory:" for tests.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRoom inserts a room with a fresh 8-character id and empty code.
// A collision on the generated id is vanishingly unlikely but retried anyway.
func (s *SQLiteStore) CreateRoom(ctx context.Context) (*store.Room, error) {
	for {
		roomID := uuid.NewString()[:roomIDLength]

		exists, err := s.Exists(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		query := `INSERT INTO rooms (room_id, code) VALUES (?, '')`
		if _, err := s.db.ExecContext(ctx, query, roomID); err != nil {
			return nil, fmt.Errorf("insert room: %w", err)
		}

		return s.GetRoom(ctx, roomID)
	}
}

// GetRoom retrieves a room by its public room id.
func (s *SQLiteStore) GetRoom(ctx context.Context, roomID string) (*store.Room, error) {
	query := `
		SELECT id, room_id, code, created_at, updated_at
		FROM rooms
		WHERE room_id = ?
	`
	var room store.Room
	err := s.db.QueryRowContext(ctx, query, roomID).Scan(
		&room.ID,
		&room.RoomID,
		&room.Code,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select room: %w", err)
	}
	return &room, nil
}

// Exists reports whether a room with the given id exists.
func (s *SQLiteStore) Exists(ctx context.Context, roomID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE room_id = ?`, roomID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check room exists: %w", err)
	}
	return true, nil
}

// GetCode returns the current document content for a room.
func (s *SQLiteStore) GetCode(ctx context.Context, roomID string) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx, `SELECT code FROM rooms WHERE room_id = ?`, roomID).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrRoomNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select code: %w", err)
	}
	return code, nil
}

// UpdateCode replaces the document content. Last write wins; no merge.
func (s *SQLiteStore) UpdateCode(ctx context.Context, roomID, code string) error {
	query := `
		UPDATE rooms
		SET code = ?, updated_at = CURRENT_TIMESTAMP
		WHERE room_id = ?
	`
	result, err := s.db.ExecContext(ctx, query, code, roomID)
	if err != nil {
		return fmt.Errorf("update code: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrRoomNotFound
	}
	return nil
}
