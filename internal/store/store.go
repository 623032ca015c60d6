package store

import (
	"context"
	"errors"
	"time"
)

// ErrRoomNotFound is returned when a room id has no row in the store.
var ErrRoomNotFound = errors.New("room not found")

// Room is a persisted collaboration room.
type Room struct {
	ID        int64
	RoomID    string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomStore handles room persistence. The collaboration core only
// needs Exists, GetCode and UpdateCode; the REST layer uses the rest.
type RoomStore interface {
	// CreateRoom creates a room with a fresh unique room id and empty code.
	CreateRoom(ctx context.Context) (*Room, error)

	// GetRoom retrieves a room by its public room id.
	// Returns ErrRoomNotFound if no such room exists.
	GetRoom(ctx context.Context, roomID string) (*Room, error)

	// Exists reports whether a room with the given id exists.
	Exists(ctx context.Context, roomID string) (bool, error)

	// GetCode returns the current document content for a room.
	// Returns ErrRoomNotFound if no such room exists.
	GetCode(ctx context.Context, roomID string) (string, error)

	// UpdateCode replaces the document content (last-write-wins).
	// Returns ErrRoomNotFound if no such room exists.
	UpdateCode(ctx context.Context, roomID, code string) error

	// Close closes the underlying database connection.
	Close() error
}
