package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/codepair/codepair-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateRoom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	room, err := s.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if len(room.RoomID) != 8 {
		t.Errorf("expected 8-char room id, got %q", room.RoomID)
	}
	if room.Code != "" {
		t.Errorf("new room should have empty code, got %q", room.Code)
	}

	exists, err := s.Exists(ctx, room.RoomID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("created room should exist")
	}

	// Ids are unique across rooms.
	other, err := s.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create second room: %v", err)
	}
	if other.RoomID == room.RoomID {
		t.Errorf("room ids must be unique, both %q", room.RoomID)
	}
}

func TestUpdateCodeLastWriteWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	room, err := s.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if err := s.UpdateCode(ctx, room.RoomID, "first"); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := s.UpdateCode(ctx, room.RoomID, "second"); err != nil {
		t.Fatalf("second update: %v", err)
	}

	code, err := s.GetCode(ctx, room.RoomID)
	if err != nil {
		t.Fatalf("get code: %v", err)
	}
	if code != "second" {
		t.Errorf("expected last write to win, got %q", code)
	}
}

func TestUpdateCodeUnknownRoom(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateCode(context.Background(), "nonexist1", "x")
	if !errors.Is(err, store.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestGetCodeUnknownRoom(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCode(context.Background(), "nonexist1")
	if !errors.Is(err, store.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestGetRoomRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if err := s.UpdateCode(ctx, created.RoomID, "x = 1"); err != nil {
		t.Fatalf("update code: %v", err)
	}

	got, err := s.GetRoom(ctx, created.RoomID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if got.Code != "x = 1" {
		t.Errorf("expected code 'x = 1', got %q", got.Code)
	}
	if got.ID != created.ID {
		t.Errorf("expected id %d, got %d", created.ID, got.ID)
	}

	_, err = s.GetRoom(ctx, "missing99")
	if !errors.Is(err, store.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestExistsUnknownRoom(t *testing.T) {
	s := newTestStore(t)

	exists, err := s.Exists(context.Background(), "nonexist1")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("unknown room must not exist")
	}
}
