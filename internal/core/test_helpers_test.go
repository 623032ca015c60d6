package core

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/codepair/codepair-server/internal/proto"
	"github.com/codepair/codepair-server/internal/store"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

// fakeStore is an in-memory RoomStore for protocol tests.
type fakeStore struct {
	mu          sync.Mutex
	code        map[string]string
	failUpdate  bool
	failGet     bool
	updateCalls []string
}

func newFakeStore(rooms ...string) *fakeStore {
	code := make(map[string]string)
	for _, r := range rooms {
		code[r] = ""
	}
	return &fakeStore{code: code}
}

func (f *fakeStore) CreateRoom(context.Context) (*store.Room, error) {
	panic("not used in tests")
}

func (f *fakeStore) GetRoom(_ context.Context, roomID string) (*store.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.code[roomID]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return &store.Room{RoomID: roomID, Code: code}, nil
}

func (f *fakeStore) Exists(_ context.Context, roomID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.code[roomID]
	return ok, nil
}

func (f *fakeStore) GetCode(_ context.Context, roomID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return "", errTestStore
	}
	code, ok := f.code[roomID]
	if !ok {
		return "", store.ErrRoomNotFound
	}
	return code, nil
}

func (f *fakeStore) UpdateCode(_ context.Context, roomID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errTestStore
	}
	if _, ok := f.code[roomID]; !ok {
		return store.ErrRoomNotFound
	}
	f.code[roomID] = code
	f.updateCalls = append(f.updateCalls, roomID+"|"+code)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) updates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.updateCalls))
	copy(out, f.updateCalls)
	return out
}

type testStoreError struct{}

func (testStoreError) Error() string { return "store unavailable" }

var errTestStore = testStoreError{}

// mustReceive waits for one frame on the session's outbound channel and
// decodes it.
func mustReceive(t *testing.T, sess *Session) *proto.Message {
	t.Helper()

	select {
	case frame := <-sess.outbound:
		var msg proto.Message
		if err := json.Unmarshal(frame, &msg); err != nil {
			t.Fatalf("unmarshal outbound frame: %v", err)
		}
		return &msg
	case <-time.After(2 * time.Second):
		t.Fatal("expected outbound frame not received")
		return nil
	}
}

// mustBeSilent asserts that no frame is queued for the session.
func mustBeSilent(t *testing.T, sess *Session) {
	t.Helper()

	select {
	case frame := <-sess.outbound:
		t.Fatalf("unexpected outbound frame: %s", frame)
	default:
	}
}
