package core

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/codepair/codepair-server/internal/proto"
)

// Registry is the single source of truth for which sessions are
// attached to which room. Room entries are created on first Connect
// and deleted as soon as the last session leaves, so the map is
// bounded by the number of currently occupied rooms.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
	log   *zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]map[*Session]struct{}),
		log:   logger,
	}
}

// Connect adds a session to its room's member set, creating the set if
// absent. Room existence has already been decided by the store; the
// registry never refuses a connect.
func (r *Registry) Connect(sess *Session) {
	r.mu.Lock()
	members, ok := r.rooms[sess.RoomID]
	if !ok {
		members = make(map[*Session]struct{})
		r.rooms[sess.RoomID] = members
	}
	members[sess] = struct{}{}
	total := len(members)
	r.mu.Unlock()

	r.log.Info().
		Str("room_id", sess.RoomID).
		Str("session_id", sess.ID).
		Int("connections", total).
		Msg("session connected")
}

// Disconnect removes a session from its room and closes it. Calling it
// for a session that was already removed is a no-op, so the read-loop
// defer and a broadcast-failure cleanup may both invoke it. The room
// entry is deleted when its last member leaves.
func (r *Registry) Disconnect(sess *Session) {
	sess.Close()

	r.mu.Lock()
	members, ok := r.rooms[sess.RoomID]
	if !ok {
		r.mu.Unlock()
		return
	}
	if _, present := members[sess]; !present {
		r.mu.Unlock()
		return
	}
	delete(members, sess)
	remaining := len(members)
	if remaining == 0 {
		delete(r.rooms, sess.RoomID)
	}
	r.mu.Unlock()

	if remaining == 0 {
		r.log.Info().Str("room_id", sess.RoomID).Msg("room emptied, entry removed")
	} else {
		r.log.Info().
			Str("room_id", sess.RoomID).
			Str("session_id", sess.ID).
			Int("connections", remaining).
			Msg("session disconnected")
	}
}

// Broadcast serializes msg once and delivers it to every session in
// the room except exclude. A recipient whose send fails is scheduled
// for disconnection but never aborts delivery to the rest. Broadcasting
// to a room with no entry is a silent no-op: the room may have emptied
// between message receipt and dispatch.
func (r *Registry) Broadcast(roomID string, msg *proto.Message, exclude *Session) {
	frame, err := json.Marshal(msg)
	if err != nil {
		r.log.Error().Err(err).Str("room_id", roomID).Msg("marshal broadcast payload")
		return
	}

	var failed []*Session

	r.mu.RLock()
	members, ok := r.rooms[roomID]
	if !ok {
		r.mu.RUnlock()
		r.log.Debug().Str("room_id", roomID).Msg("broadcast to empty room")
		return
	}
	for sess := range members {
		if sess == exclude {
			continue
		}
		if !sess.TrySend(frame) {
			failed = append(failed, sess)
		}
	}
	r.mu.RUnlock()

	for _, sess := range failed {
		r.log.Warn().
			Str("room_id", roomID).
			Str("session_id", sess.ID).
			Msg("send failed during broadcast, dropping session")
		r.Disconnect(sess)
	}
}

// SendTo serializes msg and queues it for a single session, for replies
// that must reach the sender only.
func (r *Registry) SendTo(sess *Session, msg *proto.Message) bool {
	frame, err := json.Marshal(msg)
	if err != nil {
		r.log.Error().Err(err).Str("session_id", sess.ID).Msg("marshal direct payload")
		return false
	}
	return sess.TrySend(frame)
}

// RoomSize returns the number of sessions attached to roomID.
func (r *Registry) RoomSize(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// RoomCount returns the number of rooms with at least one session.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// HasRoom reports whether roomID currently has an entry.
func (r *Registry) HasRoom(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID]
	return ok
}
