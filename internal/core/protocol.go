package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/codepair/codepair-server/internal/proto"
	"github.com/codepair/codepair-server/internal/store"
)

// Protocol interprets inbound frames, enforces the message contract and
// decides the resulting side effect. It is stateless between messages;
// every frame is processed and discarded.
//
// Conflict policy is last-write-wins: the most recent UpdateCode call
// to reach the store replaces the document. The client timestamp is
// opaque here and only echoed back for client-side display.
type Protocol struct {
	registry *Registry
	store    store.RoomStore
	log      *zerolog.Logger
}

// NewProtocol wires the dispatcher to the registry and the room store.
func NewProtocol(registry *Registry, st store.RoomStore, logger *zerolog.Logger) *Protocol {
	return &Protocol{
		registry: registry,
		store:    st,
		log:      logger,
	}
}

// HandleFrame processes one raw frame received from sess. Protocol and
// store failures are answered in-band with an error message to the
// sender only; the connection stays open in every case.
func (p *Protocol) HandleFrame(ctx context.Context, sess *Session, raw []byte) {
	var msg proto.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		p.log.Warn().
			Err(err).
			Str("room_id", sess.RoomID).
			Str("session_id", sess.ID).
			Msg("invalid json frame")
		p.registry.SendTo(sess, proto.NewError("Invalid JSON format"))
		return
	}

	switch msg.Type {
	case proto.TypeCodeUpdate:
		p.handleCodeUpdate(ctx, sess, &msg)
	default:
		p.log.Warn().
			Str("room_id", sess.RoomID).
			Str("type", msg.Type).
			Msg("unknown message type")
		p.registry.SendTo(sess, proto.NewError(fmt.Sprintf("Unknown message type: %s", msg.Type)))
	}
}

func (p *Protocol) handleCodeUpdate(ctx context.Context, sess *Session, msg *proto.Message) {
	if msg.Code == nil {
		p.log.Warn().
			Str("room_id", sess.RoomID).
			Str("session_id", sess.ID).
			Msg("code_update without code field")
		p.registry.SendTo(sess, proto.NewError("Missing 'code' field in code_update message"))
		return
	}

	if err := p.store.UpdateCode(ctx, sess.RoomID, *msg.Code); err != nil {
		p.log.Error().
			Err(err).
			Str("room_id", sess.RoomID).
			Msg("update room code")
		p.registry.SendTo(sess, proto.NewError("Failed to update room code"))
		return
	}

	p.registry.Broadcast(sess.RoomID, proto.NewCodeUpdate(*msg.Code, msg.Timestamp), sess)
	p.log.Debug().
		Str("room_id", sess.RoomID).
		Str("session_id", sess.ID).
		Msg("code update broadcast")
}

// SendInitialState pushes the current document to a freshly connected
// session. A read failure is reported in-band and leaves the session
// connected; the peer can still edit.
func (p *Protocol) SendInitialState(ctx context.Context, sess *Session) {
	code, err := p.store.GetCode(ctx, sess.RoomID)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			p.log.Warn().Str("room_id", sess.RoomID).Msg("initial state for missing room")
			p.registry.SendTo(sess, proto.NewError("Room not found"))
			return
		}
		p.log.Error().Err(err).Str("room_id", sess.RoomID).Msg("read initial state")
		p.registry.SendTo(sess, proto.NewError("Failed to retrieve initial state"))
		return
	}

	p.registry.SendTo(sess, proto.NewInitialState(sess.RoomID, code))
}
