package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/codepair/codepair-server/internal/config"
	"github.com/codepair/codepair-server/internal/core"
	"github.com/codepair/codepair-server/internal/proto"
	"github.com/codepair/codepair-server/internal/store"
	"github.com/codepair/codepair-server/internal/utils"
)

// statusRoomNotFound is the application close code sent when a client
// connects to a room that does not exist.
const statusRoomNotFound = websocket.StatusCode(4004)

// WSHandler bridges websocket connections to the collaboration core:
// it validates the target room, registers a session and drives the
// per-connection read and write loops.
type WSHandler struct {
	registry *core.Registry
	protocol *core.Protocol
	store    store.RoomStore
	cfg      *config.Config
	log      *zerolog.Logger
}

// NewWSHandler builds a new websocket handler.
func NewWSHandler(
	registry *core.Registry,
	protocol *core.Protocol,
	st store.RoomStore,
	cfg *config.Config,
	logger *zerolog.Logger,
) *WSHandler {
	return &WSHandler{
		registry: registry,
		protocol: protocol,
		store:    st,
		cfg:      cfg,
		log:      logger,
	}
}

// Handle serves GET /ws/:roomId.
func (h *WSHandler) Handle(c *gin.Context) {
	roomID := c.Param("roomId")
	ctx := c.Request.Context()

	// Room existence is decided by the store before any session exists;
	// the registry never holds a session for an unknown room.
	exists, err := h.store.Exists(ctx, roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("room existence check failed")
		c.JSON(stdhttp.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}

	if !exists {
		h.log.Warn().Str("room_id", roomID).Msg("ws connection rejected: unknown room")
		conn.Close(statusRoomNotFound, "room not found")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	conn.SetReadLimit(h.cfg.MaxMessageBytes)

	sess := core.NewSession(utils.NewID(), roomID, h.cfg.SessionBuffer)
	h.registry.Connect(sess)
	defer h.registry.Disconnect(sess)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := newRateLimiter(h.cfg.WSMessagesPerMin)
	limiter.startReset(ctx.Done())

	// The snapshot is queued before the first inbound frame can be
	// dispatched, so a newcomer always sees initial_state first.
	h.protocol.SendInitialState(ctx, sess)

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, sess, limiter)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sess)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = "transport error"
			h.log.Warn().Err(err).Str("session_id", sess.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session, limiter *rateLimiter) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		if !limiter.allow() {
			h.log.Warn().
				Str("room_id", sess.RoomID).
				Str("session_id", sess.ID).
				Msg("rate limit exceeded")
			h.registry.SendTo(sess, proto.NewError("Rate limit exceeded"))
			continue
		}

		h.protocol.HandleFrame(ctx, sess, data)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	for {
		select {
		case frame := <-sess.Outbound():
			wctx, cancel := context.WithTimeout(ctx, h.cfg.SendTimeout)
			err := conn.Write(wctx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				h.log.Error().Err(err).Str("session_id", sess.ID).Msg("write ws frame")
				return err
			}
		case <-sess.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
