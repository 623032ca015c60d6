package proto

// Message types exchanged over a room's websocket connection.
// Clients only ever send code_update; the server sends the rest.
const (
	TypeCodeUpdate   = "code_update"
	TypeInitialState = "initial_state"
	TypeError        = "error"
)

// Message is the single envelope used in both directions, one JSON
// object per websocket frame. Optional fields are pointers so a field
// that was absent on the wire stays absent when echoed back.
type Message struct {
	Type      string  `json:"type"`
	Code      *string `json:"code,omitempty"`
	Timestamp *int64  `json:"timestamp,omitempty"`
	Message   string  `json:"message,omitempty"`
	RoomID    string  `json:"roomId,omitempty"`
}

// NewError builds an error message with a human-readable diagnostic.
func NewError(diagnostic string) *Message {
	return &Message{Type: TypeError, Message: diagnostic}
}

// NewInitialState builds the snapshot pushed to a freshly connected session.
func NewInitialState(roomID, code string) *Message {
	return &Message{Type: TypeInitialState, Code: &code, RoomID: roomID}
}

// NewCodeUpdate builds the broadcast payload for an accepted update.
// The timestamp is carried through unchanged; nil means the client
// omitted it and it stays omitted.
func NewCodeUpdate(code string, timestamp *int64) *Message {
	return &Message{Type: TypeCodeUpdate, Code: &code, Timestamp: timestamp}
}
