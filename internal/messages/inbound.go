package messages

import "encoding/json"

// Inbound message types.
const (
	TypeMakeMove = "MAKE_MOVE"
	TypePause    = "PAUSE"
	TypeResume   = "RESUME"
	TypeResign   = "RESIGN"
	TypeGetState = "GET_STATE"
)

// InboundMessage is the generic wrapper for messages coming from the client.
// The "type" field tells us the action; "payload" is the data we parse further.
type InboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MakeMovePayload represents the payload for placing a stone
type MakeMovePayload struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}
