package websocket

import "encoding/json"

const (
	actionState = "game:state"
	actionTurn  = "game:turn"
	actionReset = "game:reset"
)

// Message is a websocket frame body. Error is only set on replies.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type TurnPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
