package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe/internal/view"
)

const (
	actionNewGame = "game:new"
	actionState   = "game:state"
	actionTurn    = "game:turn"
	actionReset   = "game:reset"
	actionMode    = "game:mode"
	actionUpdate  = "game:update"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	GameID string `json:"game_id,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Cell   *int   `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Game  *view.View `json:"game,omitempty"`
	Error string     `json:"error,omitempty"`
}

type Response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}
