package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-machine/internal/view"
)

const (
	actionMove  = "game:move"
	actionReset = "game:reset"
	actionState = "game:state"
	actionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MovePayload struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type StatePayload struct {
	State   entity.GameState `json:"state"`
	Display view.Display     `json:"display"`
}

type ErrorPayload struct {
	Action string `json:"action,omitempty"`
	Error  string `json:"error"`
}

func newMessage(action string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", action, err)
	}

	return Message{
		Action:  action,
		Payload: raw,
	}, nil
}

func (that MovePayload) coordinate() *entity.Coordinate {
	if that.X == nil || that.Y == nil {
		return nil
	}

	return &entity.Coordinate{X: *that.X, Y: *that.Y}
}
