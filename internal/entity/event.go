package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-machine/internal/apperror"
)

type EventType string

const (
	EventPlayerMove EventType = "PLAYER_MOVE"
	EventReset      EventType = "RESET"
)

// GameEvent is either a PlayerMove or a Reset.
type GameEvent interface {
	Type() EventType
}

type PlayerMove struct {
	Coordinate Coordinate `json:"coordinate"`
}

func (PlayerMove) Type() EventType {
	return EventPlayerMove
}

type Reset struct{}

func (Reset) Type() EventType {
	return EventReset
}

func NewPlayerMove(x, y int) PlayerMove {
	return PlayerMove{Coordinate: Coordinate{X: x, Y: y}}
}

// ParseEvent builds an event from its wire form. Producers call it so that
// coordinates outside the board never reach the reducer; cell is nil for
// events without a payload.
func ParseEvent(eventType EventType, cell *Coordinate) (GameEvent, error) {
	switch eventType {
	case EventPlayerMove:
		if cell == nil {
			return nil, fmt.Errorf("%w: %s needs a coordinate", apperror.ErrMissingPayload, eventType)
		}

		if !cell.Valid() {
			return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCoordinate, cell.X, cell.Y)
		}

		return PlayerMove{Coordinate: *cell}, nil
	case EventReset:
		return Reset{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownEvent, eventType)
	}
}
