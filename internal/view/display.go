package view

import (
	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
)

const (
	StatusTie  = "Tie"
	StatusXWon = "X Won"
	StatusOWon = "O Won"
)

// EmptyCell marks a free cell on the display board.
const EmptyCell entity.Player = ""

// Board is indexed [y+1][x+1].
type Board [entity.BoardSize][entity.BoardSize]entity.Player

// Display is what a renderer needs from one snapshot.
type Display struct {
	Board         Board         `json:"board"`
	ActivePlayer  entity.Player `json:"activePlayer"`
	DisplayStatus string        `json:"displayStatus"`
	Resetable     bool          `json:"resetable"`
}

func FromState(state entity.GameState) Display {
	return Display{
		Board:         boardFromState(state),
		ActivePlayer:  activePlayer(state),
		DisplayStatus: displayStatus(state.GameStatus),
		Resetable:     !state.IsPlaying(),
	}
}

// Cell returns the occupant of cell, or EmptyCell.
func (that Display) Cell(cell entity.Coordinate) entity.Player {
	return that.Board[cell.Y-entity.BoardMin][cell.X-entity.BoardMin]
}

func boardFromState(state entity.GameState) Board {
	var board Board

	for _, move := range state.XMoves {
		board[move.Y-entity.BoardMin][move.X-entity.BoardMin] = entity.PlayerX
	}

	for _, move := range state.OMoves {
		board[move.Y-entity.BoardMin][move.X-entity.BoardMin] = entity.PlayerO
	}

	return board
}

func activePlayer(state entity.GameState) entity.Player {
	if !state.IsPlaying() {
		return entity.PlayerNone
	}

	return state.Turn
}

func displayStatus(status entity.GameStatus) string {
	switch status {
	case entity.StatusDraw:
		return StatusTie
	case entity.StatusXWin:
		return StatusXWon
	case entity.StatusOWin:
		return StatusOWon
	default:
		return ""
	}
}
