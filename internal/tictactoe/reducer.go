package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
)

const winningCount = entity.BoardSize

// Apply returns the state that follows event. It never fails: a move on an
// occupied cell, a move after a win and an unknown event all hand back the
// given state unchanged.
func Apply(state entity.GameState, event entity.GameEvent) entity.GameState {
	switch e := event.(type) {
	case entity.PlayerMove:
		return applyMove(state, e.Coordinate)
	case *entity.PlayerMove:
		if e == nil {
			return state
		}
		return applyMove(state, e.Coordinate)
	case entity.Reset, *entity.Reset:
		return entity.NewGameState()
	default:
		return state
	}
}

// applyMove - places cell for the player whose turn it is.
func applyMove(state entity.GameState, cell entity.Coordinate) entity.GameState {
	if state.GameStatus.IsDecided() {
		return state
	}

	if state.IsOccupied(cell) {
		return state
	}

	mover := state.Turn

	next := entity.GameState{
		Turn:   mover.Other(),
		XMoves: state.XMoves,
		OMoves: state.OMoves,
		XScore: state.XScore,
		OScore: state.OScore,
	}

	var moverScore entity.Score
	if mover == entity.PlayerX {
		next.XMoves = appendMove(state.XMoves, cell)
		next.XScore = updateScore(state.XScore, cell)
		moverScore = next.XScore
	} else {
		next.OMoves = appendMove(state.OMoves, cell)
		next.OScore = updateScore(state.OScore, cell)
		moverScore = next.OScore
	}

	next.GameStatus = statusAfterMove(next, mover, moverScore)

	return next
}

func statusAfterMove(state entity.GameState, mover entity.Player, moverScore entity.Score) entity.GameStatus {
	switch {
	case isWinner(moverScore):
		return entity.WinStatus(mover)
	case state.TotalMoves() == entity.CellCount:
		return entity.StatusDraw
	default:
		return entity.StatusPlaying
	}
}

// appendMove copies before appending so the previous snapshot never shares a
// backing array with the new one.
func appendMove(moves []entity.Coordinate, cell entity.Coordinate) []entity.Coordinate {
	result := make([]entity.Coordinate, len(moves), len(moves)+1)
	copy(result, moves)

	return append(result, cell)
}

// updateScore - the center cell lies on both diagonals and bumps both counters.
func updateScore(score entity.Score, cell entity.Coordinate) entity.Score {
	result := entity.Score{
		Row:                   incrementKey(score.Row, cell.Y),
		Column:                incrementKey(score.Column, cell.X),
		SameDiagonalCount:     score.SameDiagonalCount,
		OppositeDiagonalCount: score.OppositeDiagonalCount,
	}

	if cell.OnSameDiagonal() {
		result.SameDiagonalCount++
	}

	if cell.OnOppositeDiagonal() {
		result.OppositeDiagonalCount++
	}

	return result
}

func incrementKey(counts map[int]int, key int) map[int]int {
	result := make(map[int]int, len(counts)+1)
	for k, v := range counts {
		result[k] = v
	}

	result[key]++

	return result
}

func isWinner(score entity.Score) bool {
	for _, count := range score.Row {
		if count == winningCount {
			return true
		}
	}

	for _, count := range score.Column {
		if count == winningCount {
			return true
		}
	}

	return score.SameDiagonalCount == winningCount || score.OppositeDiagonalCount == winningCount
}
