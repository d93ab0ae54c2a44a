package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-machine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameState(t *testing.T) {
	// When: creating two fresh game states
	first := NewGameState()
	second := NewGameState()

	// Then: X moves first, nothing is played and the game is ongoing
	assert.Equal(t, PlayerX, first.Turn)
	assert.Equal(t, StatusPlaying, first.GameStatus)
	assert.Empty(t, first.XMoves)
	assert.Empty(t, first.OMoves)
	assert.Equal(t, NewScore(), first.XScore)
	assert.Equal(t, NewScore(), first.OScore)

	// Then: both values are deep-equal
	require.Equal(t, first, second)
}

func TestPlayer_Other(t *testing.T) {
	t.Run("X hands the turn to O", func(t *testing.T) {
		assert.Equal(t, PlayerO, PlayerX.Other())
	})

	t.Run("O hands the turn to X", func(t *testing.T) {
		assert.Equal(t, PlayerX, PlayerO.Other())
	})

	t.Run("NONE hands the turn to X", func(t *testing.T) {
		assert.Equal(t, PlayerX, PlayerNone.Other())
	})
}

func TestGameStatus(t *testing.T) {
	t.Run("Playing is neither decided nor terminal", func(t *testing.T) {
		assert.False(t, StatusPlaying.IsDecided())
		assert.False(t, StatusPlaying.IsTerminal())
	})

	t.Run("Wins are decided and terminal", func(t *testing.T) {
		assert.True(t, StatusXWin.IsDecided())
		assert.True(t, StatusXWin.IsTerminal())
		assert.True(t, StatusOWin.IsDecided())
		assert.True(t, StatusOWin.IsTerminal())
	})

	t.Run("Draw is terminal but not decided", func(t *testing.T) {
		assert.False(t, StatusDraw.IsDecided())
		assert.True(t, StatusDraw.IsTerminal())
	})

	t.Run("WinStatus maps the mover to its status", func(t *testing.T) {
		assert.Equal(t, StatusXWin, WinStatus(PlayerX))
		assert.Equal(t, StatusOWin, WinStatus(PlayerO))
	})
}

func TestGameState_IsOccupied(t *testing.T) {
	// Given: a state where X holds the center and O holds a corner
	state := NewGameState()
	state.XMoves = []Coordinate{{X: 0, Y: 0}}
	state.OMoves = []Coordinate{{X: -1, Y: 1}}

	// Then: both held cells are occupied and their owners are reported
	assert.True(t, state.IsOccupied(Coordinate{X: 0, Y: 0}))
	assert.True(t, state.IsOccupied(Coordinate{X: -1, Y: 1}))
	assert.Equal(t, PlayerX, state.OccupantOf(Coordinate{X: 0, Y: 0}))
	assert.Equal(t, PlayerO, state.OccupantOf(Coordinate{X: -1, Y: 1}))

	// Then: a free cell is not occupied
	assert.False(t, state.IsOccupied(Coordinate{X: 1, Y: 1}))
	assert.Equal(t, PlayerNone, state.OccupantOf(Coordinate{X: 1, Y: 1}))
	assert.Equal(t, 2, state.TotalMoves())
}

func TestCoordinate(t *testing.T) {
	t.Run("Valid accepts every board cell", func(t *testing.T) {
		for x := BoardMin; x <= BoardMax; x++ {
			for y := BoardMin; y <= BoardMax; y++ {
				assert.True(t, Coordinate{X: x, Y: y}.Valid(), "x=%d y=%d", x, y)
			}
		}
	})

	t.Run("Valid rejects cells outside the board", func(t *testing.T) {
		assert.False(t, Coordinate{X: 2, Y: 0}.Valid())
		assert.False(t, Coordinate{X: 0, Y: -2}.Valid())
	})

	t.Run("Center lies on both diagonals", func(t *testing.T) {
		center := Coordinate{X: 0, Y: 0}

		assert.True(t, center.OnSameDiagonal())
		assert.True(t, center.OnOppositeDiagonal())
	})

	t.Run("Edge lies on no diagonal", func(t *testing.T) {
		edge := Coordinate{X: 0, Y: 1}

		assert.False(t, edge.OnSameDiagonal())
		assert.False(t, edge.OnOppositeDiagonal())
	})
}

func TestGameEvent_Type(t *testing.T) {
	var move GameEvent = NewPlayerMove(1, -1)
	var reset GameEvent = Reset{}

	assert.Equal(t, EventPlayerMove, move.Type())
	assert.Equal(t, EventReset, reset.Type())
	assert.Equal(t, Coordinate{X: 1, Y: -1}, move.(PlayerMove).Coordinate)
}

func TestParseEvent(t *testing.T) {
	t.Run("Player move inside the board", func(t *testing.T) {
		event, err := ParseEvent(EventPlayerMove, &Coordinate{X: -1, Y: 1})

		require.NoError(t, err)
		assert.Equal(t, NewPlayerMove(-1, 1), event)
	})

	t.Run("Player move outside the board is rejected", func(t *testing.T) {
		event, err := ParseEvent(EventPlayerMove, &Coordinate{X: 2, Y: 0})

		require.ErrorIs(t, err, apperror.ErrInvalidCoordinate)
		assert.Nil(t, event)
	})

	t.Run("Player move without a coordinate is rejected", func(t *testing.T) {
		_, err := ParseEvent(EventPlayerMove, nil)

		require.ErrorIs(t, err, apperror.ErrMissingPayload)
	})

	t.Run("Reset ignores the coordinate", func(t *testing.T) {
		event, err := ParseEvent(EventReset, nil)

		require.NoError(t, err)
		assert.Equal(t, Reset{}, event)
	})

	t.Run("Unknown type is rejected", func(t *testing.T) {
		_, err := ParseEvent("UNDO", nil)

		require.ErrorIs(t, err, apperror.ErrUnknownEvent)
	})
}
