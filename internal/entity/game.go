package entity

type Player string

const (
	PlayerX    Player = "X"
	PlayerO    Player = "O"
	PlayerNone Player = "NONE"
)

// Other returns the opponent. Anything that is not X hands the turn to X.
func (that Player) Other() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

type GameStatus string

const (
	StatusPlaying GameStatus = "PLAYING"
	StatusXWin    GameStatus = "X_WIN"
	StatusOWin    GameStatus = "O_WIN"
	StatusDraw    GameStatus = "DRAW"
)

// IsDecided reports whether one of the players has won.
func (that GameStatus) IsDecided() bool {
	return that == StatusXWin || that == StatusOWin
}

func (that GameStatus) IsTerminal() bool {
	return that.IsDecided() || that == StatusDraw
}

// WinStatus - the status reached when player completes a line.
func WinStatus(player Player) GameStatus {
	if player == PlayerO {
		return StatusOWin
	}
	return StatusXWin
}

// Score accumulates one player's moves per line so a win is detected without
// rescanning the board. Row is keyed by y, Column by x.
type Score struct {
	Row                   map[int]int `json:"row"`
	Column                map[int]int `json:"column"`
	SameDiagonalCount     int         `json:"sameDiagonalCount"`
	OppositeDiagonalCount int         `json:"oppositeDiagonalCount"`
}

func NewScore() Score {
	return Score{
		Row:    map[int]int{},
		Column: map[int]int{},
	}
}

// GameState is an immutable snapshot. Transitions build a new value and never
// write into an existing one.
type GameState struct {
	Turn       Player       `json:"turn"`
	GameStatus GameStatus   `json:"gameStatus"`
	XMoves     []Coordinate `json:"xMoves"`
	OMoves     []Coordinate `json:"oMoves"`
	XScore     Score        `json:"xScore"`
	OScore     Score        `json:"oScore"`
}

func NewGameState() GameState {
	return GameState{
		Turn:       PlayerX,
		GameStatus: StatusPlaying,
		XMoves:     []Coordinate{},
		OMoves:     []Coordinate{},
		XScore:     NewScore(),
		OScore:     NewScore(),
	}
}

func (that GameState) TotalMoves() int {
	return len(that.XMoves) + len(that.OMoves)
}

// IsOccupied reports whether either player already holds the cell.
func (that GameState) IsOccupied(cell Coordinate) bool {
	for _, move := range that.XMoves {
		if move == cell {
			return true
		}
	}

	for _, move := range that.OMoves {
		if move == cell {
			return true
		}
	}

	return false
}

// OccupantOf returns the player holding cell, or PlayerNone.
func (that GameState) OccupantOf(cell Coordinate) Player {
	for _, move := range that.XMoves {
		if move == cell {
			return PlayerX
		}
	}

	for _, move := range that.OMoves {
		if move == cell {
			return PlayerO
		}
	}

	return PlayerNone
}

func (that GameState) IsPlaying() bool {
	return that.GameStatus == StatusPlaying
}
