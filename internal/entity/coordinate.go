package entity

const (
	BoardMin = -1
	BoardMax = 1

	BoardSize = BoardMax - BoardMin + 1
	CellCount = BoardSize * BoardSize
)

// Coordinate addresses a cell on the centered 3x3 grid, both axes in [-1, 1].
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Valid reports whether both axes are inside the board.
func (that Coordinate) Valid() bool {
	return inRange(that.X) && inRange(that.Y)
}

// OnSameDiagonal - the (-1,-1) to (1,1) diagonal.
func (that Coordinate) OnSameDiagonal() bool {
	return that.X == that.Y
}

// OnOppositeDiagonal - the (-1,1) to (1,-1) diagonal.
func (that Coordinate) OnOppositeDiagonal() bool {
	return that.X == -that.Y
}

func inRange(v int) bool {
	return v >= BoardMin && v <= BoardMax
}
