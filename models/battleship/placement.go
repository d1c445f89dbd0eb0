package battleship

// ValidateBounds reports whether a ship of the given length anchored
// at anchor fits the grid. Any cell at or beyond GridSize fails.
func ValidateBounds(anchor Coordinates, length int, dir Direction) bool {
	if length < 1 || !anchor.InGrid() {
		return false
	}
	return dir.step(anchor, length-1).InGrid()
}

// ValidateNoOverlap reports whether none of the target cells already
// holds a ship. The placement must have passed ValidateBounds.
func ValidateNoOverlap(board *Board, anchor Coordinates, length int, dir Direction) bool {
	_, ok := firstOverlap(board, anchor, length, dir)
	return !ok
}

func firstOverlap(board *Board, anchor Coordinates, length int, dir Direction) (Coordinates, bool) {
	for i := 0; i < length; i++ {
		c := dir.step(anchor, i)
		if board.cells[c.Y][c.X] == CellShip {
			return c, true
		}
	}
	return Coordinates{}, false
}
