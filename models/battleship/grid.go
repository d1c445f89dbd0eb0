package battleship

import "fmt"

const GridSize = 10

// Cell is the state of one position of a board. On a board that
// tracks the opponent, CellEmpty means nothing has been discovered.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellShip
	CellHit
	CellMiss
)

var cellNames = [...]string{
	CellEmpty: "empty",
	CellShip:  "ship",
	CellHit:   "hit",
	CellMiss:  "miss",
}

func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return fmt.Sprintf("cell(%d)", uint8(c))
}

func (c Cell) IsValid() bool {
	return c <= CellMiss
}

// Resolved reports whether an attack already landed on the cell.
func (c Cell) Resolved() bool {
	return c == CellHit || c == CellMiss
}

func (c Cell) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid cell state: %d", uint8(c))
	}
	return []byte(cellNames[c]), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	for i, name := range cellNames {
		if name == string(text) {
			*c = Cell(i)
			return nil
		}
	}
	return fmt.Errorf("invalid cell state: %q", text)
}

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

func (c Coordinates) InGrid() bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "h", "horizontal":
		return Horizontal, nil
	case "v", "vertical":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown direction: %q", s)
}

// step returns the coordinates of the i-th cell of a ship anchored at c.
func (d Direction) step(c Coordinates, i int) Coordinates {
	if d == Vertical {
		return Coordinates{X: c.X, Y: c.Y + i}
	}
	return Coordinates{X: c.X + i, Y: c.Y}
}

// Snapshot is an immutable copy of a board, indexed [y][x].
// It is a value type so handing one out never shares state.
type Snapshot [GridSize][GridSize]Cell

func (s Snapshot) At(c Coordinates) Cell {
	return s[c.Y][c.X]
}

// Count returns how many cells of the snapshot are in the given state.
func (s Snapshot) Count(state Cell) int {
	var n int
	for y := range s {
		for x := range s[y] {
			if s[y][x] == state {
				n++
			}
		}
	}
	return n
}

// Valid reports whether every cell holds a known state.
func (s Snapshot) Valid() bool {
	for y := range s {
		for x := range s[y] {
			if !s[y][x].IsValid() {
				return false
			}
		}
	}
	return true
}
