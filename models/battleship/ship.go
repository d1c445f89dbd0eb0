package battleship

import (
	"math/rand"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
)

// Standard fleet, placed in this order.
var StandardFleet = []int{5, 4, 3, 2, 2, 1, 1}

// MaxHits is the number of hits that destroys a standard fleet.
var MaxHits = fleetCells(StandardFleet)

func fleetCells(lengths []int) int {
	var total int
	for _, l := range lengths {
		total += l
	}
	return total
}

// Manifest hands out ship lengths one at a time, in order.
type Manifest struct {
	lengths []int
	cursor  int
}

func NewManifest(lengths []int) *Manifest {
	cp := make([]int, len(lengths))
	copy(cp, lengths)
	return &Manifest{lengths: cp}
}

// Next returns the length of the next ship to place.
func (m *Manifest) Next() (int, error) {
	if m.Exhausted() {
		return 0, cerr.ErrFleetAlreadyPlaced()
	}
	return m.lengths[m.cursor], nil
}

func (m *Manifest) advance() {
	m.cursor++
}

func (m *Manifest) Exhausted() bool {
	return m.cursor >= len(m.lengths)
}

func (m *Manifest) Remaining() []int {
	if m.Exhausted() {
		return nil
	}
	rest := make([]int, len(m.lengths)-m.cursor)
	copy(rest, m.lengths[m.cursor:])
	return rest
}

// randomPlacement picks an anchor and a direction that the bounds
// check accepts for a ship of the given length.
func randomPlacement(rng *rand.Rand, length int) (Coordinates, Direction) {
	dir := Direction(rng.Intn(2))
	maxX, maxY := GridSize, GridSize
	if dir == Horizontal {
		maxX = GridSize - length + 1
	} else {
		maxY = GridSize - length + 1
	}
	return NewCoordinates(rng.Intn(maxX), rng.Intn(maxY)), dir
}
