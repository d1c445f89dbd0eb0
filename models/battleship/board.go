package battleship

// Board holds one player's grid. Other components only ever
// see it through Snapshot copies.
type Board struct {
	cells    Snapshot
	hitCount int
	maxHits  int
}

// NewBoard returns an empty board sized for the standard fleet.
func NewBoard() *Board {
	return newFleetBoard(StandardFleet)
}

func newFleetBoard(fleet []int) *Board {
	return &Board{maxHits: fleetCells(fleet)}
}

// Place writes a ship into the target cells. The caller validates
// the placement first; Board does not check it again.
func (b *Board) Place(anchor Coordinates, length int, dir Direction) {
	for i := 0; i < length; i++ {
		c := dir.step(anchor, i)
		b.cells[c.Y][c.X] = CellShip
	}
}

// ResolveAttack marks the target as hit or missed. Attacking an
// already resolved cell is guarded by the caller.
func (b *Board) ResolveAttack(target Coordinates) Cell {
	if b.cells[target.Y][target.X] == CellShip {
		b.cells[target.Y][target.X] = CellHit
		b.hitCount++
		return CellHit
	}

	b.cells[target.Y][target.X] = CellMiss
	return CellMiss
}

func (b *Board) At(c Coordinates) Cell {
	return b.cells[c.Y][c.X]
}

func (b *Board) HitCount() int {
	return b.hitCount
}

func (b *Board) IsDestroyed() bool {
	return b.hitCount == b.maxHits
}

// Snapshot copies the board. Without revealShips, unattacked
// ship cells are reported as empty so their location is not leaked.
func (b *Board) Snapshot(revealShips bool) Snapshot {
	snap := b.cells
	if revealShips {
		return snap
	}

	for y := range snap {
		for x := range snap[y] {
			if snap[y][x] == CellShip {
				snap[y][x] = CellEmpty
			}
		}
	}
	return snap
}

// merge folds what a peer reported into a knowledge board.
// Resolved cells are never downgraded, and ships are only
// taken when revealAll is set.
func (b *Board) merge(grid Snapshot, revealAll bool) (changed bool) {
	for y := range grid {
		for x := range grid[y] {
			current := b.cells[y][x]
			if current.Resolved() {
				continue
			}

			incoming := grid[y][x]
			switch {
			case incoming == CellHit:
				b.cells[y][x] = CellHit
				b.hitCount++
			case incoming == CellMiss:
				b.cells[y][x] = CellMiss
			case incoming == CellShip && revealAll:
				b.cells[y][x] = CellShip
			default:
				continue
			}
			changed = changed || b.cells[y][x] != current
		}
	}
	return changed
}
