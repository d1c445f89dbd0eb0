package battleship

import (
	"math/rand"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
)

type Phase uint8

const (
	PhasePlacing Phase = iota
	PhasePlaying
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlacing:
		return "placing"
	case PhasePlaying:
		return "playing"
	}
	return "over"
}

type Outcome uint8

const (
	OutcomeUndecided Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	}
	return "undecided"
}

type Stats struct {
	ShotsFired int `json:"shots_fired"`
	HitsLanded int `json:"hits_landed"`
	HitsTaken  int `json:"hits_taken"`
}

const maxAutoPlaceAttempts = 1000

// GameState is the authoritative model of one peer: its own board,
// what it knows of the opponent board, the fleet still to place and
// whose turn it is. It is not safe for concurrent use; the engine
// owning it serializes access.
type GameState struct {
	own      *Board
	opponent *Board
	manifest *Manifest

	phase    Phase
	outcome  Outcome
	isMyTurn bool
	stats    Stats

	// Target of my attack that the peer has not answered yet.
	pendingAttack *Coordinates

	events []Event
}

type Option func(*GameState)

// WithFleet replaces the standard fleet. Both peers must agree on it.
func WithFleet(lengths []int) Option {
	return func(g *GameState) {
		g.manifest = NewManifest(lengths)
		g.own = newFleetBoard(lengths)
		g.opponent = newFleetBoard(lengths)
	}
}

// NewGameState creates an empty game. The host, who accepted the
// connection, moves first.
func NewGameState(isHost bool, opts ...Option) *GameState {
	g := &GameState{
		own:      NewBoard(),
		opponent: NewBoard(),
		manifest: NewManifest(StandardFleet),
		phase:    PhasePlacing,
		isMyTurn: isHost,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GameState) emit(e Event) {
	g.events = append(g.events, e)
}

// TakeEvents returns the events produced since the last call.
func (g *GameState) TakeEvents() []Event {
	events := g.events
	g.events = nil
	return events
}

// CommitPlacement validates and places the next ship of the fleet.
// length must be the manifest's next length.
func (g *GameState) CommitPlacement(anchor Coordinates, length int, dir Direction) error {
	next, err := g.manifest.Next()
	if err != nil {
		return err
	}
	if length != next {
		return cerr.ErrShipLength(length)
	}

	if !ValidateBounds(anchor, length, dir) {
		return cerr.ErrPlacementOutOfBounds(anchor.X, anchor.Y, length, dir.String())
	}
	if c, overlap := firstOverlap(g.own, anchor, length, dir); overlap {
		return cerr.ErrPlacementOverlap(c.X, c.Y)
	}

	g.own.Place(anchor, length, dir)
	g.manifest.advance()
	if g.manifest.Exhausted() {
		g.phase = PhasePlaying
	}

	g.emit(Event{Kind: EventOwnBoardChanged, Snapshot: g.own.Snapshot(true)})
	return nil
}

// AutoPlace places the rest of the fleet at random positions.
func (g *GameState) AutoPlace(rng *rand.Rand) error {
	for !g.manifest.Exhausted() {
		length, err := g.manifest.Next()
		if err != nil {
			return err
		}

		placed := false
		for attempt := 0; attempt < maxAutoPlaceAttempts; attempt++ {
			anchor, dir := randomPlacement(rng, length)
			if err := g.CommitPlacement(anchor, length, dir); err == nil {
				placed = true
				break
			}
		}
		if !placed {
			return cerr.ErrFleetNotPlaced(len(g.manifest.Remaining()))
		}
	}
	return nil
}

// ApplyIncomingAttack resolves the peer's attack against my board.
// Bounds and repeated targets are the caller's concern.
func (g *GameState) ApplyIncomingAttack(target Coordinates) Cell {
	outcome := g.own.ResolveAttack(target)
	if outcome == CellHit {
		g.stats.HitsTaken++
	}

	g.emit(Event{
		Kind:     EventOwnBoardChanged,
		Snapshot: g.own.Snapshot(true),
		Shot:     &Shot{Target: target, Outcome: outcome},
	})

	if g.own.IsDestroyed() {
		g.finish(OutcomeLost)
	}
	return outcome
}

// BeginAttack checks that I may attack target and marks the attack
// as outstanding. The turn passes to the peer.
func (g *GameState) BeginAttack(target Coordinates) error {
	switch {
	case g.phase == PhaseOver:
		return cerr.ErrGameFinished()
	case g.phase == PhasePlacing:
		return cerr.ErrFleetNotPlaced(len(g.manifest.Remaining()))
	case !g.isMyTurn || g.pendingAttack != nil:
		return cerr.ErrNotTurnForAttacker()
	case !target.InGrid():
		return cerr.ErrXorYOutOfGridBound(target.X, target.Y)
	case g.opponent.At(target).Resolved():
		return cerr.ErrCellAlreadyAttacked(target.X, target.Y)
	}

	g.pendingAttack = &target
	g.stats.ShotsFired++
	g.SetMyTurn(false)
	return nil
}

// ResolveOwnAttack applies the peer's answer to my outstanding attack.
func (g *GameState) ResolveOwnAttack(grid Snapshot) (Shot, error) {
	if g.pendingAttack == nil {
		return Shot{}, cerr.ErrUnexpectedMessage("grid update", "no attack is outstanding")
	}
	target := *g.pendingAttack
	outcome := grid.At(target)
	if !outcome.Resolved() {
		return Shot{}, cerr.ErrUnexpectedMessage("grid update", "attacked cell "+target.String()+" is not resolved")
	}

	g.pendingAttack = nil
	if outcome == CellHit {
		g.stats.HitsLanded++
	}

	shot := Shot{Target: target, Outcome: outcome}
	g.recordOpponentSnapshot(grid, false, &shot)
	return shot, nil
}

// RecordOpponentSnapshot merges what the peer shared about its board.
// Only a reveal may add ship cells.
func (g *GameState) RecordOpponentSnapshot(grid Snapshot, revealAll bool) {
	g.recordOpponentSnapshot(grid, revealAll, nil)
}

func (g *GameState) recordOpponentSnapshot(grid Snapshot, revealAll bool, shot *Shot) {
	g.opponent.merge(grid, revealAll)
	g.emit(Event{
		Kind:     EventOpponentBoardChanged,
		Snapshot: g.opponent.Snapshot(true),
		Shot:     shot,
	})
}

func (g *GameState) SetMyTurn(isMyTurn bool) {
	if g.isMyTurn == isMyTurn {
		return
	}
	g.isMyTurn = isMyTurn
	g.emit(Event{Kind: EventTurnChanged, IsMyTurn: isMyTurn})
}

// DeclareVictory ends the game in my favour. The peer confirmed its
// defeat; my own board is never inspected for this.
func (g *GameState) DeclareVictory() {
	// the peer concedes instead of answering the attack that sank its last ship
	if g.pendingAttack != nil && g.phase != PhaseOver {
		target := *g.pendingAttack
		g.pendingAttack = nil
		g.stats.HitsLanded++

		var grid Snapshot
		grid[target.Y][target.X] = CellHit
		g.recordOpponentSnapshot(grid, false, &Shot{Target: target, Outcome: CellHit})
	}
	g.finish(OutcomeWon)
}

// Abort ends the game without a verdict, e.g. when the peer is gone.
func (g *GameState) Abort() {
	if g.phase == PhaseOver {
		return
	}
	g.phase = PhaseOver
	g.pendingAttack = nil
}

func (g *GameState) finish(outcome Outcome) {
	if g.phase == PhaseOver && g.outcome != OutcomeUndecided {
		return
	}
	g.phase = PhaseOver
	g.outcome = outcome
	g.pendingAttack = nil
	g.isMyTurn = false
	g.emit(Event{Kind: EventGameOver, Won: outcome == OutcomeWon, Stats: g.stats})
}

func (g *GameState) IsGameOver() bool {
	return g.phase == PhaseOver
}

func (g *GameState) Phase() Phase {
	return g.phase
}

func (g *GameState) Outcome() Outcome {
	return g.outcome
}

func (g *GameState) IsMyTurn() bool {
	return g.isMyTurn
}

func (g *GameState) Stats() Stats {
	return g.stats
}

// NextShip returns the length of the next ship to place.
func (g *GameState) NextShip() (int, error) {
	return g.manifest.Next()
}

func (g *GameState) RemainingFleet() []int {
	return g.manifest.Remaining()
}

func (g *GameState) OwnSnapshot(revealShips bool) Snapshot {
	return g.own.Snapshot(revealShips)
}

func (g *GameState) OwnCell(c Coordinates) Cell {
	return g.own.At(c)
}

func (g *GameState) OpponentSnapshot() Snapshot {
	return g.opponent.Snapshot(true)
}

func (g *GameState) PendingAttack() (Coordinates, bool) {
	if g.pendingAttack == nil {
		return Coordinates{}, false
	}
	return *g.pendingAttack, true
}
