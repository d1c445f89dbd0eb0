package api

import (
	"errors"
	"log"
	"math/rand"
	"sync"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
	mc "github.com/saeidalz13/battleship-p2p/models/connection"
)

// After this many invalid messages the peer is treated as broken.
const maxProtocolViolations = 3

// Engine keeps one GameState in sync with the opponent. Local calls
// and the receive loop run concurrently; every mutation of the game
// and every send happens under mu. Observers are notified after mu
// is released, so they may call back into the engine.
type Engine struct {
	mu        sync.Mutex
	game      *mb.GameState
	transport mc.Transport

	violations int
	// Move received while my fleet was still being placed.
	deferredMove *mb.Coordinates

	terminationSent     bool
	terminationReceived bool
	revealSent          bool
	revealReceived      bool

	// done is set once the termination handshake completed.
	done    bool
	lost    bool
	lostErr error
	closing bool
	events  []mb.Event

	observersMu sync.RWMutex
	observers   []mb.Observer
}

func NewEngine(game *mb.GameState, transport mc.Transport) *Engine {
	return &Engine{
		game:      game,
		transport: transport,
	}
}

// Subscribe registers o for every event produced from now on.
func (e *Engine) Subscribe(o mb.Observer) {
	e.observersMu.Lock()
	defer e.observersMu.Unlock()
	e.observers = append(e.observers, o)
}

func (e *Engine) emit(event mb.Event) {
	e.events = append(e.events, event)
}

// unlock releases mu and delivers what happened while it was held.
func (e *Engine) unlock() {
	events := append(e.game.TakeEvents(), e.events...)
	e.events = nil
	e.mu.Unlock()

	if len(events) == 0 {
		return
	}
	e.observersMu.RLock()
	observers := make([]mb.Observer, len(e.observers))
	copy(observers, e.observers)
	e.observersMu.RUnlock()

	for _, event := range events {
		for _, o := range observers {
			o.Notify(event)
		}
	}
}

// RequestPlacement places the next ship of the fleet.
func (e *Engine) RequestPlacement(anchor mb.Coordinates, length int, dir mb.Direction) error {
	e.mu.Lock()
	defer e.unlock()

	if e.game.IsGameOver() {
		return cerr.ErrGameFinished()
	}
	if err := e.game.CommitPlacement(anchor, length, dir); err != nil {
		return err
	}
	return e.answerDeferredMove()
}

// RequestAutoPlacement places whatever is left of the fleet at random.
func (e *Engine) RequestAutoPlacement(rng *rand.Rand) error {
	e.mu.Lock()
	defer e.unlock()

	if e.game.IsGameOver() {
		return cerr.ErrGameFinished()
	}
	if err := e.game.AutoPlace(rng); err != nil {
		return err
	}
	return e.answerDeferredMove()
}

func (e *Engine) answerDeferredMove() error {
	if e.game.Phase() != mb.PhasePlaying || e.deferredMove == nil {
		return nil
	}
	target := *e.deferredMove
	e.deferredMove = nil
	log.Println("answering attack received during placement\ttarget:", target)
	return e.answerMove(target)
}

// RequestAttack fires at target on the opponent board. Nothing is
// sent unless the attack is legal right now.
func (e *Engine) RequestAttack(target mb.Coordinates) error {
	e.mu.Lock()
	defer e.unlock()

	if e.terminationSent || e.terminationReceived {
		return cerr.ErrGameFinished()
	}
	if err := e.game.BeginAttack(target); err != nil {
		return err
	}
	return e.send(mc.NewMove(target))
}

// HandleMessage applies one inbound message. A protocol violation is
// discarded and returned; it only becomes fatal once the peer has sent
// maxProtocolViolations of them.
func (e *Engine) HandleMessage(msg mc.Message) error {
	e.mu.Lock()
	defer e.unlock()

	err := e.handleMessage(msg)
	if errors.Is(err, cerr.ErrProtocolViolation) {
		return e.violation(err)
	}
	return err
}

func (e *Engine) handleMessage(msg mc.Message) error {
	switch m := msg.(type) {
	case mc.Move:
		return e.handleMove(m)
	case mc.GridUpdate:
		return e.handleGridUpdate(m)
	case mc.Termination:
		return e.handleTermination(m)
	case mc.Reveal:
		return e.handleReveal(m)
	}
	return cerr.ErrMalformedMessage("unknown message type")
}

func (e *Engine) handleMove(m mc.Move) error {
	target := m.Target
	kind := mc.CodeName(mc.CodeMove)

	switch {
	case e.terminationSent || e.terminationReceived || e.revealReceived:
		return cerr.ErrUnexpectedMessage(kind, "game is already decided")
	case e.game.IsGameOver():
		return cerr.ErrUnexpectedMessage(kind, "game is over")
	case !target.InGrid():
		return cerr.ErrUnexpectedMessage(kind, cerr.ErrXorYOutOfGridBound(target.X, target.Y).Error())
	case e.game.IsMyTurn():
		return cerr.ErrUnexpectedMessage(kind, cerr.ErrNotTurnForAttacker().Error())
	}
	if _, pending := e.game.PendingAttack(); pending {
		return cerr.ErrUnexpectedMessage(kind, "my attack is still unanswered")
	}
	if e.game.OwnCell(target).Resolved() {
		return cerr.ErrUnexpectedMessage(kind, cerr.ErrCellAlreadyAttacked(target.X, target.Y).Error())
	}

	if e.game.Phase() == mb.PhasePlacing {
		if e.deferredMove != nil {
			return cerr.ErrUnexpectedMessage(kind, "an attack is already waiting for my placement")
		}
		e.deferredMove = &target
		log.Println("attack deferred until placement completes\ttarget:", target)
		return nil
	}
	return e.answerMove(target)
}

// answerMove resolves the peer's attack and replies with either my
// redacted board or my concession.
func (e *Engine) answerMove(target mb.Coordinates) error {
	e.game.ApplyIncomingAttack(target)

	if e.game.Outcome() == mb.OutcomeLost {
		e.terminationSent = true
		return e.send(mc.NewTermination(mc.ReasonDefeated))
	}

	if err := e.send(mc.NewGridUpdate(e.game.OwnSnapshot(false))); err != nil {
		return err
	}
	e.game.SetMyTurn(true)
	return nil
}

func (e *Engine) handleGridUpdate(m mc.GridUpdate) error {
	kind := mc.CodeName(mc.CodeGridUpdate)
	if e.terminationSent || e.terminationReceived || e.revealReceived {
		return cerr.ErrUnexpectedMessage(kind, "game is already decided")
	}

	_, err := e.game.ResolveOwnAttack(m.Grid)
	return err
}

func (e *Engine) handleTermination(m mc.Termination) error {
	kind := mc.CodeName(mc.CodeTermination)
	switch {
	case e.terminationReceived:
		return cerr.ErrUnexpectedMessage(kind, "peer already conceded")
	case e.terminationSent:
		return cerr.ErrUnexpectedMessage(kind, "i already conceded")
	case e.game.Phase() == mb.PhasePlacing:
		return cerr.ErrUnexpectedMessage(kind, "game has not started")
	}

	log.Printf("peer conceded\treason: %s\n", m.Reason)
	e.terminationReceived = true
	e.game.DeclareVictory()

	e.revealSent = true
	return e.send(mc.NewReveal(e.game.OwnSnapshot(true)))
}

func (e *Engine) handleReveal(m mc.Reveal) error {
	kind := mc.CodeName(mc.CodeReveal)
	if e.revealReceived {
		return cerr.ErrUnexpectedMessage(kind, "peer already revealed its board")
	}
	if e.game.Phase() == mb.PhasePlacing {
		return cerr.ErrUnexpectedMessage(kind, "game has not started")
	}

	e.revealReceived = true
	e.game.RecordOpponentSnapshot(m.Grid, true)

	switch {
	case e.terminationSent:
		// I lost; answer the winner's board with mine.
		e.revealSent = true
		err := e.send(mc.NewReveal(e.game.OwnSnapshot(true)))
		e.finishHandshake()
		return err

	case e.terminationReceived:
		// counter-reveal of the loser; nothing left to exchange
		e.finishHandshake()
		return nil

	default:
		// the peer revealed without conceding first
		if !e.game.IsGameOver() {
			e.game.DeclareVictory()
		}
		e.finishHandshake()
		return nil
	}
}

func (e *Engine) finishHandshake() {
	e.done = true
	if err := e.transport.Close(); err != nil {
		log.Println("closing transport after game over:", err)
	}
}

func (e *Engine) send(msg mc.Message) error {
	if err := e.transport.Send(msg); err != nil {
		e.connectionLost(err)
		return err
	}
	return nil
}

func (e *Engine) violation(err error) error {
	e.violations++
	log.Printf("protocol violation\tcount: %d\terr: %v\n", e.violations, err)
	e.emit(mb.Event{Kind: mb.EventProtocolViolation, Err: err})

	if e.violations < maxProtocolViolations {
		return err
	}

	fatal := cerr.ErrTooManyViolations(e.violations)
	e.connectionLost(fatal)
	return fatal
}

// connectionLost ends the session. A game that already has a verdict
// keeps it; otherwise it is aborted.
func (e *Engine) connectionLost(err error) {
	if e.lost {
		return
	}
	e.lost = true
	e.lostErr = err

	if !e.done && !e.closing {
		log.Println("connection lost:", err)
	}
	if e.game.Outcome() == mb.OutcomeUndecided {
		e.game.Abort()
		if !e.closing {
			e.emit(mb.Event{Kind: mb.EventConnectionLost, Err: err})
		}
	}
	if closeErr := e.transport.Close(); closeErr != nil {
		log.Println("closing transport:", closeErr)
	}
}

// Run reads and applies inbound messages until the game is settled
// or the connection is gone. It returns nil after a completed
// termination handshake or a local Close.
func (e *Engine) Run() error {
receiveLoop:
	for {
		msg, err := e.transport.Receive()
		if err != nil {
			if errors.Is(err, cerr.ErrProtocolViolation) {
				e.mu.Lock()
				err = e.violation(err)
				lost := e.lost
				e.unlock()

				if lost {
					return e.onReceiveErr(err)
				}
				continue receiveLoop
			}
			return e.onReceiveErr(err)
		}

		if err := e.HandleMessage(msg); err != nil && !errors.Is(err, cerr.ErrProtocolViolation) {
			return e.onReceiveErr(err)
		}

		e.mu.Lock()
		done, lostErr := e.done, e.lostErr
		e.unlock()
		if done {
			log.Println("game settled; receive loop finished")
			return nil
		}
		if lostErr != nil {
			return e.onReceiveErr(lostErr)
		}
	}
}

func (e *Engine) onReceiveErr(err error) error {
	e.mu.Lock()
	defer e.unlock()

	settled := e.done || e.closing || e.game.Outcome() != mb.OutcomeUndecided
	e.connectionLost(err)
	if settled {
		return nil
	}
	return err
}

// Close ends the session from this side. Run returns nil afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.unlock()

	e.closing = true
	if e.lost || e.done {
		return nil
	}
	e.lost = true
	e.game.Abort()
	return e.transport.Close()
}

func (e *Engine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.IsGameOver()
}

func (e *Engine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.IsMyTurn()
}

func (e *Engine) Phase() mb.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Phase()
}

func (e *Engine) Outcome() mb.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Outcome()
}

func (e *Engine) Stats() mb.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Stats()
}

func (e *Engine) RemainingFleet() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.RemainingFleet()
}

func (e *Engine) NextShip() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.NextShip()
}

func (e *Engine) OwnSnapshot() mb.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.OwnSnapshot(true)
}

func (e *Engine) OpponentSnapshot() mb.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.OpponentSnapshot()
}
