package connection

import (
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

// ReasonDefeated is the termination reason of a peer whose fleet is destroyed.
const ReasonDefeated = "defeated"

// Message is one of Move, GridUpdate, Termination or Reveal.
// The set is closed; a message always carries exactly one payload.
type Message interface {
	Code() uint8
	isMessage()
}

// Move is an attack on the receiver's board.
type Move struct {
	Target mb.Coordinates `json:"coordinate"`
}

// GridUpdate answers a Move with the defender's board, ships hidden.
type GridUpdate struct {
	Grid mb.Snapshot `json:"grid"`
}

// Termination is sent by the peer whose fleet was destroyed.
type Termination struct {
	Reason string `json:"reason"`
}

// Reveal carries the sender's full board at the end of a game.
type Reveal struct {
	Grid mb.Snapshot `json:"grid"`
}

func (Move) Code() uint8        { return CodeMove }
func (GridUpdate) Code() uint8  { return CodeGridUpdate }
func (Termination) Code() uint8 { return CodeTermination }
func (Reveal) Code() uint8      { return CodeReveal }

func (Move) isMessage()        {}
func (GridUpdate) isMessage()  {}
func (Termination) isMessage() {}
func (Reveal) isMessage()      {}

func NewMove(target mb.Coordinates) Move {
	return Move{Target: target}
}

func NewGridUpdate(grid mb.Snapshot) GridUpdate {
	return GridUpdate{Grid: grid}
}

func NewTermination(reason string) Termination {
	return Termination{Reason: reason}
}

func NewReveal(grid mb.Snapshot) Reveal {
	return Reveal{Grid: grid}
}
