package error

import (
	"errors"
	"fmt"
)

// Error kinds. Every constructor below wraps exactly one of
// these so callers can branch with errors.Is.
var (
	ErrOutOfBounds         = errors.New("out of bounds")
	ErrOverlap             = errors.New("overlap")
	ErrPlacementComplete   = errors.New("placement complete")
	ErrPlacementIncomplete = errors.New("placement incomplete")
	ErrInvalidLength       = errors.New("invalid ship length")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrAlreadyAttacked     = errors.New("already attacked")
	ErrGameOver            = errors.New("game over")
	ErrTransport           = errors.New("transport error")
	ErrProtocolViolation   = errors.New("protocol violation")
)

func ErrPlacementOutOfBounds(x, y, length int, dir string) error {
	return fmt.Errorf("%w: ship does not fit the grid\tx: %d\ty: %d\tlength: %d\tdirection: %s", ErrOutOfBounds, x, y, length, dir)
}

func ErrPlacementOverlap(x, y int) error {
	return fmt.Errorf("%w: a ship is already placed at\tx: %d\ty: %d", ErrOverlap, x, y)
}

func ErrFleetAlreadyPlaced() error {
	return fmt.Errorf("%w: every ship of the fleet is already placed", ErrPlacementComplete)
}

func ErrFleetNotPlaced(remaining int) error {
	return fmt.Errorf("%w: %d ships still to place", ErrPlacementIncomplete, remaining)
}

func ErrShipLength(length int) error {
	return fmt.Errorf("%w: %d", ErrInvalidLength, length)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w: incoming x or y is out of game grid bound\tx: %d\ty: %d", ErrOutOfBounds, x, y)
}

func ErrNotTurnForAttacker() error {
	return fmt.Errorf("%w: wait for the opponent to move", ErrNotYourTurn)
}

func ErrCellAlreadyAttacked(x, y int) error {
	return fmt.Errorf("%w: this position is already hit or missed in previous rounds\tx: %d\ty: %d", ErrAlreadyAttacked, x, y)
}

func ErrGameFinished() error {
	return fmt.Errorf("%w: no further moves are accepted", ErrGameOver)
}

func ErrConnection(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func ErrUnexpectedMessage(kind string, reason string) error {
	return fmt.Errorf("%w: unexpected %s message: %s", ErrProtocolViolation, kind, reason)
}

func ErrMalformedMessage(reason string) error {
	return fmt.Errorf("%w: malformed message: %s", ErrProtocolViolation, reason)
}

func ErrTooManyViolations(count int) error {
	return fmt.Errorf("%w: peer sent %d invalid messages; giving up on session", ErrProtocolViolation, count)
}
