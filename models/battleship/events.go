package battleship

// EventKind identifies what changed in a game.
type EventKind uint8

const (
	EventOwnBoardChanged EventKind = iota
	EventOpponentBoardChanged
	EventTurnChanged
	EventGameOver
	EventConnectionLost
	EventProtocolViolation
)

func (k EventKind) String() string {
	switch k {
	case EventOwnBoardChanged:
		return "own_board_changed"
	case EventOpponentBoardChanged:
		return "opponent_board_changed"
	case EventTurnChanged:
		return "turn_changed"
	case EventGameOver:
		return "game_over"
	case EventConnectionLost:
		return "connection_lost"
	case EventProtocolViolation:
		return "protocol_violation"
	}
	return "unknown"
}

// Event carries the payload of its kind so subscribers never
// have to read the game state back.
type Event struct {
	Kind EventKind

	// Own or opponent board events.
	Snapshot Snapshot

	// Set when the board changed because of an attack.
	Shot *Shot

	// EventTurnChanged
	IsMyTurn bool

	// EventGameOver
	Won   bool
	Stats Stats

	// EventConnectionLost, EventProtocolViolation
	Err error
}

// Shot is a resolved attack.
type Shot struct {
	Target  Coordinates
	Outcome Cell
}

type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(e Event) {
	f(e)
}
