package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

const helpText = `commands:
  place X Y h|v   place the next ship with its bow at (X,Y)
  auto            place the rest of the fleet at random
  attack X Y      fire at (X,Y) on the opponent board
  board           show both boards
  help            show this text
  quit            leave the game
`

var ErrQuit = errors.New("quit")

// Game is what the console drives; the engine satisfies it.
type Game interface {
	RequestPlacement(anchor mb.Coordinates, length int, dir mb.Direction) error
	RequestAutoPlacement(rng *rand.Rand) error
	RequestAttack(target mb.Coordinates) error
	NextShip() (int, error)
	OwnSnapshot() mb.Snapshot
	OpponentSnapshot() mb.Snapshot
}

// Console is a line based front end. It prints game events as they
// arrive and turns typed commands into engine requests.
type Console struct {
	game Game
	rng  *rand.Rand

	mu  sync.Mutex
	out io.Writer
}

var _ mb.Observer = (*Console)(nil)

func New(game Game, out io.Writer, rng *rand.Rand) *Console {
	return &Console{game: game, out: out, rng: rng}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Notify(e mb.Event) {
	switch e.Kind {
	case mb.EventOwnBoardChanged:
		if e.Shot != nil {
			c.printf("opponent fired at %s: %s\n", e.Shot.Target, e.Shot.Outcome)
		}
	case mb.EventOpponentBoardChanged:
		if e.Shot != nil {
			c.printf("your shot at %s: %s\n", e.Shot.Target, e.Shot.Outcome)
		}
	case mb.EventTurnChanged:
		if e.IsMyTurn {
			c.printf("your turn\n")
		} else {
			c.printf("waiting for opponent...\n")
		}
	case mb.EventGameOver:
		verdict := "you lost"
		if e.Won {
			verdict = "you won"
		}
		c.printf("game over: %s\tshots: %d\thits: %d\ttaken: %d\n", verdict, e.Stats.ShotsFired, e.Stats.HitsLanded, e.Stats.HitsTaken)
	case mb.EventConnectionLost:
		c.printf("connection lost: %v\n", e.Err)
	case mb.EventProtocolViolation:
		c.printf("ignored invalid message from opponent\n")
	}
}

// Execute runs one command line.
func (c *Console) Execute(line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "place":
		if len(fields) != 4 {
			return errors.New("usage: place X Y h|v")
		}
		anchor, err := parseCoordinates(fields[1], fields[2])
		if err != nil {
			return err
		}
		dir, err := mb.ParseDirection(fields[3])
		if err != nil {
			return err
		}
		length, err := c.game.NextShip()
		if err != nil {
			return err
		}
		if err := c.game.RequestPlacement(anchor, length, dir); err != nil {
			return err
		}
		c.printf("placed ship of length %d\n", length)
		c.printFleetPrompt()

	case "auto":
		if err := c.game.RequestAutoPlacement(c.rng); err != nil {
			return err
		}
		c.printf("%s", RenderBoard("your fleet", c.game.OwnSnapshot()))
		c.printFleetPrompt()

	case "attack":
		if len(fields) != 3 {
			return errors.New("usage: attack X Y")
		}
		target, err := parseCoordinates(fields[1], fields[2])
		if err != nil {
			return err
		}
		return c.game.RequestAttack(target)

	case "board":
		c.printf("%s\n%s", RenderBoard("your fleet", c.game.OwnSnapshot()), RenderBoard("opponent", c.game.OpponentSnapshot()))

	case "help":
		c.printf("%s", helpText)

	case "quit", "exit":
		return ErrQuit

	default:
		return fmt.Errorf("unknown command: %s", fields[0])
	}
	return nil
}

func (c *Console) printFleetPrompt() {
	if next, err := c.game.NextShip(); err == nil {
		c.printf("next ship length: %d\n", next)
		return
	}
	c.printf("fleet ready\n")
}

// Run reads commands from in until quit, EOF or a closed input.
// Rejected commands are reported and the loop goes on.
func (c *Console) Run(in io.Reader) error {
	c.printf("%s", helpText)
	c.printFleetPrompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		err := c.Execute(scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			c.printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

func parseCoordinates(x, y string) (mb.Coordinates, error) {
	cx, err := strconv.Atoi(x)
	if err != nil {
		return mb.Coordinates{}, fmt.Errorf("invalid x: %s", x)
	}
	cy, err := strconv.Atoi(y)
	if err != nil {
		return mb.Coordinates{}, fmt.Errorf("invalid y: %s", y)
	}
	return mb.NewCoordinates(cx, cy), nil
}
