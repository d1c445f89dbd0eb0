package console

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

// fakeGame drives a GameState directly, without a peer.
type fakeGame struct {
	state    *mb.GameState
	attacked []mb.Coordinates
}

func newFakeGame() *fakeGame {
	return &fakeGame{state: mb.NewGameState(true, mb.WithFleet([]int{3, 1}))}
}

func (f *fakeGame) RequestPlacement(anchor mb.Coordinates, length int, dir mb.Direction) error {
	return f.state.CommitPlacement(anchor, length, dir)
}

func (f *fakeGame) RequestAutoPlacement(rng *rand.Rand) error {
	return f.state.AutoPlace(rng)
}

func (f *fakeGame) RequestAttack(target mb.Coordinates) error {
	if err := f.state.BeginAttack(target); err != nil {
		return err
	}
	f.attacked = append(f.attacked, target)
	return nil
}

func (f *fakeGame) NextShip() (int, error) {
	return f.state.NextShip()
}

func (f *fakeGame) OwnSnapshot() mb.Snapshot {
	return f.state.OwnSnapshot(true)
}

func (f *fakeGame) OpponentSnapshot() mb.Snapshot {
	return f.state.OpponentSnapshot()
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected error
		contains string
	}{
		{name: "place", lines: []string{"place 0 0 h"}, contains: "placed ship of length 3"},
		{name: "place vertical", lines: []string{"place 2 2 vertical"}, contains: "next ship length: 1"},
		{name: "fleet ready", lines: []string{"place 0 0 h", "place 0 5 v"}, contains: "fleet ready"},
		{name: "place out of bounds", lines: []string{"place 8 0 h"}, expected: cerr.ErrOutOfBounds},
		{name: "place overlapping", lines: []string{"place 0 0 h", "place 1 0 v"}, expected: cerr.ErrOverlap},
		{name: "place after fleet is done", lines: []string{"auto", "place 0 0 h"}, expected: cerr.ErrPlacementComplete},
		{name: "attack before placing", lines: []string{"attack 1 1"}, expected: cerr.ErrPlacementIncomplete},
		{name: "attack twice without answer", lines: []string{"auto", "attack 1 1", "attack 2 2"}, expected: cerr.ErrNotYourTurn},
		{name: "help", lines: []string{"help"}, contains: "attack X Y"},
		{name: "board", lines: []string{"board"}, contains: "opponent"},
		{name: "quit", lines: []string{"quit"}, expected: ErrQuit},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			c := New(newFakeGame(), &out, rand.New(rand.NewSource(7)))

			var err error
			for _, line := range test.lines {
				if err = c.Execute(line); err != nil {
					break
				}
			}

			if test.expected != nil {
				if !errors.Is(err, test.expected) {
					t.Fatalf("expected error: %v\tgot: %v", test.expected, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), test.contains) {
				t.Fatalf("expected output to contain %q\tgot: %s", test.contains, out.String())
			}
		})
	}
}

func TestExecuteBadInput(t *testing.T) {
	for _, line := range []string{"place 1 h", "place a 1 h", "place 1 1 diagonal", "attack 1", "attack x 1", "fire 1 1"} {
		t.Run(line, func(t *testing.T) {
			c := New(newFakeGame(), &bytes.Buffer{}, rand.New(rand.NewSource(1)))
			if err := c.Execute(line); err == nil {
				t.Fatalf("expected error for %q", line)
			}
		})
	}
}

func TestAttackForwarded(t *testing.T) {
	game := newFakeGame()
	c := New(game, &bytes.Buffer{}, rand.New(rand.NewSource(1)))

	for _, line := range []string{"auto", "attack 4 6"} {
		if err := c.Execute(line); err != nil {
			t.Fatal(err)
		}
	}
	if len(game.attacked) != 1 || game.attacked[0] != mb.NewCoordinates(4, 6) {
		t.Fatalf("expected attack at (4,6)\tgot: %v", game.attacked)
	}
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	c := New(newFakeGame(), &out, rand.New(rand.NewSource(1)))

	in := strings.NewReader("place 0 0 h\nnonsense\nquit\nplace 0 5 v\n")
	if err := c.Run(in); err != nil {
		t.Fatal(err)
	}

	output := out.String()
	if !strings.Contains(output, "error: unknown command: nonsense") {
		t.Fatalf("expected the bad command to be reported\tgot: %s", output)
	}
	if strings.Contains(output, "fleet ready") {
		t.Fatal("commands after quit must not run")
	}
}

func TestNotify(t *testing.T) {
	tests := []struct {
		event    mb.Event
		expected string
	}{
		{
			event:    mb.Event{Kind: mb.EventOwnBoardChanged, Shot: &mb.Shot{Target: mb.NewCoordinates(1, 2), Outcome: mb.CellHit}},
			expected: "opponent fired at (1,2): hit",
		},
		{
			event:    mb.Event{Kind: mb.EventOpponentBoardChanged, Shot: &mb.Shot{Target: mb.NewCoordinates(3, 4), Outcome: mb.CellMiss}},
			expected: "your shot at (3,4): miss",
		},
		{event: mb.Event{Kind: mb.EventTurnChanged, IsMyTurn: true}, expected: "your turn"},
		{event: mb.Event{Kind: mb.EventGameOver, Won: true, Stats: mb.Stats{ShotsFired: 30}}, expected: "you won\tshots: 30"},
		{event: mb.Event{Kind: mb.EventConnectionLost, Err: errors.New("eof")}, expected: "connection lost: eof"},
	}

	for _, test := range tests {
		t.Run(test.event.Kind.String(), func(t *testing.T) {
			var out bytes.Buffer
			New(newFakeGame(), &out, nil).Notify(test.event)
			if !strings.Contains(out.String(), test.expected) {
				t.Fatalf("expected output: %q\tgot: %q", test.expected, out.String())
			}
		})
	}
}

func TestRenderBoard(t *testing.T) {
	var board mb.Snapshot
	board[0][0] = mb.CellShip
	board[0][1] = mb.CellHit
	board[9][9] = mb.CellMiss

	rendered := RenderBoard("your fleet", board)
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	if len(lines) != mb.GridSize+2 {
		t.Fatalf("expected lines: %d\tgot: %d", mb.GridSize+2, len(lines))
	}
	if lines[0] != "your fleet" {
		t.Fatalf("expected title line\tgot: %q", lines[0])
	}
	if got := strings.Fields(lines[2]); got[1] != "S" || got[2] != "X" || got[3] != "~" {
		t.Fatalf("unexpected first row: %q", lines[2])
	}
	if got := strings.Fields(lines[11]); got[0] != "9" || got[10] != "O" {
		t.Fatalf("unexpected last row: %q", lines[11])
	}
}
