package console

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"

	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

var cellSymbols = map[mb.Cell]string{
	mb.CellEmpty: "~",
	mb.CellShip:  "S",
	mb.CellHit:   "X",
	mb.CellMiss:  "O",
}

// RenderBoard draws a snapshot as a grid with column numbers on top
// and row numbers on the left.
func RenderBoard(title string, board mb.Snapshot) string {
	var buffer bytes.Buffer
	tabWriter := tabwriter.NewWriter(&buffer, 2, 0, 1, ' ', 0)

	fmt.Fprintln(tabWriter, title)
	fmt.Fprint(tabWriter, "\t")
	for column := 0; column < mb.GridSize; column++ {
		fmt.Fprint(tabWriter, strconv.Itoa(column)+"\t")
	}
	fmt.Fprint(tabWriter, "\n")

	for row := 0; row < mb.GridSize; row++ {
		fmt.Fprint(tabWriter, strconv.Itoa(row)+"\t")
		for column := 0; column < mb.GridSize; column++ {
			symbol, ok := cellSymbols[board[row][column]]
			if !ok {
				symbol = "?"
			}
			fmt.Fprint(tabWriter, symbol+"\t")
		}
		fmt.Fprint(tabWriter, "\n")
	}
	tabWriter.Flush()
	return buffer.String()
}
