package term

import (
	"fmt"
	"io"
	"strconv"

	"github.com/DoyleJ11/room-status/internal/room"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Marks prefixed to a populated cell's name.
const (
	MarkCurrent    = "*"
	MarkUnassigned = "+"
)

type Printer struct {
	Plain bool // no ANSI colors
}

// Print writes grid as a table, one line per row, followed by the viewer's
// seat. Ragged rows are padded.
func (p Printer) Print(w io.Writer, grid room.Grid, viewer string) {
	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}

	header := make([]string, width+1)
	for c := 0; c < width; c++ {
		header[c+1] = strconv.Itoa(c)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)

	for r, row := range grid {
		line := make([]string, width+1)
		line[0] = strconv.Itoa(r)
		for c, cell := range row {
			line[c+1] = p.cellText(cell, viewer)
		}
		table.Append(line)
	}
	table.Render()

	if seat, ok := grid.Find(viewer); ok {
		fmt.Fprintf(w, "seat: row %d, col %d\n", seat.Row, seat.Col)
	} else {
		fmt.Fprintln(w, "seat: none")
	}
}

func (p Printer) cellText(cell *room.Cell, viewer string) string {
	if cell == nil {
		return ""
	}

	text := cell.Name
	switch {
	case cell.OwnedBy(viewer):
		text = MarkCurrent + text
	case cell.Unassigned():
		text = MarkUnassigned + text
	}

	if p.Plain || cell.Status == nil {
		return text
	}
	switch *cell.Status {
	case room.StatusGreen:
		return color.Green.Sprint(text)
	case room.StatusYellow:
		return color.Yellow.Sprint(text)
	case room.StatusRed:
		return color.Red.Sprint(text)
	default:
		return text
	}
}
