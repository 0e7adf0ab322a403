package room

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedResponse = errors.New("malformed room layout")

type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// Cell is one populated grid position. Empty positions are nil in a Grid.
type Cell struct {
	Name     string  `json:"name"`
	Hostname *string `json:"hostname"`
	Status   *Status `json:"status"`
}

// Grid is rows outer, columns inner. Rows may differ in length.
type Grid [][]*Cell

// Seat addresses a cell by position.
type Seat struct {
	Row int
	Col int
}

func (c *Cell) Unassigned() bool {
	return c.Hostname == nil
}

func (c *Cell) OwnedBy(hostname string) bool {
	return c.Hostname != nil && *c.Hostname == hostname
}

// StatusClass is the style class derived from the cell status. Unknown values are kept verbatim.
func (c *Cell) StatusClass() string {
	if c.Status == nil {
		return "status-null"
	}
	return StatusClass(*c.Status)
}

func StatusClass(s Status) string {
	return "status-" + string(s)
}

// ParseGrid decodes a layout body. The top level and every row must be JSON arrays.
func ParseGrid(data []byte) (Grid, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: layout is null", ErrMalformedResponse)
	}

	grid := make(Grid, 0, len(rows))
	for i, raw := range rows {
		var row []*Cell
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedResponse, i, err)
		}
		if row == nil {
			return nil, fmt.Errorf("%w: row %d is null", ErrMalformedResponse, i)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// Find returns the seat held by hostname, if any.
func (g Grid) Find(hostname string) (Seat, bool) {
	for r, row := range g {
		for c, cell := range row {
			if cell != nil && cell.OwnedBy(hostname) {
				return Seat{Row: r, Col: c}, true
			}
		}
	}
	return Seat{}, false
}
