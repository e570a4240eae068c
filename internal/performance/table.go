package performance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDegenerateTable is returned when a table cannot be interpolated
	// (fewer than two grid lines on an axis, unordered grid, wrong cell dimensions)
	ErrDegenerateTable = errors.New("degenerate performance table")

	// ErrNonFiniteQuery is returned when the query altitude or temperature is NaN or infinite
	ErrNonFiniteQuery = errors.New("non-finite performance query")
)

// Cell is a single chart entry. A cell is either present, carrying the ground
// roll and the total distance over a 50 ft obstacle, or absent when the
// combination is outside the chart's certified envelope.
type Cell struct {
	GroundRoll float64
	Over50ft   float64
	present    bool
}

// Present returns a cell holding chart values
func Present(groundRoll, over50ft float64) Cell {
	return Cell{GroundRoll: groundRoll, Over50ft: over50ft, present: true}
}

// Absent returns an empty chart cell
func Absent() Cell {
	return Cell{}
}

// IsPresent reports whether the cell holds chart values
func (c Cell) IsPresent() bool {
	return c.present
}

// MarshalJSON encodes a present cell as [roll, over50] and an absent cell as null
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.present {
		return []byte("null"), nil
	}
	return json.Marshal([2]float64{c.GroundRoll, c.Over50ft})
}

// UnmarshalJSON accepts [roll, over50] or null
func (c *Cell) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Absent()
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("performance cell: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("performance cell: expected [roll, over50], got %d values", len(pair))
	}
	*c = Present(pair[0], pair[1])
	return nil
}

// Table is a takeoff or landing distance chart indexed by pressure altitude
// (feet) and temperature (Celsius). Cells is indexed [altitude][temperature].
type Table struct {
	Altitudes    []float64 `json:"alts"`
	Temperatures []float64 `json:"temps"`
	Cells        [][]Cell  `json:"data"`
}

// Validate checks that the table can be interpolated
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrDegenerateTable)
	}
	if err := validateAxis("altitude", t.Altitudes); err != nil {
		return err
	}
	if err := validateAxis("temperature", t.Temperatures); err != nil {
		return err
	}

	if len(t.Cells) != len(t.Altitudes) {
		return fmt.Errorf("%w: %d altitude rows for %d altitudes",
			ErrDegenerateTable, len(t.Cells), len(t.Altitudes))
	}
	for i, row := range t.Cells {
		if len(row) != len(t.Temperatures) {
			return fmt.Errorf("%w: row %d has %d cells for %d temperatures",
				ErrDegenerateTable, i, len(row), len(t.Temperatures))
		}
	}
	return nil
}

func validateAxis(name string, grid []float64) error {
	if len(grid) < 2 {
		return fmt.Errorf("%w: %s axis needs at least 2 grid lines, has %d", ErrDegenerateTable, name, len(grid))
	}
	for i, v := range grid {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s grid line %d is not finite", ErrDegenerateTable, name, i)
		}
		if i > 0 && v <= grid[i-1] {
			return fmt.Errorf("%w: %s grid is not strictly increasing at index %d", ErrDegenerateTable, name, i)
		}
	}
	return nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}

	c := &Table{
		Altitudes:    append([]float64(nil), t.Altitudes...),
		Temperatures: append([]float64(nil), t.Temperatures...),
	}
	if t.Cells != nil {
		c.Cells = make([][]Cell, len(t.Cells))
		for i, row := range t.Cells {
			c.Cells[i] = append([]Cell(nil), row...)
		}
	}
	return c
}
