package performance

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoByTwo() *Table {
	return &Table{
		Altitudes:    []float64{0, 1000},
		Temperatures: []float64{0, 10},
		Cells: [][]Cell{
			{Present(100, 200), Present(110, 210)},
			{Present(120, 220), Present(130, 230)},
		},
	}
}

// threeByThree has an absent cell in the top right corner, like the
// hot-and-high corner of a real takeoff chart.
func threeByThree() *Table {
	return &Table{
		Altitudes:    []float64{0, 1000, 2000},
		Temperatures: []float64{0, 10, 20},
		Cells: [][]Cell{
			{Present(600, 1200), Present(650, 1300), Present(700, 1400)},
			{Present(660, 1320), Present(715, 1430), Present(770, 1540)},
			{Present(730, 1460), Present(790, 1580), Absent()},
		},
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	res, err := Interpolate(twoByTwo(), 500, 5)
	require.NoError(t, err)
	require.True(t, res.Available)
	assert.InDelta(t, 115.0, res.GroundRollFt, 1e-9)
	assert.InDelta(t, 215.0, res.Over50ftFt, 1e-9)
}

func TestInterpolate_MissingCornerIsUnavailable(t *testing.T) {
	tbl := twoByTwo()
	tbl.Cells[1][1] = Absent()

	res, err := Interpolate(tbl, 500, 5)
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, Unavailable, res)
}

func TestInterpolate_EachMissingCorner(t *testing.T) {
	for _, corner := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		tbl := twoByTwo()
		tbl.Cells[corner[0]][corner[1]] = Absent()

		res, err := Interpolate(tbl, 250, 7)
		require.NoError(t, err)
		assert.False(t, res.Available, "corner %v", corner)
	}
}

func TestInterpolate_ExactAtGridPoints(t *testing.T) {
	tbl := threeByThree()
	for i, alt := range tbl.Altitudes {
		for j, temp := range tbl.Temperatures {
			cell := tbl.Cells[i][j]
			if !cell.IsPresent() {
				continue
			}
			res, err := Interpolate(tbl, alt, temp)
			require.NoError(t, err)
			require.True(t, res.Available, "alt=%v temp=%v", alt, temp)
			assert.InDelta(t, cell.GroundRoll, res.GroundRollFt, 1e-9)
			assert.InDelta(t, cell.Over50ft, res.Over50ftFt, 1e-9)
		}
	}
}

func TestInterpolate_ClampsBelowAndAbove(t *testing.T) {
	tbl := twoByTwo()

	cases := []struct {
		alt, temp         float64
		clampAlt, clampTp float64
	}{
		{-500, 5, 0, 5},
		{4000, 5, 1000, 5},
		{500, -30, 500, 0},
		{500, 45, 500, 10},
		{-100, 99, 0, 10},
	}

	for _, c := range cases {
		got, err := Interpolate(tbl, c.alt, c.temp)
		require.NoError(t, err)
		want, err := Interpolate(tbl, c.clampAlt, c.clampTp)
		require.NoError(t, err)
		assert.Equal(t, want, got, "alt=%v temp=%v", c.alt, c.temp)
	}
}

func TestInterpolate_ClampDoesNotEscapeAbsentCorner(t *testing.T) {
	// Far above the hot-and-high corner still brackets the absent cell
	res, err := Interpolate(threeByThree(), 9000, 45)
	require.NoError(t, err)
	assert.False(t, res.Available)
}

func TestInterpolate_FirstGridLineBracketsWithFirstInterval(t *testing.T) {
	tbl := threeByThree()

	res, err := Interpolate(tbl, 0, 0)
	require.NoError(t, err)
	require.True(t, res.Available)
	assert.InDelta(t, 600.0, res.GroundRollFt, 1e-9)

	// An absent cell in the second interval must not affect a query on the first grid line
	tbl.Cells[2][2] = Present(850, 1700)
	tbl.Cells[1][2] = Absent()
	res, err = Interpolate(tbl, 0, 0)
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestInterpolate_MonotonicInAltitude(t *testing.T) {
	tbl := threeByThree()

	prev := -math.MaxFloat64
	prev50 := -math.MaxFloat64
	for alt := 0.0; alt <= 1000; alt += 50 {
		res, err := Interpolate(tbl, alt, 5)
		require.NoError(t, err)
		require.True(t, res.Available)
		assert.GreaterOrEqual(t, res.GroundRollFt, prev)
		assert.GreaterOrEqual(t, res.Over50ftFt, prev50)
		prev, prev50 = res.GroundRollFt, res.Over50ftFt
	}
}

func TestInterpolate_NilTableIsUnavailable(t *testing.T) {
	res, err := Interpolate(nil, 1000, 10)
	require.NoError(t, err)
	assert.False(t, res.Available)
}

func TestInterpolate_NonFiniteQuery(t *testing.T) {
	_, err := Interpolate(twoByTwo(), math.NaN(), 10)
	assert.ErrorIs(t, err, ErrNonFiniteQuery)

	_, err = Interpolate(twoByTwo(), 0, math.Inf(1))
	assert.ErrorIs(t, err, ErrNonFiniteQuery)
}

func TestInterpolate_DegenerateTables(t *testing.T) {
	single := &Table{
		Altitudes:    []float64{0},
		Temperatures: []float64{0, 10},
		Cells:        [][]Cell{{Present(1, 2), Present(3, 4)}},
	}
	_, err := Interpolate(single, 0, 0)
	assert.ErrorIs(t, err, ErrDegenerateTable)

	unordered := twoByTwo()
	unordered.Temperatures = []float64{10, 0}
	_, err = Interpolate(unordered, 0, 0)
	assert.ErrorIs(t, err, ErrDegenerateTable)

	short := twoByTwo()
	short.Cells = short.Cells[:1]
	_, err = Interpolate(short, 0, 0)
	assert.ErrorIs(t, err, ErrDegenerateTable)

	ragged := twoByTwo()
	ragged.Cells[1] = ragged.Cells[1][:1]
	_, err = Interpolate(ragged, 0, 0)
	assert.ErrorIs(t, err, ErrDegenerateTable)
}

func TestCell_JSON(t *testing.T) {
	var row []Cell
	require.NoError(t, json.Unmarshal([]byte(`[[655, 1245], null]`), &row))
	require.Len(t, row, 2)
	assert.True(t, row[0].IsPresent())
	assert.Equal(t, 655.0, row[0].GroundRoll)
	assert.Equal(t, 1245.0, row[0].Over50ft)
	assert.False(t, row[1].IsPresent())

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `[[655,1245],null]`, string(out))

	var bad Cell
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &bad))
}

func TestTable_CloneIsDeep(t *testing.T) {
	orig := twoByTwo()
	c := orig.Clone()
	c.Altitudes[0] = -1
	c.Cells[0][0] = Absent()

	assert.Equal(t, 0.0, orig.Altitudes[0])
	assert.True(t, orig.Cells[0][0].IsPresent())
	assert.Nil(t, (*Table)(nil).Clone())
}
