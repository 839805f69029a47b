package lookup_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragged-data/ragged/internal/array"
	"github.com/ragged-data/ragged/internal/binning"
	"github.com/ragged-data/ragged/internal/lookup"
)

func mustVar[T array.Elem](t *testing.T, dims []string, shape []int, values []T) *array.Variable {
	t.Helper()
	v, err := array.NewVariable(dims, shape, values)
	require.NoError(t, err)
	return v
}

// histTable builds a histogram-shaped table: edges [0,1,2,3] with values
// [3,2,1].
func histTable(t *testing.T) *array.DataArray {
	t.Helper()
	data := mustVar(t, []string{"x"}, []int{3}, []float64{3, 2, 1})
	edges := mustVar(t, []string{"x"}, []int{4}, []float64{0, 1, 2, 3})
	return array.NewDataArray(data).SetCoord("x", edges)
}

func TestLookupHistogramTable(t *testing.T) {
	table, err := lookup.New(histTable(t), "x")
	require.NoError(t, err)

	q := mustVar(t, []string{"q"}, []int{3}, []float64{0.1, 1.4, 2.9})
	out, err := table.Eval(q)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2, 1}, array.Values[float64](out))
}

func TestLookupOutOfRangeIsFill(t *testing.T) {
	table, err := lookup.New(histTable(t), "x")
	require.NoError(t, err)

	q := mustVar(t, []string{"q"}, []int{3}, []float64{-1, 3, 1.5})
	out, err := table.Eval(q)
	require.NoError(t, err)
	vals := array.Values[float64](out)
	assert.True(t, math.IsNaN(vals[0]), "below range")
	assert.True(t, math.IsNaN(vals[1]), "exactly on the exclusive upper edge")
	assert.Equal(t, 2.0, vals[2])
}

func TestLookupExplicitFill(t *testing.T) {
	table, err := lookup.New(histTable(t), "x", lookup.WithFill(-7))
	require.NoError(t, err)

	q := mustVar(t, []string{"q"}, []int{1}, []float64{99})
	out, err := table.Eval(q)
	require.NoError(t, err)
	assert.Equal(t, []float64{-7}, array.Values[float64](out))
}

func TestLookupIntegerFillDefaultsToZero(t *testing.T) {
	data := mustVar(t, []string{"x"}, []int{2}, []int64{5, 6})
	edges := mustVar(t, []string{"x"}, []int{3}, []float64{0, 1, 2})
	da := array.NewDataArray(data).SetCoord("x", edges)
	table, err := lookup.New(da, "x")
	require.NoError(t, err)

	q := mustVar(t, []string{"q"}, []int{2}, []float64{0.5, 9})
	out, err := table.Eval(q)
	require.NoError(t, err)
	assert.Equal(t, array.Int64, out.DType())
	assert.Equal(t, []int64{5, 0}, array.Values[int64](out))
}

func TestLookupPreviousMode(t *testing.T) {
	data := mustVar(t, []string{"x"}, []int{3}, []float64{1, 2, 3})
	points := mustVar(t, []string{"x"}, []int{3}, []float64{0, 10, 20})
	da := array.NewDataArray(data).SetCoord("x", points)
	table, err := lookup.New(da, "x", lookup.WithMode(lookup.ModePrevious))
	require.NoError(t, err)

	q := mustVar(t, []string{"q"}, []int{4}, []float64{5, 15, 25, -5})
	out, err := table.Eval(q)
	require.NoError(t, err)
	vals := array.Values[float64](out)
	assert.Equal(t, []float64{1, 2, 3}, vals[:3])
	assert.True(t, math.IsNaN(vals[3]), "before the first point")
}

func TestLookupNearestMode(t *testing.T) {
	data := mustVar(t, []string{"x"}, []int{3}, []float64{1, 2, 3})
	points := mustVar(t, []string{"x"}, []int{3}, []float64{0, 10, 20})
	da := array.NewDataArray(data).SetCoord("x", points)
	table, err := lookup.New(da, "x", lookup.WithMode(lookup.ModeNearest))
	require.NoError(t, err)

	q := mustVar(t, []string{"q"}, []int{4}, []float64{4, 6, -100, 100})
	out, err := table.Eval(q)
	require.NoError(t, err)
	// Nearest extends to both infinities; nothing is out of range.
	assert.Equal(t, []float64{1, 2, 1, 3}, array.Values[float64](out))
}

func TestLookupModeOnEdgeTableRejected(t *testing.T) {
	_, err := lookup.New(histTable(t), "x", lookup.WithMode(lookup.ModePrevious))
	var argErr *binning.ArgumentError
	require.ErrorAs(t, err, &argErr)
}

func TestLookupMergesEqualAdjacent(t *testing.T) {
	data := mustVar(t, []string{"x"}, []int{4}, []int64{7, 7, 7, 9})
	edges := mustVar(t, []string{"x"}, []int{5}, []float64{0, 1, 2, 3, 4})
	da := array.NewDataArray(data).SetCoord("x", edges)
	table, err := lookup.New(da, "x")
	require.NoError(t, err)

	assert.Equal(t, 2, table.Intervals())
	q := mustVar(t, []string{"q"}, []int{4}, []float64{0.5, 1.5, 2.5, 3.5})
	out, err := table.Eval(q)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 7, 7, 9}, array.Values[int64](out))
}

func TestLookupMergesBoolTable(t *testing.T) {
	data := mustVar(t, []string{"x"}, []int{4}, []bool{true, true, true, false})
	edges := mustVar(t, []string{"x"}, []int{5}, []float64{0, 1, 2, 3, 4})
	da := array.NewDataArray(data).SetCoord("x", edges)
	table, err := lookup.New(da, "x")
	require.NoError(t, err)

	assert.Equal(t, 2, table.Intervals())
	q := mustVar(t, []string{"q"}, []int{5}, []float64{0.5, 1.5, 2.5, 3.5, 9})
	out, err := table.Eval(q)
	require.NoError(t, err)
	assert.Equal(t, array.Bool, out.DType())
	assert.Equal(t, []bool{true, true, true, false, false}, array.Values[bool](out))
}

func TestLookupFloatTableNotMerged(t *testing.T) {
	data := mustVar(t, []string{"x"}, []int{3}, []float64{5, 5, 5})
	edges := mustVar(t, []string{"x"}, []int{4}, []float64{0, 1, 2, 3})
	da := array.NewDataArray(data).SetCoord("x", edges)
	table, err := lookup.New(da, "x")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Intervals())
}

func TestLookupMaskedIntervalIsFill(t *testing.T) {
	da := histTable(t)
	da.SetMask("bad", mustVar(t, []string{"x"}, []int{3}, []bool{false, true, false}))
	table, err := lookup.New(da, "x")
	require.NoError(t, err)

	q := mustVar(t, []string{"q"}, []int{2}, []float64{1.5, 2.5})
	out, err := table.Eval(q)
	require.NoError(t, err)
	vals := array.Values[float64](out)
	assert.True(t, math.IsNaN(vals[0]), "masked interval")
	assert.Equal(t, 1.0, vals[1])
}

func TestLookupUnknownCoordinate(t *testing.T) {
	_, err := lookup.New(histTable(t), "y")
	var coordErr *binning.CoordError
	require.ErrorAs(t, err, &coordErr)
}
