package binning_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragged-data/ragged/internal/array"
	"github.com/ragged-data/ragged/internal/binning"
)

// reducible builds a 3-bin container with sizes {2, 0, 1} over values
// {1, 2} {} {5}.
func reducible(t *testing.T) *array.DataArray {
	t.Helper()
	buf := mustVar(t, []string{"row"}, []int{3}, []float64{1, 2, 5})
	begin := mustVar(t, []string{"x"}, []int{3}, []int64{0, 2, 2})
	end := mustVar(t, []string{"x"}, []int{3}, []int64{2, 2, 3})
	binned, err := array.NewBinned("row", begin, end, buf)
	require.NoError(t, err)
	return array.NewDataArray(binned)
}

func TestReduceSumEmptyBinIsZero(t *testing.T) {
	e := newEngine()
	out, err := e.ReduceBins(reducible(t), binning.ReduceSum)
	require.NoError(t, err)
	ov, ok := out.Dense()
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, ov.Dims())
	assert.Equal(t, []float64{3, 0, 5}, array.Values[float64](ov))
}

func TestReduceMeanEmptyBinIsNaN(t *testing.T) {
	e := newEngine()
	out, err := e.ReduceBins(reducible(t), binning.ReduceMean)
	require.NoError(t, err)
	ov, _ := out.Dense()
	vals := array.Values[float64](ov)
	assert.Equal(t, 1.5, vals[0])
	assert.True(t, math.IsNaN(vals[1]))
	assert.Equal(t, 5.0, vals[2])
}

func TestReduceMinMax(t *testing.T) {
	e := newEngine()
	da := reducible(t)

	min, err := e.ReduceBins(da, binning.ReduceMin)
	require.NoError(t, err)
	mv, _ := min.Dense()
	assert.Equal(t, []float64{1, math.Inf(1), 5}, array.Values[float64](mv))

	max, err := e.ReduceBins(da, binning.ReduceMax)
	require.NoError(t, err)
	xv, _ := max.Dense()
	assert.Equal(t, []float64{2, math.Inf(-1), 5}, array.Values[float64](xv))
}

func TestReduceAllAny(t *testing.T) {
	e := newEngine()
	buf := mustVar(t, []string{"row"}, []int{3}, []bool{true, false, true})
	begin := mustVar(t, []string{"x"}, []int{3}, []int64{0, 2, 2})
	end := mustVar(t, []string{"x"}, []int{3}, []int64{2, 2, 3})
	binned, err := array.NewBinned("row", begin, end, buf)
	require.NoError(t, err)
	da := array.NewDataArray(binned)

	all, err := e.ReduceBins(da, binning.ReduceAll)
	require.NoError(t, err)
	av, _ := all.Dense()
	assert.Equal(t, []bool{false, true, true}, array.Values[bool](av))

	any, err := e.ReduceBins(da, binning.ReduceAny)
	require.NoError(t, err)
	yv, _ := any.Dense()
	assert.Equal(t, []bool{true, false, true}, array.Values[bool](yv))
}

func TestReduceSumRespectsEventMasks(t *testing.T) {
	e := newEngine()
	values := mustVar(t, []string{"row"}, []int{3}, []float64{1, 100, 5})
	events := array.NewDataArray(values)
	events.SetMask("bad", mustVar(t, []string{"row"}, []int{3}, []bool{false, true, false}))
	begin := mustVar(t, []string{"x"}, []int{2}, []int64{0, 2})
	end := mustVar(t, []string{"x"}, []int{2}, []int64{2, 3})
	binned, err := array.NewBinned("row", begin, end, events)
	require.NoError(t, err)

	out, err := e.ReduceBins(array.NewDataArray(binned), binning.ReduceSum)
	require.NoError(t, err)
	ov, _ := out.Dense()
	assert.Equal(t, []float64{1, 5}, array.Values[float64](ov))
}

func TestReduceSumPropagatesVariances(t *testing.T) {
	e := newEngine()
	buf := mustVar(t, []string{"row"}, []int{3}, []float64{1, 2, 5})
	require.NoError(t, array.SetVariances(buf, []float64{0.1, 0.2, 0.5}))
	begin := mustVar(t, []string{"x"}, []int{2}, []int64{0, 2})
	end := mustVar(t, []string{"x"}, []int{2}, []int64{2, 3})
	binned, err := array.NewBinned("row", begin, end, buf)
	require.NoError(t, err)

	out, err := e.ReduceBins(array.NewDataArray(binned), binning.ReduceSum)
	require.NoError(t, err)
	ov, _ := out.Dense()
	assert.InDeltaSlice(t, []float64{0.3, 0.5}, array.Variances[float64](ov), 1e-12)
}

func TestReduceIntSum(t *testing.T) {
	e := newEngine()
	buf := mustVar(t, []string{"row"}, []int{3}, []int64{1, 2, 5})
	begin := mustVar(t, []string{"x"}, []int{2}, []int64{0, 2})
	end := mustVar(t, []string{"x"}, []int{2}, []int64{2, 3})
	binned, err := array.NewBinned("row", begin, end, buf)
	require.NoError(t, err)

	out, err := e.ReduceBins(array.NewDataArray(binned), binning.ReduceSum)
	require.NoError(t, err)
	ov, _ := out.Dense()
	assert.Equal(t, array.Int64, ov.DType())
	assert.Equal(t, []int64{3, 5}, array.Values[int64](ov))
}

func TestReduceDenseRejected(t *testing.T) {
	e := newEngine()
	da := array.NewDataArray(mustVar(t, []string{"x"}, []int{2}, []float64{1, 2}))
	_, err := e.ReduceBins(da, binning.ReduceSum)
	var argErr *binning.ArgumentError
	require.ErrorAs(t, err, &argErr)
}
