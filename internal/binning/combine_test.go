package binning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragged-data/ragged/internal/array"
	"github.com/ragged-data/ragged/internal/binning"
)

// denseSums reduces a binned array to per-bin sums and returns the values.
func denseSums(t *testing.T, e *binning.Engine, da *array.DataArray) []float64 {
	t.Helper()
	out, err := e.ReduceBins(da, binning.ReduceSum)
	require.NoError(t, err)
	v, ok := out.Dense()
	require.True(t, ok)
	return array.Values[float64](v)
}

func TestCombineCoarsensByOuterEdges(t *testing.T) {
	e := newEngine()
	table := eventTable(t, []float64{0.5, 1.5, 2.5, 3.5}, []float64{1, 2, 3, 4})
	fine := mustVar(t, []string{"x"}, []int{5}, []float64{0, 1, 2, 3, 4})
	binned, err := e.MakeBinned(table, []binning.Target{{Dim: "x", Edges: fine}}, nil)
	require.NoError(t, err)

	// Drop the event coordinate so the target is purely per-bin; the
	// remap then rearranges whole bins instead of rows.
	buf := mustBinnedBuffer(t, binned)
	buf.DropCoord("x")

	coarse := mustVar(t, []string{"x"}, []int{3}, []float64{0, 2, 4})
	out, err := e.MakeBinned(binned, []binning.Target{{Dim: "x", Edges: coarse}}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, out.Shape())
	assert.Equal(t, []int64{2, 2}, binSizes(t, out))
	assert.Equal(t, []float64{3, 7}, denseSums(t, e, out))
	edgesOut, ok := out.Coord("x")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 2, 4}, array.Values[float64](edgesOut))
}

func TestConcatBinsSingleBin(t *testing.T) {
	e := newEngine()
	table := eventTable(t, []float64{0.5, 1.5, 2.5, 0.1, 1.9}, []float64{1, 2, 3, 4, 5})
	edges := mustVar(t, []string{"x"}, []int{4}, []float64{0, 1, 2, 3})
	binned, err := e.MakeBinned(table, []binning.Target{{Dim: "x", Edges: edges}}, nil)
	require.NoError(t, err)

	out, err := e.ConcatBins(binned, []string{"x"})
	require.NoError(t, err)

	b, ok := out.Binned()
	require.True(t, ok)
	assert.Equal(t, 0, len(b.Dims()))
	assert.Equal(t, []int64{5}, array.Values[int64](b.Sizes()))
	_, hasX := out.Coord("x")
	assert.False(t, hasX)
}

func TestConcatRoundTripReproducesSums(t *testing.T) {
	e := newEngine()
	table := eventTable(t, []float64{0.5, 1.5, 2.5, 0.1, 1.9}, []float64{1, 2, 3, 4, 5})
	edges := mustVar(t, []string{"x"}, []int{4}, []float64{0, 1, 2, 3})
	binned, err := e.MakeBinned(table, []binning.Target{{Dim: "x", Edges: edges}}, nil)
	require.NoError(t, err)
	want := denseSums(t, e, binned)

	merged, err := e.ConcatBins(binned, []string{"x"})
	require.NoError(t, err)

	// Re-splitting along the original boundaries reproduces the per-bin
	// sums, though not necessarily the original row order.
	resplit, err := e.MakeBinned(merged, []binning.Target{{Dim: "x", Edges: edges}}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, denseSums(t, e, resplit))
}

func TestCombineConservesTotalRows(t *testing.T) {
	e := newEngine()
	x := make([]float64, 50)
	w := make([]float64, 50)
	for i := range x {
		x[i] = float64(i) / 5
		w[i] = 1
	}
	table := eventTable(t, x, w)
	fine := mustVar(t, []string{"x"}, []int{11}, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	binned, err := e.MakeBinned(table, []binning.Target{{Dim: "x", Edges: fine}}, nil)
	require.NoError(t, err)
	mustBinnedBuffer(t, binned).DropCoord("x")

	coarse := mustVar(t, []string{"x"}, []int{3}, []float64{0, 5, 10})
	out, err := e.MakeBinned(binned, []binning.Target{{Dim: "x", Edges: coarse}}, nil)
	require.NoError(t, err)

	var before, after int64
	for _, s := range binSizes(t, binned) {
		before += s
	}
	for _, s := range binSizes(t, out) {
		after += s
	}
	assert.Equal(t, before, after)
}

func TestCombineMaskedBinContributesNothing(t *testing.T) {
	e := newEngine()
	buf := mustVar(t, []string{"row"}, []int{4}, []float64{1, 2, 3, 4})
	begin := mustVar(t, []string{"x"}, []int{4}, []int64{0, 1, 2, 3})
	end := mustVar(t, []string{"x"}, []int{4}, []int64{1, 2, 3, 4})
	binned, err := array.NewBinned("row", begin, end, buf)
	require.NoError(t, err)
	da := array.NewDataArray(binned)
	da.SetCoord("x", mustVar(t, []string{"x"}, []int{5}, []float64{0, 1, 2, 3, 4}))
	da.SetMask("bad", mustVar(t, []string{"x"}, []int{4}, []bool{false, true, false, false}))

	// The masked bin is compacted away before the whole-bin remap; the
	// surviving edge coordinate positions must stay aligned with it.
	coarse := mustVar(t, []string{"x"}, []int{3}, []float64{0, 2, 4})
	out, err := e.MakeBinned(da, []binning.Target{{Dim: "x", Edges: coarse}}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, binSizes(t, out))
	assert.Equal(t, []float64{1, 7}, denseSums(t, e, out))
	_, hasMask := out.Mask("bad")
	assert.False(t, hasMask, "applied mask should be removed")
}

func TestCombineCountOnMultiDimCoordRejected(t *testing.T) {
	e := newEngine()
	table := eventTable(t, []float64{0.5, 1.5}, []float64{1, 2})
	edges := mustVar(t, []string{"x"}, []int{3}, []float64{0, 1, 2})
	binned, err := e.MakeBinned(table, []binning.Target{{Dim: "x", Edges: edges}}, nil)
	require.NoError(t, err)
	mustBinnedBuffer(t, binned).DropCoord("x")

	// A per-bin coordinate spanning two dimensions cannot drive an
	// automatic bin count.
	bad := mustVar(t, []string{"x", "extra"}, []int{2, 1}, []float64{1, 2})
	binned.SetCoord("pos", bad)
	_, err = e.CombineBins(binned, []binning.Target{{Dim: "pos", Count: 4}}, nil)
	var dimErr *binning.DimensionError
	require.ErrorAs(t, err, &dimErr)
}

func mustBinnedBuffer(t *testing.T, da *array.DataArray) *array.DataArray {
	t.Helper()
	binned, ok := da.Binned()
	require.True(t, ok)
	buf, ok := binned.Buffer().(*array.DataArray)
	require.True(t, ok)
	return buf
}
