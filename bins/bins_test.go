package bins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragged-data/ragged/array"
	"github.com/ragged-data/ragged/bins"
)

func table(t *testing.T) *array.DataArray {
	t.Helper()
	w, err := array.NewVariable([]string{"row"}, []int{5}, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	x, err := array.NewVariable([]string{"row"}, []int{5}, []float64{0.5, 1.5, 2.5, 0.1, 1.9})
	require.NoError(t, err)
	return array.NewDataArray(w).SetCoord("x", x)
}

func edges(t *testing.T, vals ...float64) *array.Variable {
	t.Helper()
	v, err := array.NewVariable([]string{"x"}, []int{len(vals)}, vals)
	require.NoError(t, err)
	return v
}

func TestBinAndViewSum(t *testing.T) {
	binned, err := bins.Bin(table(t), bins.Edges("x", edges(t, 0, 1, 2, 3)))
	require.NoError(t, err)

	view, err := bins.View(binned)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 2, 1}, array.Values[int64](view.Size()))

	sum, err := view.Sum()
	require.NoError(t, err)
	sv, ok := sum.Dense()
	require.True(t, ok)
	assert.Equal(t, []float64{5, 7, 3}, array.Values[float64](sv))
}

func TestHistMatchesBinThenSum(t *testing.T) {
	e := edges(t, 0, 1, 2, 3)
	hist, err := bins.Hist(table(t), bins.Edges("x", e))
	require.NoError(t, err)
	hv, _ := hist.Dense()

	binned, err := bins.Bin(table(t), bins.Edges("x", e))
	require.NoError(t, err)
	view, _ := bins.View(binned)
	sum, err := view.Sum()
	require.NoError(t, err)
	sv, _ := sum.Dense()

	assert.Equal(t, array.Values[float64](sv), array.Values[float64](hv))
}

func TestGroupByDistinctValues(t *testing.T) {
	w, err := array.NewVariable([]string{"row"}, []int{4}, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	label, err := array.NewVariable([]string{"row"}, []int{4}, []int64{2, 7, 2, 7})
	require.NoError(t, err)
	da := array.NewDataArray(w).SetCoord("label", label)

	grouped, err := bins.Group(da, bins.GroupBy("label"))
	require.NoError(t, err)
	view, _ := bins.View(grouped)
	assert.Equal(t, []int64{2, 2}, array.Values[int64](view.Size()))
}

func TestRebinConservesTotal(t *testing.T) {
	hist, err := bins.Hist(table(t), bins.Edges("x", edges(t, 0, 1, 2, 3)))
	require.NoError(t, err)

	re, err := bins.Rebin(hist, bins.Edges("x", edges(t, 0, 1.5, 3)))
	require.NoError(t, err)
	rv, _ := re.Dense()
	vals := array.Values[float64](rv.Copy())
	assert.InDelta(t, 15, vals[0]+vals[1], 1e-12)
}

func TestViewConcat(t *testing.T) {
	binned, err := bins.Bin(table(t), bins.Edges("x", edges(t, 0, 1, 2, 3)))
	require.NoError(t, err)
	view, _ := bins.View(binned)

	merged, err := view.Concat("x")
	require.NoError(t, err)
	mergedView, err := bins.View(merged)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, array.Values[int64](mergedView.Size()))
}

func TestLookupRoundTrip(t *testing.T) {
	hist, err := bins.Hist(table(t), bins.Edges("x", edges(t, 0, 1, 2, 3)))
	require.NoError(t, err)

	lut, err := bins.Lookup(hist, "x")
	require.NoError(t, err)
	q, err := array.NewVariable([]string{"q"}, []int{3}, []float64{0.2, 1.2, 2.2})
	require.NoError(t, err)
	out, err := lut.Eval(q)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 3}, array.Values[float64](out))
}

func TestViewRejectsDense(t *testing.T) {
	w, err := array.NewVariable([]string{"x"}, []int{2}, []float64{1, 2})
	require.NoError(t, err)
	_, err = bins.View(array.NewDataArray(w))
	var argErr *bins.ArgumentError
	require.ErrorAs(t, err, &argErr)
}
