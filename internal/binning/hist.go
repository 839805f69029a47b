package binning

import (
	"github.com/ragged-data/ragged/internal/array"
)

// MakeHistogrammed sums the input into dense bins defined by the targets.
// Flat tables are accumulated row by row; binned inputs are accumulated
// per event coordinate, appending the target dimensions to the
// container's dimensions. Dense data whose target dimensions already
// carry bin-edge coordinates is re-binned instead, redistributing the
// existing sums onto the new edges. A binned input with no targets
// reduces to the per-bin sum.
func (e *Engine) MakeHistogrammed(da *array.DataArray, targets []Target) (*array.DataArray, error) {
	for _, t := range targets {
		if err := t.validate(); err != nil {
			return nil, err
		}
	}

	if _, ok := da.Binned(); ok {
		if len(targets) == 0 {
			return e.ReduceBins(da, ReduceSum)
		}
		return e.histBinned(da, targets)
	}
	if len(targets) == 0 {
		return nil, argErrorf("histogramming dense data requires at least one target")
	}

	if allEdgeCoords(da, targets) {
		return e.Rebin(da, targets)
	}
	if v, ok := da.Dense(); ok && v.NDim() == 1 {
		return e.histTable(da, targets)
	}
	return nil, dimErrorf("can only histogram a one-dimensional table, binned data, or histogrammed data with bin-edge coordinates, got dims %v", da.Dims())
}

// allEdgeCoords reports whether every target dimension carries a bin-edge
// coordinate, the precondition for the re-binning path.
func allEdgeCoords(da *array.DataArray, targets []Target) bool {
	for _, t := range targets {
		c, ok := da.Coord(t.Dim)
		if !ok || c.NDim() != 1 || c.Dims()[0] != t.Dim || !da.CoordIsEdges(t.Dim, t.Dim) {
			return false
		}
	}
	return len(targets) > 0
}

// histTable accumulates a flat table: each row's value is added to its
// target bin; masked and out-of-range rows contribute nothing.
func (e *Engine) histTable(da *array.DataArray, targets []Target) (*array.DataArray, error) {
	v, _ := da.Dense()
	rowDim := da.Dims()[0]
	rows := da.Shape()[0]

	res := make([]resolved, len(targets))
	for i, t := range targets {
		coord, err := tableCoord(da, t.Dim, rowDim)
		if err != nil {
			return nil, err
		}
		if res[i], err = e.resolveTarget(t, coord, false); err != nil {
			return nil, err
		}
	}
	masked, err := maskedRows(da, rowDim)
	if err != nil {
		return nil, err
	}

	nbins := 1
	dims := make([]string, len(res))
	shape := make([]int, len(res))
	for i, r := range res {
		nbins *= r.nbins
		dims[i] = r.dim
		shape[i] = r.nbins
	}

	sums, err := newBinSums(v.Copy(), nbins)
	if err != nil {
		return nil, err
	}
	for row := 0; row < rows; row++ {
		if masked != nil && masked[row] {
			continue
		}
		if j := compositeIndex(row, res); j >= 0 {
			sums.add(row, j)
		}
	}
	outVar, err := sums.variable(dims, shape, v.Unit())
	if err != nil {
		return nil, err
	}

	out := array.NewDataArray(outVar).SetName(da.Name())
	for _, r := range res {
		out.SetCoord(r.dim, r.coordVar)
	}
	return out, nil
}

// histBinned accumulates each container bin's events into the target
// bins. The output is dense with dims = container dims + target dims;
// event masks inside the content buffer suppress their rows.
func (e *Engine) histBinned(da *array.DataArray, targets []Target) (*array.DataArray, error) {
	binned, _ := da.Binned()
	buf, ok := binned.Buffer().(*array.DataArray)
	if !ok {
		return nil, coordErrorFrom(targets[0].Dim, knownCoordNames(da, binned))
	}
	bufV, ok := buf.Dense()
	if !ok {
		return nil, dimErrorf("nested binned content buffers are not supported")
	}

	res := make([]resolved, len(targets))
	for i, t := range targets {
		coord, err := tableCoord(buf, t.Dim, binned.Dim())
		if err != nil {
			return nil, err
		}
		if res[i], err = e.resolveTarget(t, coord, false); err != nil {
			return nil, err
		}
	}
	masked, err := maskedRows(buf, binned.Dim())
	if err != nil {
		return nil, err
	}

	nNew := 1
	for _, r := range res {
		nNew *= r.nbins
	}
	begin, end := binned.Ranges()

	sums, err := newBinSums(bufV.Copy(), len(begin)*nNew)
	if err != nil {
		return nil, err
	}
	for b := range begin {
		for r := begin[b]; r < end[b]; r++ {
			if masked != nil && masked[r] {
				continue
			}
			if j := compositeIndex(int(r), res); j >= 0 {
				sums.add(int(r), b*nNew+j)
			}
		}
	}

	dims := append([]string(nil), binned.Dims()...)
	shape := append([]int(nil), binned.Shape()...)
	for _, r := range res {
		dims = append(dims, r.dim)
		shape = append(shape, r.nbins)
	}
	outVar, err := sums.variable(dims, shape, bufV.Unit())
	if err != nil {
		return nil, err
	}

	out := array.NewDataArray(outVar).SetName(da.Name())
	for name, c := range da.Coords() {
		out.SetCoord(name, c)
	}
	for _, r := range res {
		out.SetCoord(r.dim, r.coordVar)
	}
	for name, m := range da.Masks() {
		out.SetMask(name, m)
	}
	return out, nil
}

// maskedRows folds the row masks of a table into one bool per row, nil
// when no mask applies.
func maskedRows(da *array.DataArray, rowDim string) ([]bool, error) {
	mask, err := IrreducibleMask(da, []string{rowDim})
	if err != nil {
		return nil, err
	}
	if mask == nil {
		return nil, nil
	}
	return array.Values[bool](mask.Copy()), nil
}

// binSums accumulates per-bin sums in the source's type family: float
// sources sum to float64 with variance propagation, integer sources sum
// to int64, and bool sources count.
type binSums struct {
	src   *array.Variable // contiguous
	vals  []float64
	varis []float64
	ints  []int64

	f64 []float64
	f32 []float32
	v64 []float64
	v32 []float32
	i   []int64
}

func newBinSums(src *array.Variable, nbins int) (*binSums, error) {
	s := &binSums{src: src}
	switch src.DType() {
	case array.Float64:
		s.vals = make([]float64, nbins)
		s.f64 = array.Values[float64](src)
		if src.HasVariances() {
			s.varis = make([]float64, nbins)
			s.v64 = array.Variances[float64](src)
		}
	case array.Float32:
		s.vals = make([]float64, nbins)
		s.f32 = array.Values[float32](src)
		if src.HasVariances() {
			s.varis = make([]float64, nbins)
			s.v32 = array.Variances[float32](src)
		}
	case array.Int64:
		s.ints = make([]int64, nbins)
		s.i = array.Values[int64](src)
	case array.Int32:
		s.ints = make([]int64, nbins)
		src32 := array.Values[int32](src)
		s.i = make([]int64, len(src32))
		for i, x := range src32 {
			s.i[i] = int64(x)
		}
	case array.Bool:
		s.ints = make([]int64, nbins)
		b := array.Values[bool](src)
		s.i = make([]int64, len(b))
		for i, x := range b {
			if x {
				s.i[i] = 1
			}
		}
	default:
		return nil, argErrorf("cannot sum %s data", src.DType())
	}
	return s, nil
}

func (s *binSums) add(row, slot int) {
	switch {
	case s.f64 != nil:
		s.vals[slot] += s.f64[row]
		if s.v64 != nil {
			s.varis[slot] += s.v64[row]
		}
	case s.f32 != nil:
		s.vals[slot] += float64(s.f32[row])
		if s.v32 != nil {
			s.varis[slot] += float64(s.v32[row])
		}
	default:
		s.ints[slot] += s.i[row]
	}
}

func (s *binSums) variable(dims []string, shape []int, unit array.Unit) (*array.Variable, error) {
	if s.ints != nil {
		v, err := array.NewVariable(dims, shape, s.ints)
		if err != nil {
			return nil, err
		}
		return v.SetUnit(unit), nil
	}
	v, err := array.NewVariable(dims, shape, s.vals)
	if err != nil {
		return nil, err
	}
	if s.varis != nil {
		if err := array.SetVariances(v, s.varis); err != nil {
			return nil, err
		}
	}
	return v.SetUnit(unit), nil
}
