package binning

import (
	"math"

	"github.com/ragged-data/ragged/internal/array"
)

// Reduction selects a per-bin reduction over a binned array's events.
type Reduction int

const (
	ReduceSum Reduction = iota
	ReduceMean
	ReduceMin
	ReduceMax
	ReduceAll
	ReduceAny
)

// ReduceBins reduces every bin's events to a single value, producing a
// dense array with the container's dimensions. Event masks inside the
// content buffer suppress their rows. Empty bins yield the reduction's
// identity: zero for sums, NaN for means, infinities and extreme integers
// for min/max, true for all, false for any.
func (e *Engine) ReduceBins(da *array.DataArray, op Reduction) (*array.DataArray, error) {
	binned, ok := da.Binned()
	if !ok {
		return nil, argErrorf("bin reductions require binned data")
	}
	v, masked, err := contentValues(binned)
	if err != nil {
		return nil, err
	}
	begin, end := binned.Ranges()
	dims := binned.Dims()
	shape := binned.Shape()

	var outVar *array.Variable
	switch op {
	case ReduceSum:
		outVar, err = reduceSum(v, begin, end, masked, dims, shape)
	case ReduceMean:
		outVar, err = reduceMean(v, begin, end, masked, dims, shape)
	case ReduceMin, ReduceMax:
		outVar, err = reduceExtremum(v, begin, end, masked, dims, shape, op == ReduceMin)
	case ReduceAll, ReduceAny:
		outVar, err = reduceBool(v, begin, end, masked, dims, shape, op == ReduceAll)
	default:
		return nil, argErrorf("unknown reduction %d", op)
	}
	if err != nil {
		return nil, err
	}
	outVar.SetUnit(v.Unit())

	out := array.NewDataArray(outVar).SetName(da.Name())
	for name, c := range da.Coords() {
		out.SetCoord(name, c)
	}
	for name, m := range da.Masks() {
		out.SetMask(name, m)
	}
	return out, nil
}

// contentValues extracts the content buffer's values as a contiguous
// one-dimensional Variable plus the folded event mask.
func contentValues(binned *array.Binned) (*array.Variable, []bool, error) {
	switch buf := binned.Buffer().(type) {
	case *array.Variable:
		if buf.NDim() != 1 {
			return nil, nil, dimErrorf("bin reductions require one-dimensional content, got dims %v", buf.Dims())
		}
		return buf.Copy(), nil, nil
	case *array.DataArray:
		v, ok := buf.Dense()
		if !ok {
			return nil, nil, dimErrorf("nested binned content buffers are not supported")
		}
		if v.NDim() != 1 {
			return nil, nil, dimErrorf("bin reductions require one-dimensional content, got dims %v", v.Dims())
		}
		masked, err := maskedRows(buf, binned.Dim())
		if err != nil {
			return nil, nil, err
		}
		return v.Copy(), masked, nil
	default:
		return nil, nil, argErrorf("bin reductions require variable or data-array content")
	}
}

func reduceSum(v *array.Variable, begin, end []int64, masked []bool, dims []string, shape []int) (*array.Variable, error) {
	sums, err := newBinSums(v, len(begin))
	if err != nil {
		return nil, err
	}
	for b := range begin {
		for r := begin[b]; r < end[b]; r++ {
			if masked != nil && masked[r] {
				continue
			}
			sums.add(int(r), b)
		}
	}
	return sums.variable(dims, shape, v.Unit())
}

func reduceMean(v *array.Variable, begin, end []int64, masked []bool, dims []string, shape []int) (*array.Variable, error) {
	vals, err := asFloat64s(v)
	if err != nil {
		return nil, err
	}
	var srcVar []float64
	if v.HasVariances() {
		if srcVar, err = variancesAsFloat64(v); err != nil {
			return nil, err
		}
	}
	out := make([]float64, len(begin))
	var outVar []float64
	if srcVar != nil {
		outVar = make([]float64, len(begin))
	}
	for b := range begin {
		var sum, varSum float64
		var n int64
		for r := begin[b]; r < end[b]; r++ {
			if masked != nil && masked[r] {
				continue
			}
			sum += vals[r]
			if srcVar != nil {
				varSum += srcVar[r]
			}
			n++
		}
		if n == 0 {
			out[b] = math.NaN()
			if outVar != nil {
				outVar[b] = math.NaN()
			}
			continue
		}
		out[b] = sum / float64(n)
		if outVar != nil {
			outVar[b] = varSum / float64(n*n)
		}
	}
	ov, err := array.NewVariable(dims, shape, out)
	if err != nil {
		return nil, err
	}
	if outVar != nil {
		if err := array.SetVariances(ov, outVar); err != nil {
			return nil, err
		}
	}
	return ov, nil
}

func reduceExtremum(v *array.Variable, begin, end []int64, masked []bool, dims []string, shape []int, min bool) (*array.Variable, error) {
	if v.DType().IsInt() {
		vals, err := asInt64s(v)
		if err != nil {
			return nil, err
		}
		out := make([]int64, len(begin))
		for b := range begin {
			acc := int64(math.MinInt64)
			if min {
				acc = math.MaxInt64
			}
			for r := begin[b]; r < end[b]; r++ {
				if masked != nil && masked[r] {
					continue
				}
				if min && vals[r] < acc || !min && vals[r] > acc {
					acc = vals[r]
				}
			}
			out[b] = acc
		}
		ov, err := array.NewVariable(dims, shape, out)
		if err != nil {
			return nil, err
		}
		if v.DType() == array.DateTime64 {
			return array.NewDatetimes(dims, shape, out)
		}
		return ov, nil
	}
	vals, err := asFloat64s(v)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(begin))
	for b := range begin {
		acc := math.Inf(-1)
		if min {
			acc = math.Inf(1)
		}
		for r := begin[b]; r < end[b]; r++ {
			if masked != nil && masked[r] {
				continue
			}
			if min && vals[r] < acc || !min && vals[r] > acc {
				acc = vals[r]
			}
		}
		out[b] = acc
	}
	return array.NewVariable(dims, shape, out)
}

func reduceBool(v *array.Variable, begin, end []int64, masked []bool, dims []string, shape []int, all bool) (*array.Variable, error) {
	if v.DType() != array.Bool {
		return nil, argErrorf("logical bin reductions require bool data, got %s", v.DType())
	}
	vals := array.Values[bool](v)
	out := make([]bool, len(begin))
	for b := range begin {
		acc := all
		for r := begin[b]; r < end[b]; r++ {
			if masked != nil && masked[r] {
				continue
			}
			if all {
				acc = acc && vals[r]
			} else {
				acc = acc || vals[r]
			}
		}
		out[b] = acc
	}
	return array.NewVariable(dims, shape, out)
}
