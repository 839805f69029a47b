package binning

import (
	"github.com/ragged-data/ragged/internal/array"
)

// Rebin redistributes histogrammed (dense) data onto new bin edges, one
// target dimension at a time. Each old bin's content is split across the
// new bins it overlaps, weighted by the overlapping fraction of the old
// bin's width; variances scale with the squared weight. Re-binning onto
// the identical edges reproduces the input exactly, since every weight is
// then exactly zero or one. Output values are always Float64; integral
// inputs are promoted because overlap weights are fractional in general.
func (e *Engine) Rebin(da *array.DataArray, targets []Target) (*array.DataArray, error) {
	if _, ok := da.Binned(); ok {
		return nil, argErrorf("rebin requires dense histogrammed data; histogram binned data first")
	}
	if len(targets) == 0 {
		return nil, argErrorf("rebin requires at least one target")
	}
	var err error
	for _, t := range targets {
		if err = t.validate(); err != nil {
			return nil, err
		}
		if t.IsGrouping() {
			return nil, argErrorf("rebin requires bin edges, not groups, for %q", t.Dim)
		}
		if da, err = e.rebinDim(da, t); err != nil {
			return nil, err
		}
	}
	return da, nil
}

func (e *Engine) rebinDim(da *array.DataArray, t Target) (*array.DataArray, error) {
	v, _ := da.Dense()
	old, ok := da.Coord(t.Dim)
	if !ok {
		return nil, coordErrorFrom(t.Dim, knownCoordNames(da, nil))
	}
	if old.NDim() != 1 || old.Dims()[0] != t.Dim || !da.CoordIsEdges(t.Dim, t.Dim) {
		return nil, edgeErrorf("rebin of %q requires a one-dimensional bin-edge coordinate along %q", t.Dim, t.Dim)
	}

	res, err := e.resolveTarget(t, old.Copy(), true)
	if err != nil {
		return nil, err
	}
	oldEdges, err := asFloat64s(old.Copy())
	if err != nil {
		return nil, err
	}
	newEdges, err := asFloat64s(res.coordVar.Copy())
	if err != nil {
		return nil, err
	}

	// Target dimension innermost, so every outer entry is one contiguous
	// run of old bins.
	order := make([]string, 0, v.NDim())
	for _, d := range v.Dims() {
		if d != t.Dim {
			order = append(order, d)
		}
	}
	order = append(order, t.Dim)
	tv, err := v.Transpose(order...)
	if err != nil {
		return nil, err
	}
	tv = tv.Copy()
	src, err := asFloat64s(tv)
	if err != nil {
		return nil, err
	}
	var srcVar []float64
	if tv.HasVariances() {
		if srcVar, err = variancesAsFloat64(tv); err != nil {
			return nil, err
		}
	}
	masked, err := rebinMask(da, t.Dim, tv)
	if err != nil {
		return nil, err
	}

	nOld := len(oldEdges) - 1
	nNew := res.nbins
	outer := 1
	for _, d := range order {
		if d != t.Dim {
			n, err := tv.Len(d)
			if err != nil {
				return nil, err
			}
			outer *= n
		}
	}

	vals := make([]float64, outer*nNew)
	var varis []float64
	if srcVar != nil {
		varis = make([]float64, outer*nNew)
	}
	for o := 0; o < outer; o++ {
		for i := 0; i < nOld; i++ {
			row := o*nOld + i
			if masked != nil && masked[row] {
				continue
			}
			lo, hi := oldEdges[i], oldEdges[i+1]
			width := hi - lo
			if width <= 0 {
				continue
			}
			for j := 0; j < nNew; j++ {
				nlo, nhi := newEdges[j], newEdges[j+1]
				if nhi <= lo {
					continue
				}
				if nlo >= hi {
					break
				}
				overlap := minf(hi, nhi) - maxf(lo, nlo)
				if overlap <= 0 {
					continue
				}
				w := overlap / width
				vals[o*nNew+j] += w * src[row]
				if varis != nil {
					varis[o*nNew+j] += w * w * srcVar[row]
				}
			}
		}
	}

	outShape := make([]int, len(order))
	for i, d := range order {
		if d == t.Dim {
			outShape[i] = nNew
			continue
		}
		n, err := tv.Len(d)
		if err != nil {
			return nil, err
		}
		outShape[i] = n
	}
	outVar, err := array.NewVariable(order, outShape, vals)
	if err != nil {
		return nil, err
	}
	if varis != nil {
		if err := array.SetVariances(outVar, varis); err != nil {
			return nil, err
		}
	}
	outVar.SetUnit(v.Unit())
	// Back to the input's dimension order; a transpose view is enough.
	payload, err := outVar.Transpose(v.Dims()...)
	if err != nil {
		return nil, err
	}

	out := array.NewDataArray(payload).SetName(da.Name())
	for name, c := range da.Coords() {
		if name == t.Dim || hasDim(c.Dims(), t.Dim) {
			continue
		}
		out.SetCoord(name, c)
	}
	out.SetCoord(t.Dim, res.coordVar)
	for name, m := range da.Masks() {
		if hasDim(m.Dims(), t.Dim) {
			continue // folded into the redistribution
		}
		out.SetMask(name, m)
	}
	return out, nil
}

// rebinMask folds masks intersecting dim and broadcasts them to the
// transposed layout, one bool per source element, nil when none apply.
func rebinMask(da *array.DataArray, dim string, tv *array.Variable) ([]bool, error) {
	mask, err := IrreducibleMask(da, []string{dim})
	if err != nil {
		return nil, err
	}
	if mask == nil {
		return nil, nil
	}
	bm, err := mask.Broadcast(tv.Dims(), tv.Shape())
	if err != nil {
		return nil, err
	}
	return array.Values[bool](bm.Copy()), nil
}

// variancesAsFloat64 converts a contiguous float Variable's variances.
func variancesAsFloat64(v *array.Variable) ([]float64, error) {
	switch v.DType() {
	case array.Float64:
		return array.Variances[float64](v), nil
	case array.Float32:
		src := array.Variances[float32](v)
		out := make([]float64, len(src))
		for i, x := range src {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, argErrorf("variances require a float dtype, got %s", v.DType())
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
