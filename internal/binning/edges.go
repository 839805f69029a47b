package binning

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ragged-data/ragged/internal/array"
)

// resolveTarget turns a Target into a resolved assignment over the given
// coordinate. coord must be a contiguous 1-D Variable whose rows
// correspond to the rows being assigned. isEdgeCoord marks coordinates
// that are themselves bin edges, for which automatic edge derivation must
// not bump the upper bound.
func (e *Engine) resolveTarget(t Target, coord *array.Variable, isEdgeCoord bool) (resolved, error) {
	if err := t.validate(); err != nil {
		return resolved{}, err
	}
	if t.IsGrouping() {
		return resolveGroups(t, coord)
	}
	return e.resolveEdges(t, coord, isEdgeCoord)
}

func (e *Engine) resolveEdges(t Target, coord *array.Variable, isEdgeCoord bool) (resolved, error) {
	if coord.DType().IsInt() && floatFree(t) {
		return resolveIntEdges(t, coord, e.cfg.DefaultBins, isEdgeCoord)
	}
	vals, err := asFloat64s(coord)
	if err != nil {
		return resolved{}, err
	}

	var edges []float64
	var coordVar *array.Variable
	switch {
	case t.Edges != nil:
		if err := checkEdgesVar(t.Edges, t.Dim); err != nil {
			return resolved{}, err
		}
		if edges, err = asFloat64s(t.Edges.Copy()); err != nil {
			return resolved{}, err
		}
		if !sort.Float64sAreSorted(edges) {
			return resolved{}, edgeErrorf("bin edges for %q must be ascending", t.Dim)
		}
		coordVar = t.Edges
	case t.HasStep:
		if edges, err = stepEdges(vals, t.Step, isEdgeCoord); err != nil {
			return resolved{}, err
		}
	default:
		count := t.Count
		if t.Auto {
			count = e.cfg.DefaultBins
		}
		if edges, err = spanEdges(vals, count, isEdgeCoord); err != nil {
			return resolved{}, err
		}
	}
	if coordVar == nil {
		v, err := array.NewVariable([]string{t.Dim}, []int{len(edges)}, edges)
		if err != nil {
			return resolved{}, err
		}
		coordVar = v.SetUnit(coord.Unit())
	}
	return resolved{
		dim:      t.Dim,
		coordVar: coordVar,
		nbins:    len(edges) - 1,
		index: func(row int) int {
			return edgeIndexFloat(edges, vals[row])
		},
	}, nil
}

// floatFree reports whether the target carries no float-typed inputs, so
// an integer coordinate can keep integer edges (exact for datetimes).
func floatFree(t Target) bool {
	if t.HasStep {
		return t.Step == math.Trunc(t.Step)
	}
	return t.Edges == nil || t.Edges.DType().IsInt()
}

func resolveIntEdges(t Target, coord *array.Variable, defaultBins int, isEdgeCoord bool) (resolved, error) {
	vals := array.Values[int64](coord)
	var edges []int64
	var coordVar *array.Variable
	var err error
	switch {
	case t.Edges != nil:
		if err := checkEdgesVar(t.Edges, t.Dim); err != nil {
			return resolved{}, err
		}
		edges = array.Values[int64](t.Edges.Copy())
		if !sort.SliceIsSorted(edges, func(i, j int) bool { return edges[i] < edges[j] }) {
			return resolved{}, edgeErrorf("bin edges for %q must be ascending", t.Dim)
		}
		coordVar = t.Edges
	case t.HasStep:
		edges, err = intStepEdges(vals, int64(t.Step), isEdgeCoord)
	default:
		count := t.Count
		if t.Auto {
			count = defaultBins
		}
		edges, err = intSpanEdges(vals, count, isEdgeCoord)
	}
	if err != nil {
		return resolved{}, err
	}
	if coordVar == nil {
		v, err := array.NewVariable([]string{t.Dim}, []int{len(edges)}, edges)
		if err != nil {
			return resolved{}, err
		}
		if coord.DType() == array.DateTime64 {
			if v, err = array.NewDatetimes([]string{t.Dim}, []int{len(edges)}, edges); err != nil {
				return resolved{}, err
			}
		}
		coordVar = v.SetUnit(coord.Unit())
	}
	return resolved{
		dim:      t.Dim,
		coordVar: coordVar,
		nbins:    len(edges) - 1,
		index: func(row int) int {
			return edgeIndexInt(edges, vals[row])
		},
	}, nil
}

func resolveGroups(t Target, coord *array.Variable) (resolved, error) {
	if !coord.DType().IsInt() && coord.DType() != array.Bool {
		return resolved{}, argErrorf("grouping requires an integer-like coordinate, got %s for %q", coord.DType(), t.Dim)
	}
	vals, err := asInt64s(coord)
	if err != nil {
		return resolved{}, err
	}
	var keys []int64
	var coordVar *array.Variable
	if t.Groups != nil {
		if t.Groups.NDim() != 1 || t.Groups.Dims()[0] != t.Dim {
			return resolved{}, dimErrorf("group keys for %q must be one-dimensional along %q, got dims %v", t.Dim, t.Dim, t.Groups.Dims())
		}
		if keys, err = asInt64s(t.Groups.Copy()); err != nil {
			return resolved{}, err
		}
		coordVar = t.Groups
	} else {
		keys = sortedUnique(vals)
		v, err := array.NewVariable([]string{t.Dim}, []int{len(keys)}, keys)
		if err != nil {
			return resolved{}, err
		}
		coordVar = v.SetUnit(coord.Unit())
	}
	lookup := make(map[int64]int, len(keys))
	for i, k := range keys {
		lookup[k] = i
	}
	return resolved{
		dim:      t.Dim,
		coordVar: coordVar,
		nbins:    len(keys),
		index: func(row int) int {
			if i, ok := lookup[vals[row]]; ok {
				return i
			}
			return -1
		},
	}, nil
}

func checkEdgesVar(edges *array.Variable, dim string) error {
	if edges.NDim() != 1 || edges.Dims()[0] != dim {
		return dimErrorf("bin edges for %q must be one-dimensional along %q, got dims %v", dim, dim, edges.Dims())
	}
	if edges.NumElements() < 2 {
		return edgeErrorf("bin edges for %q need at least two boundaries", dim)
	}
	return nil
}

// spanEdges derives count equal-width edges spanning [min, upper) where
// upper strictly exceeds the true maximum, so the maximum falls inside
// the last bin instead of on its exclusive boundary.
func spanEdges(vals []float64, count int, isEdgeCoord bool) ([]float64, error) {
	if len(vals) == 0 {
		return nil, edgeErrorf("cannot derive bin edges from an empty coordinate")
	}
	if count <= 0 {
		return nil, argErrorf("bin count must be positive, got %d", count)
	}
	lo := floats.Min(vals)
	hi := floats.Max(vals)
	upper := math.Nextafter(hi, math.Inf(1))
	if isEdgeCoord {
		// Edge coordinates already bound their last interval exclusively.
		upper = hi
	}
	return floats.Span(make([]float64, count+1), lo, upper), nil
}

// stepEdges derives equal-width edges of the given step, stepping from
// min until the upper bound is covered.
func stepEdges(vals []float64, step float64, isEdgeCoord bool) ([]float64, error) {
	if len(vals) == 0 {
		return nil, edgeErrorf("cannot derive bin edges from an empty coordinate")
	}
	if step <= 0 {
		return nil, argErrorf("bin step must be positive, got %v", step)
	}
	lo := floats.Min(vals)
	hi := floats.Max(vals)
	upper := math.Nextafter(hi, math.Inf(1))
	if isEdgeCoord {
		upper = hi
	}
	n := int(math.Ceil((upper - lo) / step))
	if n < 1 {
		n = 1
	}
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	return edges, nil
}

// intSpanEdges derives count edges over [min, max+1] using exact integer
// arithmetic, keeping datetime coordinates lossless.
func intSpanEdges(vals []int64, count int, isEdgeCoord bool) ([]int64, error) {
	if len(vals) == 0 {
		return nil, edgeErrorf("cannot derive bin edges from an empty coordinate")
	}
	if count <= 0 {
		return nil, argErrorf("bin count must be positive, got %d", count)
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	upper := hi + 1
	if isEdgeCoord {
		upper = hi
	}
	span := upper - lo
	edges := make([]int64, count+1)
	for i := range edges {
		edges[i] = lo + span*int64(i)/int64(count)
	}
	return edges, nil
}

func intStepEdges(vals []int64, step int64, isEdgeCoord bool) ([]int64, error) {
	if len(vals) == 0 {
		return nil, edgeErrorf("cannot derive bin edges from an empty coordinate")
	}
	if step <= 0 {
		return nil, argErrorf("bin step must be positive, got %d", step)
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	upper := hi + 1
	if isEdgeCoord {
		upper = hi
	}
	n := (upper - lo + step - 1) / step
	if n < 1 {
		n = 1
	}
	edges := make([]int64, n+1)
	for i := range edges {
		edges[i] = lo + int64(i)*step
	}
	return edges, nil
}

// edgeIndexFloat locates v in half-open intervals [edges[i], edges[i+1]),
// returning -1 for out-of-range values.
func edgeIndexFloat(edges []float64, v float64) int {
	j := sort.SearchFloat64s(edges, v)
	if j < len(edges) && edges[j] == v {
		if j == len(edges)-1 {
			return -1 // exactly on the exclusive upper boundary
		}
		return j
	}
	if j == 0 || j == len(edges) {
		return -1
	}
	return j - 1
}

// edgeIndexInt is edgeIndexFloat for integer edges.
func edgeIndexInt(edges []int64, v int64) int {
	j := sort.Search(len(edges), func(i int) bool { return edges[i] >= v })
	if j < len(edges) && edges[j] == v {
		if j == len(edges)-1 {
			return -1
		}
		return j
	}
	if j == 0 || j == len(edges) {
		return -1
	}
	return j - 1
}

// asFloat64s converts a contiguous Variable's values to float64.
func asFloat64s(v *array.Variable) ([]float64, error) {
	switch v.DType() {
	case array.Float64:
		return array.Values[float64](v), nil
	case array.Float32:
		src := array.Values[float32](v)
		out := make([]float64, len(src))
		for i, x := range src {
			out[i] = float64(x)
		}
		return out, nil
	case array.Int64, array.DateTime64:
		src := array.Values[int64](v)
		out := make([]float64, len(src))
		for i, x := range src {
			out[i] = float64(x)
		}
		return out, nil
	case array.Int32:
		src := array.Values[int32](v)
		out := make([]float64, len(src))
		for i, x := range src {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, argErrorf("cannot bin by a %s coordinate", v.DType())
	}
}

// asInt64s converts a contiguous Variable's values to int64.
func asInt64s(v *array.Variable) ([]int64, error) {
	switch v.DType() {
	case array.Int64, array.DateTime64:
		return array.Values[int64](v), nil
	case array.Int32:
		src := array.Values[int32](v)
		out := make([]int64, len(src))
		for i, x := range src {
			out[i] = int64(x)
		}
		return out, nil
	case array.Bool:
		src := array.Values[bool](v)
		out := make([]int64, len(src))
		for i, x := range src {
			if x {
				out[i] = 1
			}
		}
		return out, nil
	default:
		return nil, argErrorf("grouping requires an integer-like coordinate, got %s", v.DType())
	}
}

func sortedUnique(vals []int64) []int64 {
	seen := make(map[int64]struct{}, len(vals))
	out := make([]int64, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
