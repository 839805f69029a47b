// Package lookup implements a stepwise lookup table: a one-dimensional
// histogram or point-sampled function evaluated at arbitrary coordinate
// values.
package lookup

import (
	"math"
	"sort"

	"github.com/ragged-data/ragged/internal/array"
	"github.com/ragged-data/ragged/internal/binning"
)

// Mode selects how a point-sampled table interpolates between samples.
type Mode int

const (
	// ModeAuto maps queries into histogram intervals; it is the only mode
	// valid for tables whose coordinate is already bin edges.
	ModeAuto Mode = iota
	// ModePrevious returns the value at the largest sample point not
	// exceeding the query.
	ModePrevious
	// ModeNearest returns the value at the closest sample point.
	ModeNearest
)

// Option configures table construction.
type Option func(*config)

type config struct {
	mode Mode
	fill float64
	// fillSet distinguishes an explicit zero fill from the default.
	fillSet bool
}

// WithMode selects the interpolation mode for point-sampled tables.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithFill overrides the out-of-range fill value. Integer tables truncate
// it; the default is NaN for float tables and zero for integral ones.
func WithFill(fill float64) Option {
	return func(c *config) { c.fill = fill; c.fillSet = true }
}

// Table is an immutable stepwise function: ascending interval boundaries
// with one value per interval. Queries outside every interval, or landing
// in a masked interval, evaluate to the fill value.
type Table struct {
	dim    string
	edges  []float64
	values *array.Variable // contiguous, one element per interval
	varis  []float64       // nil when the table has no variances
	masked []bool          // nil when nothing is masked
	fill   float64
	unit   array.Unit
}

// New builds a lookup table from a one-dimensional DataArray whose
// coordinate dim is either bin edges (a histogram) or per-point labels.
// Point tables are converted to intervals according to the mode; passing
// an explicit mode together with an edge coordinate is rejected.
func New(da *array.DataArray, dim string, opts ...Option) (*Table, error) {
	cfg := config{fill: math.NaN()}
	for _, o := range opts {
		o(&cfg)
	}

	v, ok := da.Dense()
	if !ok {
		return nil, binning.NewArgumentError("lookup tables require dense data")
	}
	if v.NDim() != 1 {
		return nil, binning.NewDimensionError("lookup tables must be one-dimensional, got dims %v", v.Dims())
	}
	dataDim := v.Dims()[0]
	coord, ok := da.Coord(dim)
	if !ok {
		known := make([]string, 0, len(da.Coords()))
		for n := range da.Coords() {
			known = append(known, n)
		}
		return nil, binning.NewCoordError(dim, known)
	}
	if coord.NDim() != 1 || coord.Dims()[0] != dataDim {
		return nil, binning.NewDimensionError("lookup coordinate %q must be one-dimensional along %q, got dims %v", dim, dataDim, coord.Dims())
	}

	points, err := coordFloats(coord.Copy())
	if err != nil {
		return nil, err
	}
	if !sort.Float64sAreSorted(points) {
		return nil, binning.NewArgumentError("lookup coordinate %q must be ascending", dim)
	}

	values := v.Copy()
	var varis []float64
	if values.HasVariances() {
		if varis, err = varianceFloats(values); err != nil {
			return nil, err
		}
	}
	masked, err := intervalMask(da, dataDim)
	if err != nil {
		return nil, err
	}
	if !values.DType().IsFloat() && !cfg.fillSet {
		cfg.fill = 0
	}

	t := &Table{dim: dim, values: values, varis: varis, masked: masked, fill: cfg.fill, unit: values.Unit()}
	isEdges := da.CoordIsEdges(dim, dataDim)
	switch {
	case isEdges && cfg.mode != ModeAuto:
		return nil, binning.NewArgumentError("lookup mode cannot be combined with a bin-edge coordinate for %q", dim)
	case isEdges:
		t.edges = points
	case cfg.mode == ModeNearest:
		t.edges = nearestEdges(points)
	default:
		// ModeAuto on a point table behaves as ModePrevious.
		t.edges = previousEdges(points)
	}
	if len(t.edges) != values.NumElements()+1 {
		return nil, binning.NewDimensionError("lookup table has %d intervals for %d values", len(t.edges)-1, values.NumElements())
	}

	t.mergeEqualAdjacent()
	return t, nil
}

// Dim returns the coordinate name queries are interpreted in.
func (t *Table) Dim() string { return t.dim }

// Intervals returns the number of stepwise intervals after merging.
func (t *Table) Intervals() int { return t.values.NumElements() }

// Eval evaluates the table at every element of the query coordinate,
// returning a Variable with the query's dims and shape and the table's
// unit. Float tables evaluate to Float64; integral and bool tables keep
// their data type.
func (t *Table) Eval(coord *array.Variable) (*array.Variable, error) {
	q, err := coordFloats(coord.Copy())
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(q))
	for i, x := range q {
		idx[i] = t.interval(x)
	}
	out, err := t.gather(coord.Dims(), coord.Shape(), idx)
	if err != nil {
		return nil, err
	}
	return out.SetUnit(t.unit), nil
}

// interval locates x in the half-open intervals, -1 for out of range or
// masked.
func (t *Table) interval(x float64) int {
	j := sort.SearchFloat64s(t.edges, x)
	if j < len(t.edges) && t.edges[j] == x {
		if j == len(t.edges)-1 {
			return -1
		}
	} else {
		if j == 0 || j == len(t.edges) {
			return -1
		}
		j--
	}
	if t.masked != nil && t.masked[j] {
		return -1
	}
	return j
}

// gather assembles the output from per-query interval indices, writing
// the fill value where the index is -1.
func (t *Table) gather(dims []string, shape []int, idx []int) (*array.Variable, error) {
	switch t.values.DType() {
	case array.Float64, array.Float32:
		src, err := coordFloats(t.values)
		if err != nil {
			return nil, err
		}
		vals := make([]float64, len(idx))
		for i, j := range idx {
			if j < 0 {
				vals[i] = t.fill
				continue
			}
			vals[i] = src[j]
		}
		out, err := array.NewVariable(dims, shape, vals)
		if err != nil {
			return nil, err
		}
		if t.varis != nil {
			varis := make([]float64, len(idx))
			for i, j := range idx {
				if j < 0 {
					varis[i] = math.NaN()
					continue
				}
				varis[i] = t.varis[j]
			}
			if err := array.SetVariances(out, varis); err != nil {
				return nil, err
			}
		}
		return out, nil
	case array.Bool:
		src := array.Values[bool](t.values)
		vals := make([]bool, len(idx))
		for i, j := range idx {
			if j >= 0 {
				vals[i] = src[j]
			}
		}
		return array.NewVariable(dims, shape, vals)
	default:
		src, err := coordInts(t.values)
		if err != nil {
			return nil, err
		}
		vals := make([]int64, len(idx))
		fill := int64(t.fill)
		if math.IsNaN(t.fill) {
			fill = 0
		}
		for i, j := range idx {
			if j < 0 {
				vals[i] = fill
				continue
			}
			vals[i] = src[j]
		}
		return intShaped(t.values.DType(), dims, shape, vals)
	}
}

// mergeEqualAdjacent collapses runs of adjacent intervals holding the
// same value. Only exact-valued tables without variances or masks
// qualify; the merged table evaluates identically with fewer search
// boundaries.
func (t *Table) mergeEqualAdjacent() {
	if t.values.DType().IsFloat() || t.varis != nil || t.masked != nil {
		return
	}
	n := t.values.NumElements()
	if n < 2 {
		return
	}
	var vals []int64
	if t.values.DType() == array.Bool {
		src := array.Values[bool](t.values)
		vals = make([]int64, len(src))
		for i, b := range src {
			if b {
				vals[i] = 1
			}
		}
	} else {
		var err error
		if vals, err = coordInts(t.values); err != nil {
			return
		}
	}
	mergedVals := append(make([]int64, 0, n), vals[0])
	mergedEdges := append(make([]float64, 0, n+1), t.edges[0])
	for i := 1; i < n; i++ {
		if vals[i] == mergedVals[len(mergedVals)-1] {
			continue
		}
		mergedVals = append(mergedVals, vals[i])
		mergedEdges = append(mergedEdges, t.edges[i])
	}
	if len(mergedVals) == n {
		return
	}
	mergedEdges = append(mergedEdges, t.edges[n])
	out, err := intVariable(t.values.DType(), t.values.Dims()[0], mergedVals)
	if err != nil {
		return
	}
	t.values = out
	t.edges = mergedEdges
}

// intVariable materializes int64 values as a 1-D Variable of the given
// integral dtype.
func intVariable(dtype array.DataType, dim string, vals []int64) (*array.Variable, error) {
	return intShaped(dtype, []string{dim}, []int{len(vals)}, vals)
}

func intShaped(dtype array.DataType, dims []string, shape []int, vals []int64) (*array.Variable, error) {
	switch dtype {
	case array.Bool:
		vb := make([]bool, len(vals))
		for i, x := range vals {
			vb[i] = x != 0
		}
		return array.NewVariable(dims, shape, vb)
	case array.Int32:
		v32 := make([]int32, len(vals))
		for i, x := range vals {
			v32[i] = int32(x)
		}
		return array.NewVariable(dims, shape, v32)
	case array.DateTime64:
		return array.NewDatetimes(dims, shape, vals)
	default:
		return array.NewVariable(dims, shape, vals)
	}
}

// previousEdges turns sample points into intervals [p_i, p_{i+1}) with
// the last interval open to +Inf, so each query maps to the value at the
// largest preceding point.
func previousEdges(points []float64) []float64 {
	edges := make([]float64, len(points)+1)
	copy(edges, points)
	edges[len(points)] = math.Inf(1)
	return edges
}

// nearestEdges turns sample points into intervals whose boundaries are
// the midpoints between neighbors, open to both infinities, so each query
// maps to the value at the closest point.
func nearestEdges(points []float64) []float64 {
	edges := make([]float64, len(points)+1)
	edges[0] = math.Inf(-1)
	for i := 1; i < len(points); i++ {
		edges[i] = 0.5 * (points[i-1] + points[i])
	}
	edges[len(points)] = math.Inf(1)
	return edges
}

// intervalMask folds the table's masks along its dimension into one bool
// per interval.
func intervalMask(da *array.DataArray, dim string) ([]bool, error) {
	mask, err := binning.IrreducibleMask(da, []string{dim})
	if err != nil {
		return nil, err
	}
	if mask == nil {
		return nil, nil
	}
	return array.Values[bool](mask.Copy()), nil
}

// coordFloats converts a contiguous Variable's values to float64.
func coordFloats(v *array.Variable) ([]float64, error) {
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
		return nil, binning.NewArgumentError("cannot interpret %s values as lookup positions", v.DType())
	}
}

// coordInts converts a contiguous integral Variable's values to int64.
func coordInts(v *array.Variable) ([]int64, error) {
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
	default:
		return nil, binning.NewArgumentError("expected integral lookup values, got %s", v.DType())
	}
}

// varianceFloats converts a contiguous float Variable's variances.
func varianceFloats(v *array.Variable) ([]float64, error) {
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
		return nil, binning.NewArgumentError("variances require a float dtype, got %s", v.DType())
	}
}
