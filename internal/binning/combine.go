package binning

import (
	"github.com/ragged-data/ragged/internal/array"
)

// CombineBins restructures an existing binned array onto a new bin layout
// by rearranging whole bins instead of re-deriving per-row membership.
//
// The dimensions the target coordinates depend on, together with erase,
// form the "changed" subspace. The container is transposed so unchanged
// dimensions stay outermost; each combination of unchanged indices then
// wraps one pseudo-bin: the whole changed subspace that must be
// reshuffled internally. A side table holding every input bin's size,
// range, and target coordinate value is assigned to the new bins with the
// same index machinery used for flat tables, so whole bins are binned as
// aggregates rather than per-row values. A single materializing TakeRows
// call produces the reordered contiguous buffer, and output offsets
// follow by cumulative-sum partitioning of the new bin sizes.
func (e *Engine) CombineBins(da *array.DataArray, targets []Target, erase []string) (*array.DataArray, error) {
	binned, ok := da.Binned()
	if !ok {
		return nil, argErrorf("combine requires binned data")
	}

	// The changed subspace: dimensions the target coordinates depend on
	// plus the explicitly erased ones.
	changed := append([]string(nil), erase...)
	coords := make([]*array.Variable, len(targets))
	for i, t := range targets {
		c, ok := da.Coord(t.Dim)
		if !ok {
			return nil, coordErrorFrom(t.Dim, knownCoordNames(da, binned))
		}
		if (t.Count > 0 || t.HasStep || t.Auto) && c.NDim() != 1 {
			return nil, dimErrorf("automatic binning by %q requires a coordinate with exactly one dimension, got dims %v", t.Dim, c.Dims())
		}
		coords[i] = c
		for _, d := range c.Dims() {
			if !hasDim(changed, d) {
				changed = append(changed, d)
			}
		}
	}
	for _, d := range changed {
		if !hasDim(binned.Dims(), d) {
			return nil, dimErrorf("binned data with dims %v has no dimension %q", binned.Dims(), d)
		}
	}
	if len(changed) == 0 {
		return nil, argErrorf("combine requires target coordinates or dimensions to erase")
	}

	// Reduce per-bin edge coordinates to midpoints before folding masks,
	// so mask compaction keeps them aligned with the surviving positions.
	// Each whole bin is then assigned by its representative position;
	// coarsening onto boundaries aligned with the existing edges is exact.
	work := array.NewDataArray(binned).SetName(da.Name())
	for name, c := range da.Coords() {
		work.SetCoord(name, c)
	}
	for name, m := range da.Masks() {
		work.SetMask(name, m)
	}
	for i, t := range targets {
		c := coords[i]
		if c.NDim() == 1 && da.CoordIsEdges(t.Dim, c.Dims()[0]) {
			mid, err := binCenters(c, c.Dims()[0])
			if err != nil {
				return nil, err
			}
			work.SetCoord(t.Dim, mid)
		}
	}

	// Fold irreducible masks so masked bins contribute no content.
	da, err := HideMasked(work, changed)
	if err != nil {
		return nil, err
	}
	binned, _ = da.Binned()
	for i, t := range targets {
		c, ok := da.Coord(t.Dim)
		if !ok {
			return nil, coordErrorFrom(t.Dim, knownCoordNames(da, binned))
		}
		coords[i] = c
	}

	// Unchanged dims outermost, changed dims innermost.
	order := make([]string, 0, len(binned.Dims()))
	for _, d := range binned.Dims() {
		if !hasDim(changed, d) {
			order = append(order, d)
		}
	}
	unchangedDims := append([]string(nil), order...)
	for _, d := range binned.Dims() {
		if hasDim(changed, d) {
			order = append(order, d)
		}
	}
	begin, err := binned.Begin().Transpose(order...)
	if err != nil {
		return nil, err
	}
	end, err := binned.End().Transpose(order...)
	if err != nil {
		return nil, err
	}
	transposed := array.NewBinnedUnchecked(binned.Dim(), begin, end, binned.Buffer())

	unchangedShape := make([]int, len(unchangedDims))
	changedCount := 1
	for i, d := range order {
		n, err := begin.Len(d)
		if err != nil {
			return nil, err
		}
		if i < len(unchangedDims) {
			unchangedShape[i] = n
		} else {
			changedCount *= n
		}
	}

	// Side table: one row per input bin, in transposed iteration order.
	res := make([]resolved, len(targets))
	for i, t := range targets {
		side, err := sideTableCoord(coords[i], order, begin.Shape())
		if err != nil {
			return nil, err
		}
		if res[i], err = e.resolveTarget(t, side, false); err != nil {
			return nil, err
		}
	}

	nNew := 1
	for _, r := range res {
		nNew *= r.nbins
	}
	srcBegin, srcEnd := transposed.Ranges()
	unchangedCount := 1
	for _, n := range unchangedShape {
		unchangedCount *= n
	}
	outCount := unchangedCount * nNew

	// First pass: member counts and output sizes per target bin.
	members := make([]int64, outCount)
	sizes := make([]int64, outCount)
	assignment := make([]int, len(srcBegin))
	for i := range srcBegin {
		j := compositeIndex(i, res)
		assignment[i] = j
		if j < 0 {
			continue
		}
		slot := (i/changedCount)*nNew + j
		members[slot]++
		sizes[slot] += srcEnd[i] - srcBegin[i]
	}

	// Second pass: gather member ranges grouped by output bin, then
	// materialize the reordered buffer with a single copy.
	memberOffsets, _ := array.OffsetsFromSizes(members)
	next := append([]int64(nil), memberOffsets...)
	ranges := make([]array.RowRange, total(members))
	for i := range srcBegin {
		j := assignment[i]
		if j < 0 {
			continue
		}
		slot := (i/changedCount)*nNew + j
		ranges[next[slot]] = array.RowRange{Begin: srcBegin[i], End: srcEnd[i]}
		next[slot]++
	}
	buf, err := binned.Buffer().TakeRows(binned.Dim(), ranges)
	if err != nil {
		return nil, err
	}

	outDims := append([]string(nil), unchangedDims...)
	outShape := append([]int(nil), unchangedShape...)
	for _, r := range res {
		outDims = append(outDims, r.dim)
		outShape = append(outShape, r.nbins)
	}
	beginVals, endVals := array.OffsetsFromSizes(sizes)
	beginVar, err := array.NewVariable(outDims, outShape, beginVals)
	if err != nil {
		return nil, err
	}
	endVar, err := array.NewVariable(outDims, outShape, endVals)
	if err != nil {
		return nil, err
	}

	out := array.NewDataArray(array.NewBinnedUnchecked(binned.Dim(), beginVar, endVar, buf)).SetName(da.Name())
	for name, c := range da.Coords() {
		if intersects(c.Dims(), changed) {
			continue // consumed by the re-grouping
		}
		out.SetCoord(name, c)
	}
	for _, r := range res {
		out.SetCoord(r.dim, r.coordVar)
	}
	for name, m := range da.Masks() {
		if intersects(m.Dims(), changed) {
			continue
		}
		out.SetMask(name, m)
	}
	return out, nil
}

// ConcatBins merges all bins over the given dimensions into single bins:
// the degenerate remap with no new targets. Bin contents are concatenated
// in the container's iteration order.
func (e *Engine) ConcatBins(da *array.DataArray, dims []string) (*array.DataArray, error) {
	return e.CombineBins(da, nil, dims)
}

// sideTableCoord prepares a target coordinate for side-table assignment:
// one value per input bin, in the transposed iteration order. Edge
// coordinates have already been reduced to midpoints by this point.
func sideTableCoord(coord *array.Variable, order []string, shape []int) (*array.Variable, error) {
	b, err := coord.Broadcast(order, shape)
	if err != nil {
		return nil, err
	}
	return b.Copy(), nil
}

// binCenters reduces an edge coordinate of n+1 boundaries to n midpoints.
func binCenters(edges *array.Variable, dim string) (*array.Variable, error) {
	n, err := edges.Len(dim)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, edgeErrorf("edge coordinate along %q needs at least two boundaries", dim)
	}
	c := edges.Copy()
	switch {
	case c.DType().IsFloat():
		vals, err := asFloat64s(c)
		if err != nil {
			return nil, err
		}
		mid := make([]float64, n-1)
		for i := range mid {
			mid[i] = 0.5 * (vals[i] + vals[i+1])
		}
		out, err := array.NewVariable([]string{dim}, []int{n - 1}, mid)
		if err != nil {
			return nil, err
		}
		return out.SetUnit(edges.Unit()), nil
	default:
		vals, err := asInt64s(c)
		if err != nil {
			return nil, err
		}
		mid := make([]int64, n-1)
		for i := range mid {
			mid[i] = vals[i] + (vals[i+1]-vals[i])/2
		}
		out, err := array.NewVariable([]string{dim}, []int{n - 1}, mid)
		if err != nil {
			return nil, err
		}
		return out.SetUnit(edges.Unit()), nil
	}
}
