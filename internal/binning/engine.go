package binning

import (
	"github.com/ragged-data/ragged/internal/array"
)

// MakeBinned assigns the input's rows to bins defined by the targets and
// returns a binned DataArray. The input is either a flat table (dense,
// one-dimensional data; every row is assigned to exactly one bin) or an
// already-binned array whose grouped elements are binned by an additional
// criterion. erase lists input dimensions to absorb into the bins.
//
// For binned inputs whose target coordinates are per-bin coordinates the
// assignment is performed by the remapping engine (CombineBins), which
// reshuffles whole bins instead of re-deriving per-row membership; the
// results are identical either way.
func (e *Engine) MakeBinned(da *array.DataArray, targets []Target, erase []string) (*array.DataArray, error) {
	if len(targets) == 0 {
		return nil, argErrorf("binning requires at least one target")
	}
	for _, t := range targets {
		if err := t.validate(); err != nil {
			return nil, err
		}
	}

	if binned, ok := da.Binned(); ok {
		outer, event, err := classifyTargets(da, binned, targets)
		if err != nil {
			return nil, err
		}
		switch {
		case outer && event:
			return nil, argErrorf("mixing per-bin and per-event target coordinates is not supported")
		case outer:
			return e.CombineBins(da, targets, erase)
		default:
			if len(erase) > 0 {
				var err error
				if da, err = e.ConcatBins(da, erase); err != nil {
					return nil, err
				}
			}
			return e.binEvents(da, targets)
		}
	}

	if v, ok := da.Dense(); ok && v.NDim() == 1 {
		return e.binTable(da, targets)
	}
	return nil, dimErrorf("can only bin a one-dimensional table or binned data, got dims %v", da.Dims())
}

// classifyTargets determines whether the targets name per-bin (outer) or
// per-event coordinates. A coordinate present in both places is the
// documented ambiguity of re-binning against a conflicting coordinate and
// is rejected; callers must remove one of the two first.
func classifyTargets(da *array.DataArray, binned *array.Binned, targets []Target) (outer, event bool, err error) {
	bufCoords := bufferCoords(binned.Buffer())
	for _, t := range targets {
		_, hasOuter := da.Coord(t.Dim)
		var hasEvent bool
		if bufCoords != nil {
			_, hasEvent = bufCoords[t.Dim]
		}
		switch {
		case hasOuter && hasEvent:
			return false, false, argErrorf("coordinate %q exists both per-bin and per-event; remove one before binning", t.Dim)
		case hasOuter:
			outer = true
		case hasEvent:
			event = true
		default:
			return false, false, coordErrorFrom(t.Dim, knownCoordNames(da, binned))
		}
	}
	return outer, event, nil
}

func bufferCoords(buf array.Buffer) map[string]*array.Variable {
	if da, ok := buf.(*array.DataArray); ok {
		return da.Coords()
	}
	return nil
}

func knownCoordNames(da *array.DataArray, binned *array.Binned) []string {
	names := make([]string, 0, len(da.Coords()))
	for name := range da.Coords() {
		names = append(names, name)
	}
	if binned != nil {
		for name := range bufferCoords(binned.Buffer()) {
			names = append(names, name)
		}
	}
	return names
}

// binTable bins a flat table: every row is assigned to exactly one target
// bin (rows outside every bin are dropped), the table is reordered into a
// fresh contiguous buffer grouped by bin, and begin/end offsets are
// derived by cumulative-sum partitioning.
func (e *Engine) binTable(da *array.DataArray, targets []Target) (*array.DataArray, error) {
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

	indices := compositeIndices(rows, res)
	nbins := 1
	for _, r := range res {
		nbins *= r.nbins
	}
	perm, sizes := permutationBySize(indices, nbins)

	buf, err := da.TakeRowIndices(rowDim, perm)
	if err != nil {
		return nil, err
	}
	return assembleBinned(da, buf.(*array.DataArray), rowDim, nil, nil, res, sizes)
}

// binEvents subdivides an existing binned array by per-event coordinates:
// each bin's rows are assigned to the new target bins, appending the
// target dimensions to the container's dimensions.
func (e *Engine) binEvents(da *array.DataArray, targets []Target) (*array.DataArray, error) {
	binned, _ := da.Binned()
	buf, ok := binned.Buffer().(*array.DataArray)
	if !ok {
		return nil, coordErrorFrom(targets[0].Dim, knownCoordNames(da, binned))
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

	nNew := 1
	for _, r := range res {
		nNew *= r.nbins
	}
	begin, end := binned.Ranges()
	outBins := len(begin) * nNew

	sizes := make([]int64, outBins)
	for b := range begin {
		for r := begin[b]; r < end[b]; r++ {
			if j := compositeIndex(int(r), res); j >= 0 {
				sizes[b*nNew+j]++
			}
		}
	}
	offsets, _ := array.OffsetsFromSizes(sizes)
	next := append([]int64(nil), offsets...)
	perm := make([]int64, total(sizes))
	for b := range begin {
		for r := begin[b]; r < end[b]; r++ {
			if j := compositeIndex(int(r), res); j >= 0 {
				slot := b*nNew + j
				perm[next[slot]] = r
				next[slot]++
			}
		}
	}

	newBuf, err := binned.Buffer().TakeRowIndices(binned.Dim(), perm)
	if err != nil {
		return nil, err
	}
	return assembleBinned(da, newBuf, binned.Dim(), binned.Dims(), binned.Shape(), res, sizes)
}

// assembleBinned builds the output DataArray: binned payload with dims =
// outerDims + target dims, the target coordinates, and the input's
// surviving metadata.
func assembleBinned(src *array.DataArray, buf array.Buffer, contentDim string, outerDims []string, outerShape []int, res []resolved, sizes []int64) (*array.DataArray, error) {
	dims := append([]string(nil), outerDims...)
	shape := append([]int(nil), outerShape...)
	for _, r := range res {
		dims = append(dims, r.dim)
		shape = append(shape, r.nbins)
	}
	beginVals, endVals := array.OffsetsFromSizes(sizes)
	begin, err := array.NewVariable(dims, shape, beginVals)
	if err != nil {
		return nil, err
	}
	end, err := array.NewVariable(dims, shape, endVals)
	if err != nil {
		return nil, err
	}
	binned := array.NewBinnedUnchecked(contentDim, begin, end, buf)

	out := array.NewDataArray(binned).SetName(src.Name())
	if _, isBinned := src.Binned(); isBinned {
		for name, c := range src.Coords() {
			out.SetCoord(name, c)
		}
		for name, m := range src.Masks() {
			out.SetMask(name, m)
		}
	}
	for _, r := range res {
		out.SetCoord(r.dim, r.coordVar)
	}
	return out, nil
}

// tableCoord fetches a per-row coordinate: one-dimensional along rowDim.
func tableCoord(da *array.DataArray, name, rowDim string) (*array.Variable, error) {
	c, ok := da.Coord(name)
	if !ok {
		names := make([]string, 0, len(da.Coords()))
		for n := range da.Coords() {
			names = append(names, n)
		}
		return nil, coordErrorFrom(name, names)
	}
	if c.NDim() != 1 || c.Dims()[0] != rowDim {
		return nil, dimErrorf("coordinate %q must be one-dimensional along %q, got dims %v", name, rowDim, c.Dims())
	}
	return c.Copy(), nil
}

// compositeIndices maps every row to its flattened multi-target bin
// index, -1 when any target rejects the row.
func compositeIndices(rows int, res []resolved) []int {
	indices := make([]int, rows)
	for row := 0; row < rows; row++ {
		indices[row] = compositeIndex(row, res)
	}
	return indices
}

func compositeIndex(row int, res []resolved) int {
	flat := 0
	for _, r := range res {
		j := r.index(row)
		if j < 0 {
			return -1
		}
		flat = flat*r.nbins + j
	}
	return flat
}

// permutationBySize turns per-row bin indices into a row permutation
// grouped by bin plus the per-bin sizes. Rows with index -1 are dropped.
func permutationBySize(indices []int, nbins int) (perm []int64, sizes []int64) {
	sizes = make([]int64, nbins)
	for _, b := range indices {
		if b >= 0 {
			sizes[b]++
		}
	}
	offsets, _ := array.OffsetsFromSizes(sizes)
	next := append([]int64(nil), offsets...)
	perm = make([]int64, total(sizes))
	for row, b := range indices {
		if b < 0 {
			continue
		}
		perm[next[b]] = int64(row)
		next[b]++
	}
	return perm, sizes
}

func total(sizes []int64) int64 {
	var n int64
	for _, s := range sizes {
		n += s
	}
	return n
}
