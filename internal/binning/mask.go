package binning

import (
	"sort"

	"github.com/ragged-data/ragged/internal/array"
)

// IrreducibleMask returns the logical OR of every mask of da whose own
// dimensions intersect dims, transposed to match the data's dimension
// order. It returns nil when no mask applies.
func IrreducibleMask(da *array.DataArray, dims []string) (*array.Variable, error) {
	var folded *array.Variable
	for _, name := range sortedMaskNames(da) {
		m := da.Masks()[name]
		if !intersects(m.Dims(), dims) {
			continue
		}
		if folded == nil {
			folded = m
			continue
		}
		or, err := array.Or(folded, m)
		if err != nil {
			return nil, err
		}
		folded = or
	}
	if folded == nil {
		return nil, nil
	}
	// Order the mask dims as they appear in the data.
	order := make([]string, 0, folded.NDim())
	for _, d := range da.Dims() {
		if hasDim(folded.Dims(), d) {
			order = append(order, d)
		}
	}
	if len(order) != folded.NDim() {
		return nil, dimErrorf("mask dims %v are not all data dims %v", folded.Dims(), da.Dims())
	}
	return folded.Transpose(order...)
}

// HideMasked folds the irreducible mask for dims into the binned input so
// masked bins contribute no content to later reductions. A 1-D mask
// compacts the index arrays by dropping the masked positions outright
// (the whole row of bins can go without breaking alignment); any
// higher-dimensional mask instead sets end = begin at masked positions,
// leaving the content buffer untouched. Applied masks are removed from
// the result.
func HideMasked(da *array.DataArray, dims []string) (*array.DataArray, error) {
	binned, ok := da.Binned()
	if !ok {
		return nil, argErrorf("hide masked requires binned data")
	}
	mask, err := IrreducibleMask(da, dims)
	if err != nil {
		return nil, err
	}
	if mask == nil {
		return da, nil
	}

	out := array.NewDataArray(binned).SetName(da.Name())
	for name, c := range da.Coords() {
		out.SetCoord(name, c)
	}
	for name, m := range da.Masks() {
		if intersects(m.Dims(), dims) {
			continue // consumed by the fold below
		}
		out.SetMask(name, m)
	}

	if mask.NDim() == 1 {
		return compactMasked(out, binned, mask)
	}
	return emptyMasked(out, binned, mask)
}

// compactMasked drops masked positions along the mask's single dimension
// from the index arrays, coordinates, and remaining masks. The content
// buffer is shared untouched.
func compactMasked(out *array.DataArray, binned *array.Binned, mask *array.Variable) (*array.DataArray, error) {
	dim := mask.Dims()[0]
	vals := array.Values[bool](mask.Copy())
	keep := make([]int, 0, len(vals))
	for i, masked := range vals {
		if !masked {
			keep = append(keep, i)
		}
	}
	begin, err := array.Take(binned.Begin(), dim, keep)
	if err != nil {
		return nil, err
	}
	end, err := array.Take(binned.End(), dim, keep)
	if err != nil {
		return nil, err
	}
	out.SetData(array.NewBinnedUnchecked(binned.Dim(), begin, end, binned.Buffer()))
	for name, c := range out.Coords() {
		if !hasDim(c.Dims(), dim) {
			continue
		}
		// Edge coordinates cannot be compacted; positions are dropped, not
		// merged, so only per-position coordinates survive.
		if n, err := c.Len(dim); err != nil || n != len(vals) {
			out.DropCoord(name)
			continue
		}
		tc, err := array.Take(c, dim, keep)
		if err != nil {
			return nil, err
		}
		out.SetCoord(name, tc)
	}
	for name, m := range out.Masks() {
		if !hasDim(m.Dims(), dim) {
			continue
		}
		tm, err := array.Take(m, dim, keep)
		if err != nil {
			return nil, err
		}
		out.SetMask(name, tm)
	}
	return out, nil
}

// emptyMasked sets end = begin wherever the mask holds, making those bins
// logically empty without moving any content.
func emptyMasked(out *array.DataArray, binned *array.Binned, mask *array.Variable) (*array.DataArray, error) {
	bm, err := mask.Broadcast(binned.Dims(), binned.Shape())
	if err != nil {
		return nil, err
	}
	masked := array.Values[bool](bm.Copy())
	begin, end := binned.Ranges()
	for i := range end {
		if masked[i] {
			end[i] = begin[i]
		}
	}
	bv, err := array.NewVariable(binned.Dims(), binned.Shape(), begin)
	if err != nil {
		return nil, err
	}
	ev, err := array.NewVariable(binned.Dims(), binned.Shape(), end)
	if err != nil {
		return nil, err
	}
	out.SetData(array.NewBinnedUnchecked(binned.Dim(), bv, ev, binned.Buffer()))
	return out, nil
}

func intersects(a, b []string) bool {
	for _, d := range a {
		if hasDim(b, d) {
			return true
		}
	}
	return false
}

func hasDim(dims []string, dim string) bool {
	for _, d := range dims {
		if d == dim {
			return true
		}
	}
	return false
}

func sortedMaskNames(da *array.DataArray) []string {
	names := make([]string, 0, len(da.Masks()))
	for name := range da.Masks() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
