package array

// RowRange is a half-open [Begin, End) row range into a content buffer.
type RowRange struct {
	Begin, End int64
}

// Buffer is the closed set of content-buffer types a Binned container can
// slice into: Variable, DataArray, or Dataset. The methods are the dense
// primitives the binning engines consume: row extent, row-slice views,
// and the materializing reorder used by compaction and remapping.
type Buffer interface {
	// RowLen returns the extent of the content dimension.
	RowLen(dim string) (int, error)
	// RowSlice returns a view of rows [i, j) along the content dimension.
	RowSlice(dim string, i, j int) (Buffer, error)
	// TakeRows materializes the given row ranges, in order, into a fresh
	// contiguous buffer. This is the single copying reorder primitive.
	TakeRows(dim string, ranges []RowRange) (Buffer, error)
	// TakeRowIndices materializes the given rows, in order, into a fresh
	// contiguous buffer.
	TakeRowIndices(dim string, idx []int64) (Buffer, error)
	// CopyBuffer returns a deep copy.
	CopyBuffer() Buffer

	isBuffer()
}

func (v *Variable) isBuffer()   {}
func (da *DataArray) isBuffer() {}
func (ds *Dataset) isBuffer()   {}

// Variable as Buffer.

// RowLen returns the extent of dim.
func (v *Variable) RowLen(dim string) (int, error) {
	return v.Len(dim)
}

// RowSlice returns a view of rows [i, j) along dim.
func (v *Variable) RowSlice(dim string, i, j int) (Buffer, error) {
	return v.Slice(dim, i, j)
}

// TakeRows gathers row ranges along dim into a fresh contiguous Variable.
func (v *Variable) TakeRows(dim string, ranges []RowRange) (Buffer, error) {
	d := dimIndex(v.dims, dim)
	if d < 0 {
		return nil, dimErrorf("variable with dims %v has no dimension %q", v.dims, dim)
	}
	total := 0
	for _, r := range ranges {
		total += int(r.End - r.Begin)
	}
	outShape := append([]int(nil), v.shape...)
	outShape[d] = total
	out, err := newDense(v.dims, outShape, v.dtype)
	if err != nil {
		return nil, err
	}
	out.unit = v.unit
	if v.varis != nil {
		out.varis = newBuffer(out.NumElements() * out.dtype.Size())
	}
	off := 0
	for _, r := range ranges {
		n := int(r.End - r.Begin)
		if n == 0 {
			continue
		}
		src, err := v.Slice(dim, int(r.Begin), int(r.End))
		if err != nil {
			return nil, err
		}
		dst, err := out.Slice(dim, off, off+n)
		if err != nil {
			return nil, err
		}
		copyInto(dst, src)
		off += n
	}
	return out, nil
}

// TakeRowIndices gathers single rows along dim into a fresh contiguous
// Variable.
func (v *Variable) TakeRowIndices(dim string, idx []int64) (Buffer, error) {
	ints := make([]int, len(idx))
	for i, x := range idx {
		ints[i] = int(x)
	}
	return Take(v, dim, ints)
}

// CopyBuffer returns a deep copy.
func (v *Variable) CopyBuffer() Buffer { return v.Copy() }

// DataArray as Buffer. The payload must be dense; coordinates and masks
// depending on the content dimension are reordered alongside the data,
// metadata without that dimension is shared unchanged.

// RowLen returns the extent of the content dimension.
func (da *DataArray) RowLen(dim string) (int, error) {
	v, ok := da.data.(*Variable)
	if !ok {
		return 0, dimErrorf("nested binned content buffers are not supported")
	}
	return v.Len(dim)
}

// RowSlice returns a view of rows [i, j) along the content dimension.
func (da *DataArray) RowSlice(dim string, i, j int) (Buffer, error) {
	return da.Slice(dim, i, j)
}

// TakeRows gathers row ranges along the content dimension.
func (da *DataArray) TakeRows(dim string, ranges []RowRange) (Buffer, error) {
	return da.reorderRows(dim, func(v *Variable) (Buffer, error) {
		return v.TakeRows(dim, ranges)
	})
}

// TakeRowIndices gathers single rows along the content dimension.
func (da *DataArray) TakeRowIndices(dim string, idx []int64) (Buffer, error) {
	return da.reorderRows(dim, func(v *Variable) (Buffer, error) {
		return v.TakeRowIndices(dim, idx)
	})
}

func (da *DataArray) reorderRows(dim string, take func(*Variable) (Buffer, error)) (Buffer, error) {
	v, ok := da.data.(*Variable)
	if !ok {
		return nil, dimErrorf("nested binned content buffers are not supported")
	}
	taken, err := take(v)
	if err != nil {
		return nil, err
	}
	out := NewDataArray(taken.(*Variable)).SetName(da.name)
	for name, c := range da.coords {
		if !hasDim(c.Dims(), dim) {
			out.coords[name] = c
			continue
		}
		tc, err := take(c)
		if err != nil {
			return nil, err
		}
		out.coords[name] = tc.(*Variable)
	}
	for name, m := range da.masks {
		if !hasDim(m.Dims(), dim) {
			out.masks[name] = m
			continue
		}
		tm, err := take(m)
		if err != nil {
			return nil, err
		}
		out.masks[name] = tm.(*Variable)
	}
	return out, nil
}

// CopyBuffer returns a deep copy.
func (da *DataArray) CopyBuffer() Buffer { return da.Copy() }

// Dataset as Buffer. Operations apply to every item.

// RowLen returns the extent of the content dimension, which all items
// share.
func (ds *Dataset) RowLen(dim string) (int, error) {
	for _, da := range ds.items {
		return da.RowLen(dim)
	}
	return 0, dimErrorf("empty dataset has no dimension %q", dim)
}

// RowSlice returns a view of rows [i, j) of every item.
func (ds *Dataset) RowSlice(dim string, i, j int) (Buffer, error) {
	out := NewDataset()
	for name, da := range ds.items {
		s, err := da.Slice(dim, i, j)
		if err != nil {
			return nil, err
		}
		out.SetItem(name, s)
	}
	return out, nil
}

// TakeRows gathers row ranges of every item.
func (ds *Dataset) TakeRows(dim string, ranges []RowRange) (Buffer, error) {
	out := NewDataset()
	for name, da := range ds.items {
		t, err := da.TakeRows(dim, ranges)
		if err != nil {
			return nil, err
		}
		out.SetItem(name, t.(*DataArray))
	}
	return out, nil
}

// TakeRowIndices gathers single rows of every item.
func (ds *Dataset) TakeRowIndices(dim string, idx []int64) (Buffer, error) {
	out := NewDataset()
	for name, da := range ds.items {
		t, err := da.TakeRowIndices(dim, idx)
		if err != nil {
			return nil, err
		}
		out.SetItem(name, t.(*DataArray))
	}
	return out, nil
}

// CopyBuffer returns a deep copy.
func (ds *Dataset) CopyBuffer() Buffer { return ds.Copy() }
