package array

// Binned is a container whose elements are variable-length bins: each
// element holds a half-open [begin, end) row range into a shared content
// buffer. Bins may alias overlapping or identical ranges; a bin with
// begin == end is empty. Writes through any view of the buffer are
// visible through all bins that alias the written range. Copy is the
// only operation that compacts into a fresh, non-overlapping layout.
type Binned struct {
	dim    string // content dimension the ranges slice
	begin  *Variable
	end    *Variable
	buffer Buffer
}

// Constituents exposes the four independent parts of a Binned container.
type Constituents struct {
	Data  Buffer
	Dim   string
	Begin *Variable
	End   *Variable
}

// NewBinned creates a Binned container and validates every range against
// the buffer extent.
func NewBinned(dim string, begin, end *Variable, buf Buffer) (*Binned, error) {
	b := NewBinnedUnchecked(dim, begin, end, buf)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// NewBinnedUnchecked creates a Binned container without range validation.
// This is the fast path used by the remapping engine, which constructs
// begin/end it already knows to be valid; general callers should use
// NewBinned.
func NewBinnedUnchecked(dim string, begin, end *Variable, buf Buffer) *Binned {
	return &Binned{dim: dim, begin: begin, end: end, buffer: buf}
}

// FromConstituents assembles a Binned container from constituent parts,
// validating ranges against the (possibly replaced) buffer.
func FromConstituents(c Constituents) (*Binned, error) {
	return NewBinned(c.Dim, c.Begin, c.End, c.Data)
}

// Validate checks the container invariants: begin/end agree in dims,
// shape, and dtype, and every range satisfies 0 <= begin <= end <= rows.
func (b *Binned) Validate() error {
	if !accessibleAs(b.begin.DType(), Int64) || !accessibleAs(b.end.DType(), Int64) {
		return dtypeErrorf("bin indices must be int64, got %s and %s", b.begin.DType(), b.end.DType())
	}
	if !sameDims(b.begin.Dims(), b.end.Dims()) || !sameShape(b.begin.Shape(), b.end.Shape()) {
		return dimErrorf("begin %v and end %v do not match", b.begin, b.end)
	}
	rows, err := b.buffer.RowLen(b.dim)
	if err != nil {
		return err
	}
	begin, end := b.Ranges()
	for i := range begin {
		if begin[i] < 0 || begin[i] > end[i] || end[i] > int64(rows) {
			return dimErrorf("bin %d range [%d, %d) exceeds buffer of %d rows", i, begin[i], end[i], rows)
		}
	}
	return nil
}

// Dim returns the content dimension name.
func (b *Binned) Dim() string { return b.dim }

// Begin returns the begin index Variable.
func (b *Binned) Begin() *Variable { return b.begin }

// End returns the end index Variable.
func (b *Binned) End() *Variable { return b.end }

// Buffer returns the shared content buffer.
func (b *Binned) Buffer() Buffer { return b.buffer }

// Constituents returns {data, dim, begin, end}. Callers may replace any
// field independently and reassemble with FromConstituents (validated) or
// NewBinnedUnchecked (engine fast path).
func (b *Binned) Constituents() Constituents {
	return Constituents{Data: b.buffer, Dim: b.dim, Begin: b.begin, End: b.end}
}

// Dims returns the container's dimension names.
func (b *Binned) Dims() []string { return b.begin.Dims() }

// Shape returns the container's shape.
func (b *Binned) Shape() []int { return b.begin.Shape() }

// NumBins returns the number of bins.
func (b *Binned) NumBins() int { return b.begin.NumElements() }

// Ranges returns contiguous copies of the begin and end offsets in the
// container's logical element order.
func (b *Binned) Ranges() (begin, end []int64) {
	return Values[int64](b.begin.Copy()), Values[int64](b.end.Copy())
}

// Sizes returns end - begin elementwise: the number of content rows per
// bin, with the container's dims and shape.
func (b *Binned) Sizes() *Variable {
	begin, end := b.Ranges()
	for i := range begin {
		end[i] -= begin[i]
	}
	out, err := NewVariable(b.begin.Dims(), b.begin.Shape(), end)
	if err != nil {
		panic(err) // begin invariants guarantee a valid shape
	}
	return out
}

// At returns the bin at the given indices as a row-slice view of the
// buffer. Empty bins yield zero-row views and never read past the buffer.
func (b *Binned) At(indices ...int) (Buffer, error) {
	begin, err := b.flatRange(indices)
	if err != nil {
		return nil, err
	}
	return b.buffer.RowSlice(b.dim, int(begin[0]), int(begin[1]))
}

// SetAt replaces the values of the bin at the given indices. The buffer
// must be a dense Variable and values must match the bin's current shape;
// bin membership cannot change through this path.
func (b *Binned) SetAt(values *Variable, indices ...int) error {
	v, ok := b.buffer.(*Variable)
	if !ok {
		return dimErrorf("bin element writes require a Variable buffer")
	}
	r, err := b.flatRange(indices)
	if err != nil {
		return err
	}
	dst, err := v.Slice(b.dim, int(r[0]), int(r[1]))
	if err != nil {
		return err
	}
	if !sameDims(dst.Dims(), values.Dims()) || !sameShape(dst.Shape(), values.Shape()) {
		return dimErrorf("bin of shape %v cannot hold values of shape %v", dst.Shape(), values.Shape())
	}
	if dst.DType() != values.DType() {
		return dtypeErrorf("bin dtype %s cannot hold values of dtype %s", dst.DType(), values.DType())
	}
	copyInto(dst, values)
	return nil
}

// flatRange resolves indices into the container to the bin's [begin, end).
func (b *Binned) flatRange(indices []int) ([2]int64, error) {
	shape := b.begin.Shape()
	if len(indices) != len(shape) {
		return [2]int64{}, dimErrorf("expected %d indices, got %d", len(shape), len(indices))
	}
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			return [2]int64{}, dimErrorf("index %d out of range for dimension %q of extent %d", idx, b.begin.Dims()[i], shape[i])
		}
		flat = flat*shape[i] + idx
	}
	begin, end := b.Ranges()
	return [2]int64{begin[flat], end[flat]}, nil
}

// Copy compacts the container: the content is reordered into a fresh,
// uniquely-owned buffer following the current bin iteration order, and
// fresh, non-overlapping begin/end offsets are issued.
func (b *Binned) Copy() *Binned {
	begin, end := b.Ranges()
	ranges := make([]RowRange, len(begin))
	sizes := make([]int64, len(begin))
	for i := range begin {
		ranges[i] = RowRange{Begin: begin[i], End: end[i]}
		sizes[i] = end[i] - begin[i]
	}
	buf, err := b.buffer.TakeRows(b.dim, ranges)
	if err != nil {
		panic(err) // container invariants guarantee valid ranges
	}
	newBegin, newEnd := OffsetsFromSizes(sizes)
	bv, err := NewVariable(b.begin.Dims(), b.begin.Shape(), newBegin)
	if err != nil {
		panic(err)
	}
	ev, err := NewVariable(b.begin.Dims(), b.begin.Shape(), newEnd)
	if err != nil {
		panic(err)
	}
	return NewBinnedUnchecked(b.dim, bv, ev, buf)
}
