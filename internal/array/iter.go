package array

// elemIter walks the element offsets of a strided view in logical
// (row-major by dims) order. Offsets are relative to the view's arena,
// already including the view offset.
type elemIter struct {
	shape   []int
	strides []int
	idx     []int
	offset  int
	pos     int
	n       int
}

func newElemIter(shape, strides []int, offset int) *elemIter {
	return &elemIter{
		shape:   shape,
		strides: strides,
		idx:     make([]int, len(shape)),
		offset:  offset,
		n:       numElements(shape),
	}
}

// next returns the arena offset of the next element in logical order.
// The second result is false once the view is exhausted.
func (it *elemIter) next() (int, bool) {
	if it.pos >= it.n {
		return 0, false
	}
	off := it.offset
	it.pos++
	// Advance the index vector for the following call.
	if it.pos < it.n {
		for d := len(it.shape) - 1; d >= 0; d-- {
			it.idx[d]++
			it.offset += it.strides[d]
			if it.idx[d] < it.shape[d] {
				break
			}
			it.idx[d] = 0
			it.offset -= it.strides[d] * it.shape[d]
		}
	}
	return off, true
}
