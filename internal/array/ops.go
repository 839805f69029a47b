package array

// Dense primitive operations consumed by the binning engines. These follow
// the plain-function style of the rest of the package: explicit error
// returns, dtype switches, no dispatch layer.

// Concat concatenates Variables along dim. All inputs must have the same
// dimensions (any order), dtype, and unit; inputs after the first are
// transposed to the first input's dimension order.
func Concat(vars []*Variable, dim string) (*Variable, error) {
	if len(vars) == 0 {
		return nil, dimErrorf("concat requires at least one variable")
	}
	first := vars[0]
	if !hasDim(first.dims, dim) {
		return nil, dimErrorf("concat dimension %q not in dims %v", dim, first.dims)
	}
	total := 0
	withVariances := first.varis != nil
	aligned := make([]*Variable, len(vars))
	for i, v := range vars {
		if v.dtype != first.dtype {
			return nil, dtypeErrorf("concat: mixed dtypes %s and %s", first.dtype, v.dtype)
		}
		if v.unit != first.unit {
			return nil, unitErrorf("concat: mixed units %s and %s", first.unit, v.unit)
		}
		if (v.varis != nil) != withVariances {
			return nil, dtypeErrorf("concat: mixed presence of variances")
		}
		t, err := v.Transpose(first.dims...)
		if err != nil {
			return nil, err
		}
		if !sameShapeExcept(first.shape, t.shape, dimIndex(first.dims, dim)) {
			return nil, dimErrorf("concat: shape %v incompatible with %v along %q", t.shape, first.shape, dim)
		}
		n, err := t.Len(dim)
		if err != nil {
			return nil, err
		}
		total += n
		aligned[i] = t
	}

	outShape := append([]int(nil), first.shape...)
	d := dimIndex(first.dims, dim)
	outShape[d] = total
	out, err := newDense(first.dims, outShape, first.dtype)
	if err != nil {
		return nil, err
	}
	out.unit = first.unit
	if withVariances {
		out.varis = newBuffer(out.NumElements() * out.dtype.Size())
	}
	off := 0
	for _, v := range aligned {
		n := v.shape[d]
		dst, err := out.Slice(dim, off, off+n)
		if err != nil {
			return nil, err
		}
		copyInto(dst, v)
		off += n
	}
	return out, nil
}

// sameShapeExcept reports whether shapes agree in every position but d.
func sameShapeExcept(a, b []int, d int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if i != d && a[i] != b[i] {
			return false
		}
	}
	return true
}

// Cumsum returns the inclusive cumulative sum of an int64 Variable taken
// over all elements in logical order, with the input's dims and shape.
func Cumsum(v *Variable) (*Variable, error) {
	if !accessibleAs(v.dtype, Int64) {
		return nil, dtypeErrorf("cumsum requires int64 values, got %s", v.dtype)
	}
	out := v.Copy()
	vals := Values[int64](out)
	var acc int64
	for i := range vals {
		acc += vals[i]
		vals[i] = acc
	}
	return out, nil
}

// Or computes the elementwise logical OR of two boolean Variables. The
// result carries the ordered union of both inputs' dimensions, with each
// input broadcast as needed.
func Or(a, b *Variable) (*Variable, error) {
	return boolBinary(a, b, func(x, y bool) bool { return x || y })
}

// And computes the elementwise logical AND of two boolean Variables with
// the same broadcasting rules as Or.
func And(a, b *Variable) (*Variable, error) {
	return boolBinary(a, b, func(x, y bool) bool { return x && y })
}

func boolBinary(a, b *Variable, op func(x, y bool) bool) (*Variable, error) {
	if a.dtype != Bool || b.dtype != Bool {
		return nil, dtypeErrorf("boolean op requires bool operands, got %s and %s", a.dtype, b.dtype)
	}
	dims, shape, err := unionDims(a.dims, a.shape, b.dims, b.shape)
	if err != nil {
		return nil, err
	}
	ab, err := a.Broadcast(dims, shape)
	if err != nil {
		return nil, err
	}
	bb, err := b.Broadcast(dims, shape)
	if err != nil {
		return nil, err
	}
	out, err := newDense(dims, shape, Bool)
	if err != nil {
		return nil, err
	}
	vals := Values[bool](out)
	ai := newElemIter(ab.shape, ab.strides, ab.offset)
	bi := newElemIter(bb.shape, bb.strides, bb.offset)
	aData := asBool(a.values.data, len(a.values.data))
	bData := asBool(b.values.data, len(b.values.data))
	for k := range vals {
		ao, _ := ai.next()
		bo, _ := bi.next()
		vals[k] = op(aData[ao], bData[bo])
	}
	return out, nil
}

// Not computes the elementwise logical NOT of a boolean Variable.
func Not(v *Variable) (*Variable, error) {
	if v.dtype != Bool {
		return nil, dtypeErrorf("not requires a bool operand, got %s", v.dtype)
	}
	out := v.Copy()
	vals := Values[bool](out)
	for i := range vals {
		vals[i] = !vals[i]
	}
	return out, nil
}

// Take gathers the given positions along dim into a fresh contiguous
// Variable, in the order of idx.
func Take(v *Variable, dim string, idx []int) (*Variable, error) {
	d := dimIndex(v.dims, dim)
	if d < 0 {
		return nil, dimErrorf("variable with dims %v has no dimension %q", v.dims, dim)
	}
	outShape := append([]int(nil), v.shape...)
	outShape[d] = len(idx)
	out, err := newDense(v.dims, outShape, v.dtype)
	if err != nil {
		return nil, err
	}
	out.unit = v.unit
	if v.varis != nil {
		out.varis = newBuffer(out.NumElements() * out.dtype.Size())
	}
	for k, i := range idx {
		src, err := v.Index(dim, i)
		if err != nil {
			return nil, err
		}
		dst, err := out.Index(dim, k)
		if err != nil {
			return nil, err
		}
		copyInto(dst, src)
	}
	return out, nil
}

// OffsetsFromSizes derives begin/end offsets for contiguous partitioning:
// end is the inclusive cumulative sum of sizes and begin = end - size.
func OffsetsFromSizes(sizes []int64) (begin, end []int64) {
	begin = make([]int64, len(sizes))
	end = make([]int64, len(sizes))
	var acc int64
	for i, s := range sizes {
		begin[i] = acc
		acc += s
		end[i] = acc
	}
	return begin, end
}
