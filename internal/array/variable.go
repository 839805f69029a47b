package array

import (
	"fmt"
	"strings"
)

// Variable is a labeled N-dimensional array: named dimensions, a shape
// corresponding to them positionally, a runtime data type, a unit, and a
// values arena with optional variances (uncertainties).
//
// A Variable may be a strided view into an arena shared with other
// Variables. Copy is the only operation that breaks aliasing.
type Variable struct {
	dims    []string
	shape   []int
	strides []int // element strides
	offset  int   // element offset into the arena
	dtype   DataType
	unit    Unit
	values  *buffer
	varis   *buffer // optional variances, same layout as values
}

// newDense allocates a contiguous Variable with a fresh arena.
func newDense(dims []string, shape []int, dtype DataType) (*Variable, error) {
	if len(dims) != len(shape) {
		return nil, dimErrorf("got %d dims for shape of rank %d", len(dims), len(shape))
	}
	for i, s := range shape {
		if s < 0 {
			return nil, dimErrorf("dimension %q has negative extent %d", dims[i], s)
		}
	}
	for i, d := range dims {
		if dimIndex(dims[:i], d) >= 0 {
			return nil, dimErrorf("duplicate dimension %q", d)
		}
	}
	n := numElements(shape)
	return &Variable{
		dims:    append([]string(nil), dims...),
		shape:   append([]int(nil), shape...),
		strides: contiguousStrides(shape),
		dtype:   dtype,
		unit:    Dimensionless,
		values:  newBuffer(n * dtype.Size()),
	}, nil
}

// Zeros creates a zero-initialized Variable.
func Zeros(dims []string, shape []int, dtype DataType) (*Variable, error) {
	return newDense(dims, shape, dtype)
}

// NewVariable creates a Variable from a Go slice. The slice is copied.
func NewVariable[T Elem](dims []string, shape []int, values []T) (*Variable, error) {
	var dummy T
	dtype := inferDataType(dummy)
	v, err := newDense(dims, shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(values) != v.NumElements() {
		return nil, dimErrorf("shape %v requires %d elements, but got %d", shape, v.NumElements(), len(values))
	}
	copy(Values[T](v), values)
	return v, nil
}

// NewScalar creates a dimensionless 0-D Variable holding one value.
func NewScalar[T Elem](value T) *Variable {
	v, err := NewVariable[T](nil, nil, []T{value})
	if err != nil {
		panic(err) // rank-0 construction cannot fail
	}
	return v
}

// NewDatetimes creates a DateTime64 Variable from int64 nanosecond values.
func NewDatetimes(dims []string, shape []int, values []int64) (*Variable, error) {
	v, err := NewVariable(dims, shape, values)
	if err != nil {
		return nil, err
	}
	v.dtype = DateTime64
	return v, nil
}

// Dims returns the ordered dimension names.
func (v *Variable) Dims() []string {
	return v.dims
}

// Shape returns the extents corresponding to Dims.
func (v *Variable) Shape() []int {
	return v.shape
}

// NDim returns the rank.
func (v *Variable) NDim() int {
	return len(v.dims)
}

// DType returns the data type.
func (v *Variable) DType() DataType {
	return v.dtype
}

// Unit returns the unit.
func (v *Variable) Unit() Unit {
	return v.unit
}

// SetUnit sets the unit and returns the Variable for chaining.
func (v *Variable) SetUnit(u Unit) *Variable {
	v.unit = u
	return v
}

// NumElements returns the total number of elements.
func (v *Variable) NumElements() int {
	return numElements(v.shape)
}

// Len returns the extent of dim.
func (v *Variable) Len(dim string) (int, error) {
	i := dimIndex(v.dims, dim)
	if i < 0 {
		return 0, dimErrorf("variable with dims %v has no dimension %q", v.dims, dim)
	}
	return v.shape[i], nil
}

// HasVariances reports whether the Variable carries variances.
func (v *Variable) HasVariances() bool {
	return v.varis != nil
}

// IsContiguous reports whether the view is laid out densely in logical
// order. Typed slice accessors require a contiguous view.
func (v *Variable) IsContiguous() bool {
	return sameShape(v.strides, contiguousStrides(v.shape))
}

// IsUnique reports whether this Variable is the only reference to its
// values arena. Callers may mutate in place only when unique.
func (v *Variable) IsUnique() bool {
	return v.values.isUnique()
}

// view returns a shallow view sharing the arenas.
func (v *Variable) view() *Variable {
	v.values.addRef()
	if v.varis != nil {
		v.varis.addRef()
	}
	return &Variable{
		dims:    append([]string(nil), v.dims...),
		shape:   append([]int(nil), v.shape...),
		strides: append([]int(nil), v.strides...),
		offset:  v.offset,
		dtype:   v.dtype,
		unit:    v.unit,
		values:  v.values,
		varis:   v.varis,
	}
}

// Transpose returns a view with dimensions in the given order. With no
// arguments the order is reversed. No data is moved.
func (v *Variable) Transpose(order ...string) (*Variable, error) {
	if len(order) == 0 {
		order = make([]string, len(v.dims))
		for i, d := range v.dims {
			order[len(v.dims)-1-i] = d
		}
	}
	if len(order) != len(v.dims) {
		return nil, dimErrorf("transpose order %v does not match dims %v", order, v.dims)
	}
	out := v.view()
	for i, d := range order {
		j := dimIndex(v.dims, d)
		if j < 0 {
			return nil, dimErrorf("transpose order %v does not match dims %v", order, v.dims)
		}
		out.dims[i] = v.dims[j]
		out.shape[i] = v.shape[j]
		out.strides[i] = v.strides[j]
	}
	return out, nil
}

// Slice returns a view of the half-open range [i, j) along dim. The
// dimension is kept.
func (v *Variable) Slice(dim string, i, j int) (*Variable, error) {
	d := dimIndex(v.dims, dim)
	if d < 0 {
		return nil, dimErrorf("variable with dims %v has no dimension %q", v.dims, dim)
	}
	if i < 0 || j < i || j > v.shape[d] {
		return nil, dimErrorf("slice [%d:%d) out of range for dimension %q of extent %d", i, j, dim, v.shape[d])
	}
	out := v.view()
	out.offset += i * v.strides[d]
	out.shape[d] = j - i
	return out, nil
}

// Index returns a view of position i along dim, dropping the dimension.
func (v *Variable) Index(dim string, i int) (*Variable, error) {
	d := dimIndex(v.dims, dim)
	if d < 0 {
		return nil, dimErrorf("variable with dims %v has no dimension %q", v.dims, dim)
	}
	if i < 0 || i >= v.shape[d] {
		return nil, dimErrorf("index %d out of range for dimension %q of extent %d", i, dim, v.shape[d])
	}
	out := v.view()
	out.offset += i * v.strides[d]
	out.dims = append(out.dims[:d], out.dims[d+1:]...)
	out.shape = append(out.shape[:d], out.shape[d+1:]...)
	out.strides = append(out.strides[:d], out.strides[d+1:]...)
	return out, nil
}

// Broadcast returns a view with the requested dims and shape. Dimensions
// of v must all be present with matching extents; new dimensions get
// stride zero (all positions alias the same elements).
func (v *Variable) Broadcast(dims []string, shape []int) (*Variable, error) {
	if len(dims) != len(shape) {
		return nil, dimErrorf("got %d dims for shape of rank %d", len(dims), len(shape))
	}
	out := v.view()
	out.dims = append([]string(nil), dims...)
	out.shape = append([]int(nil), shape...)
	out.strides = make([]int, len(dims))
	for i, d := range dims {
		j := dimIndex(v.dims, d)
		if j < 0 {
			out.strides[i] = 0
			continue
		}
		if v.shape[j] != shape[i] {
			return nil, dimErrorf("cannot broadcast dimension %q from extent %d to %d", d, v.shape[j], shape[i])
		}
		out.strides[i] = v.strides[j]
	}
	for _, d := range v.dims {
		if !hasDim(dims, d) {
			return nil, dimErrorf("broadcast target %v drops dimension %q", dims, d)
		}
	}
	return out, nil
}

// Copy materializes the view into a fresh, contiguous, uniquely-owned
// Variable in the current dimension order.
func (v *Variable) Copy() *Variable {
	out, err := newDense(v.dims, v.shape, v.dtype)
	if err != nil {
		panic(err) // source invariants guarantee a valid shape
	}
	out.unit = v.unit
	if v.varis != nil {
		out.varis = newBuffer(out.NumElements() * v.dtype.Size())
	}
	copyInto(out, v)
	return out
}

// copyInto copies elements of src into dst in logical order. Both must
// have identical dims, shape, and dtype; dst may be a strided view.
func copyInto(dst, src *Variable) {
	esz := src.dtype.Size()
	di := newElemIter(dst.shape, dst.strides, dst.offset)
	si := newElemIter(src.shape, src.strides, src.offset)
	for {
		d, ok := di.next()
		if !ok {
			break
		}
		s, _ := si.next()
		copy(dst.values.data[d*esz:(d+1)*esz], src.values.data[s*esz:(s+1)*esz])
		if src.varis != nil && dst.varis != nil {
			copy(dst.varis.data[d*esz:(d+1)*esz], src.varis.data[s*esz:(s+1)*esz])
		}
	}
}

// String returns a short human-readable description.
func (v *Variable) String() string {
	parts := make([]string, len(v.dims))
	for i, d := range v.dims {
		parts[i] = fmt.Sprintf("%s: %d", d, v.shape[i])
	}
	return fmt.Sprintf("Variable[%s](%s) unit=%s", v.dtype, strings.Join(parts, ", "), v.unit)
}

// Values returns a typed slice over the values of a contiguous Variable.
// The slice aliases the arena: writes are visible through all views.
// Panics on dtype mismatch or a non-contiguous view.
func Values[T Elem](v *Variable) []T {
	var dummy T
	at := inferDataType(dummy)
	if !accessibleAs(v.dtype, at) {
		panic(fmt.Sprintf("variable dtype is %s, not %s", v.dtype, at))
	}
	if !v.IsContiguous() {
		panic("typed access requires a contiguous variable; call Copy first")
	}
	return typedSlice[T](v.values, v.offset, v.NumElements(), v.dtype)
}

// Variances returns a typed slice over the variances of a contiguous
// Variable, or nil if it has none.
func Variances[T Elem](v *Variable) []T {
	if v.varis == nil {
		return nil
	}
	var dummy T
	at := inferDataType(dummy)
	if !accessibleAs(v.dtype, at) {
		panic(fmt.Sprintf("variable dtype is %s, not %s", v.dtype, at))
	}
	if !v.IsContiguous() {
		panic("typed access requires a contiguous variable; call Copy first")
	}
	return typedSlice[T](v.varis, v.offset, v.NumElements(), v.dtype)
}

// SetVariances attaches variances to a contiguous float Variable.
func SetVariances[T Elem](v *Variable, variances []T) error {
	if !v.dtype.IsFloat() {
		return dtypeErrorf("variances require a float dtype, got %s", v.dtype)
	}
	if len(variances) != v.NumElements() {
		return dimErrorf("got %d variances for %d elements", len(variances), v.NumElements())
	}
	if !v.IsContiguous() {
		return dimErrorf("cannot attach variances to a non-contiguous view")
	}
	v.varis = newBuffer(v.NumElements() * v.dtype.Size())
	copy(typedSlice[T](v.varis, v.offset, v.NumElements(), v.dtype), variances)
	return nil
}

// typedSlice views n elements of a buffer starting at element offset.
func typedSlice[T Elem](b *buffer, offset, n int, dtype DataType) []T {
	data := b.data[offset*dtype.Size():]
	var dummy T
	switch any(dummy).(type) {
	case float64:
		return any(asFloat64(data, n)).([]T)
	case float32:
		return any(asFloat32(data, n)).([]T)
	case int64:
		return any(asInt64(data, n)).([]T)
	case int32:
		return any(asInt32(data, n)).([]T)
	case bool:
		return any(asBool(data, n)).([]T)
	default:
		panic("unsupported type")
	}
}
