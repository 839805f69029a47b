package array

// dimIndex returns the position of dim in dims, or -1.
func dimIndex(dims []string, dim string) int {
	for i, d := range dims {
		if d == dim {
			return i
		}
	}
	return -1
}

// hasDim reports whether dim appears in dims.
func hasDim(dims []string, dim string) bool {
	return dimIndex(dims, dim) >= 0
}

// sameDims reports whether two dim lists are identical including order.
func sameDims(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sameShape reports whether two shapes are identical.
func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// numElements returns the total element count of a shape. A rank-0 shape
// holds one element.
func numElements(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// contiguousStrides calculates row-major element strides for a shape.
func contiguousStrides(shape []int) []int {
	strides := make([]int, len(shape))
	if len(shape) == 0 {
		return strides
	}
	strides[len(shape)-1] = 1
	for i := len(shape) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * shape[i+1]
	}
	return strides
}

// unionDims returns the ordered union of two dim/shape pairs. Dims of a
// come first, dims only in b are appended in b's order. Shared dims must
// agree in extent.
func unionDims(aDims []string, aShape []int, bDims []string, bShape []int) ([]string, []int, error) {
	dims := append([]string(nil), aDims...)
	shape := append([]int(nil), aShape...)
	for i, d := range bDims {
		j := dimIndex(dims, d)
		if j < 0 {
			dims = append(dims, d)
			shape = append(shape, bShape[i])
			continue
		}
		if shape[j] != bShape[i] {
			return nil, nil, dimErrorf("dimension %q has conflicting extents %d and %d", d, shape[j], bShape[i])
		}
	}
	return dims, shape, nil
}
