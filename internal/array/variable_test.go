package array

import (
	"testing"
)

func mustVariable[T Elem](t *testing.T, dims []string, shape []int, values []T) *Variable {
	t.Helper()
	v, err := NewVariable(dims, shape, values)
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}
	return v
}

func assertEqualSlice[T comparable](t *testing.T, got, want []T, msg string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", msg, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s: got %v, want %v", msg, got, want)
		}
	}
}

func assertEqualShape(t *testing.T, got, want []int, msg string) {
	t.Helper()
	assertEqualSlice(t, got, want, msg)
}

func TestNewVariableShapeMismatch(t *testing.T) {
	_, err := NewVariable([]string{"x"}, []int{3}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for 2 values in shape [3]")
	}
}

func TestNewVariableDuplicateDim(t *testing.T) {
	_, err := NewVariable([]string{"x", "x"}, []int{2, 2}, make([]float64, 4))
	if err == nil {
		t.Fatal("expected error for duplicate dimension")
	}
}

func TestTransposeCopy(t *testing.T) {
	v := mustVariable(t, []string{"x", "y"}, []int{2, 3}, []int64{1, 2, 3, 4, 5, 6})

	tr, err := v.Transpose()
	if err != nil {
		t.Fatalf("Transpose failed: %v", err)
	}
	assertEqualSlice(t, tr.Dims(), []string{"y", "x"}, "transposed dims")
	assertEqualShape(t, tr.Shape(), []int{3, 2}, "transposed shape")
	if tr.IsContiguous() {
		t.Fatal("transpose view should not be contiguous")
	}

	c := tr.Copy()
	if !c.IsContiguous() {
		t.Fatal("copy should be contiguous")
	}
	assertEqualSlice(t, Values[int64](c), []int64{1, 4, 2, 5, 3, 6}, "transposed values")
}

func TestSliceAndIndex(t *testing.T) {
	v := mustVariable(t, []string{"x"}, []int{5}, []float64{10, 20, 30, 40, 50})

	s, err := v.Slice("x", 1, 4)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	assertEqualSlice(t, Values[float64](s.Copy()), []float64{20, 30, 40}, "sliced values")

	// Writes through a view are visible in the original.
	Values[float64](s)[0] = 99
	assertEqualSlice(t, Values[float64](v), []float64{10, 99, 30, 40, 50}, "write through view")

	m := mustVariable(t, []string{"x", "y"}, []int{2, 2}, []int64{1, 2, 3, 4})
	row, err := m.Index("x", 1)
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	assertEqualSlice(t, row.Dims(), []string{"y"}, "indexed dims")
	assertEqualSlice(t, Values[int64](row.Copy()), []int64{3, 4}, "indexed values")
}

func TestBroadcast(t *testing.T) {
	v := mustVariable(t, []string{"y"}, []int{2}, []float64{7, 8})
	b, err := v.Broadcast([]string{"x", "y"}, []int{3, 2})
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	assertEqualSlice(t, Values[float64](b.Copy()), []float64{7, 8, 7, 8, 7, 8}, "broadcast values")

	if _, err := v.Broadcast([]string{"x"}, []int{3}); err == nil {
		t.Fatal("expected error for broadcast dropping a dimension")
	}
	if _, err := v.Broadcast([]string{"x", "y"}, []int{3, 5}); err == nil {
		t.Fatal("expected error for mismatched extent")
	}
}

func TestValuesPanicsOnNonContiguous(t *testing.T) {
	v := mustVariable(t, []string{"x", "y"}, []int{2, 2}, []int64{1, 2, 3, 4})
	tr, _ := v.Transpose()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for typed access to a non-contiguous view")
		}
	}()
	Values[int64](tr)
}

func TestVariances(t *testing.T) {
	v := mustVariable(t, []string{"x"}, []int{3}, []float64{1, 2, 3})
	if v.HasVariances() {
		t.Fatal("fresh variable should have no variances")
	}
	if err := SetVariances(v, []float64{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("SetVariances failed: %v", err)
	}
	assertEqualSlice(t, Variances[float64](v), []float64{0.1, 0.2, 0.3}, "variances")

	// Copy carries the variances.
	c := v.Copy()
	assertEqualSlice(t, Variances[float64](c), []float64{0.1, 0.2, 0.3}, "copied variances")

	i := mustVariable(t, []string{"x"}, []int{2}, []int64{1, 2})
	if err := SetVariances(i, []int64{1, 2}); err == nil {
		t.Fatal("expected error attaching variances to int data")
	}
}

func TestDatetimeAccessibleAsInt64(t *testing.T) {
	v, err := NewDatetimes([]string{"t"}, []int{2}, []int64{1000, 2000})
	if err != nil {
		t.Fatalf("NewDatetimes failed: %v", err)
	}
	if v.DType() != DateTime64 {
		t.Fatalf("dtype = %s, want datetime64", v.DType())
	}
	assertEqualSlice(t, Values[int64](v), []int64{1000, 2000}, "datetime values")
}
