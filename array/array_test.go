// Copyright 2026 Ragged Data Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package array_test

import (
	"testing"

	"github.com/ragged-data/ragged/array"
)

// TestVariableAPI verifies the Variable alias exposes the expected API.
func TestVariableAPI(t *testing.T) {
	v, err := array.NewVariable([]string{"x", "y"}, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}

	if got := v.NDim(); got != 2 {
		t.Errorf("NDim() = %d, want 2", got)
	}
	if got := v.NumElements(); got != 6 {
		t.Errorf("NumElements() = %d, want 6", got)
	}
	if got := v.Dims(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Dims() = %v, want [x y]", got)
	}
	if got := v.DType(); got != array.Float64 {
		t.Errorf("DType() = %v, want Float64", got)
	}
	if got := v.Unit(); got != array.Dimensionless {
		t.Errorf("Unit() = %v, want dimensionless", got)
	}

	clone := v.Copy()
	array.Values[float64](clone)[0] = 99
	if array.Values[float64](v)[0] == 99 {
		t.Error("Copy() did not create an independent arena")
	}
}

// TestDataTypeConstants verifies all data type constants are accessible.
func TestDataTypeConstants(t *testing.T) {
	dtypes := []struct {
		name  string
		dtype array.DataType
	}{
		{"Float64", array.Float64},
		{"Float32", array.Float32},
		{"Int64", array.Int64},
		{"Int32", array.Int32},
		{"Bool", array.Bool},
		{"DateTime64", array.DateTime64},
	}

	for _, dt := range dtypes {
		t.Run(dt.name, func(t *testing.T) {
			if str := dt.dtype.String(); str == "" {
				t.Errorf("DataType.String() = %q, want non-empty", str)
			}
			if size := dt.dtype.Size(); size <= 0 {
				t.Errorf("DataType.Size() = %d, want > 0", size)
			}
		})
	}
}

// TestDataArrayAPI verifies the DataArray alias exposes coordinates and
// masks.
func TestDataArrayAPI(t *testing.T) {
	data, err := array.NewVariable([]string{"x"}, []int{3}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}
	coord, err := array.NewVariable([]string{"x"}, []int{3}, []int64{10, 20, 30})
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}
	mask, err := array.NewVariable([]string{"x"}, []int{3}, []bool{false, true, false})
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}

	da := array.NewDataArray(data).SetCoord("x", coord)
	da.SetMask("bad", mask)

	if _, ok := da.Dense(); !ok {
		t.Error("Dense() = false for a Variable payload, want true")
	}
	if _, ok := da.Binned(); ok {
		t.Error("Binned() = true for a Variable payload, want false")
	}
	if c, ok := da.Coord("x"); !ok || c.NumElements() != 3 {
		t.Error("Coord(x) missing or wrong size")
	}
	if da.CoordIsEdges("x", "x") {
		t.Error("CoordIsEdges() = true for a point coordinate, want false")
	}
	if _, ok := da.Mask("bad"); !ok {
		t.Error("Mask(bad) missing")
	}
}

// TestBinnedAPI verifies the Binned alias and its constituents round-trip.
func TestBinnedAPI(t *testing.T) {
	buf, err := array.NewVariable([]string{"row"}, []int{4}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}
	begin, err := array.NewVariable([]string{"x"}, []int{2}, []int64{0, 2})
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}
	end, err := array.NewVariable([]string{"x"}, []int{2}, []int64{2, 4})
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}

	binned, err := array.NewBinned("row", begin, end, buf)
	if err != nil {
		t.Fatalf("NewBinned failed: %v", err)
	}

	sizes := array.Values[int64](binned.Sizes())
	if sizes[0] != 2 || sizes[1] != 2 {
		t.Errorf("Sizes() = %v, want [2 2]", sizes)
	}

	rebuilt, err := array.FromConstituents(binned.Constituents())
	if err != nil {
		t.Fatalf("FromConstituents failed: %v", err)
	}
	if rebuilt.NumBins() != 2 {
		t.Errorf("NumBins() = %d, want 2", rebuilt.NumBins())
	}
}

// TestOffsetsFromSizes verifies the partitioning helper.
func TestOffsetsFromSizes(t *testing.T) {
	begin, end := array.OffsetsFromSizes([]int64{2, 0, 3})
	wantBegin := []int64{0, 2, 2}
	wantEnd := []int64{2, 2, 5}
	for i := range wantBegin {
		if begin[i] != wantBegin[i] || end[i] != wantEnd[i] {
			t.Errorf("OffsetsFromSizes() = (%v, %v), want (%v, %v)", begin, end, wantBegin, wantEnd)
		}
	}
}
