// Copyright 2026 Ragged Data Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package array provides the public API for labeled, unit-aware arrays.
//
// The package defines the core data structures:
//   - Variable: N-dimensional array with named dimensions, unit, and
//     optional variances
//   - DataArray: a Variable or Binned payload plus coordinates and masks
//   - Dataset: named DataArrays over aligned dimensions
//   - Binned: ragged container of variable-length bins over a shared
//     content buffer
//
// Example:
//
//	x, _ := array.NewVariable([]string{"row"}, []int{4}, []float64{1, 2, 3, 4})
//	da := array.NewDataArray(x).SetCoord("row", labels)
package array

import (
	"github.com/ragged-data/ragged/internal/array"
)

// Type aliases for public API

// Elem is the constraint for element types a Variable can hold.
// Supported types: float64, float32, int64, int32, bool.
type Elem = array.Elem

// DataType represents the runtime data type of a Variable.
type DataType = array.DataType

// Data type constants.
const (
	Float64    DataType = array.Float64
	Float32    DataType = array.Float32
	Int64      DataType = array.Int64
	Int32      DataType = array.Int32
	Bool       DataType = array.Bool
	DateTime64 DataType = array.DateTime64
)

// Unit is an opaque physical unit label, compared for equality where
// operations require matching units.
type Unit = array.Unit

// Unit constants.
const (
	Dimensionless Unit = array.Dimensionless
	Counts        Unit = array.Counts
)

// Variable is a labeled N-dimensional array, possibly a strided view into
// an arena shared with other Variables.
type Variable = array.Variable

// DataArray pairs a data payload with named coordinates and masks.
type DataArray = array.DataArray

// Dataset holds named DataArrays over aligned dimensions.
type Dataset = array.Dataset

// Binned is a ragged container of variable-length bins slicing a shared
// content buffer.
type Binned = array.Binned

// Constituents exposes the four independent parts of a Binned container.
type Constituents = array.Constituents

// Data is the closed set of DataArray payloads: *Variable or *Binned.
type Data = array.Data

// Buffer is the closed set of Binned content buffers: *Variable,
// *DataArray, or *Dataset.
type Buffer = array.Buffer

// RowRange is a half-open [Begin, End) row range into a content buffer.
type RowRange = array.RowRange

// Error kinds.

// DimensionError reports mismatched or unknown dimensions.
type DimensionError = array.DimensionError

// DTypeError reports incompatible data types.
type DTypeError = array.DTypeError

// UnitError reports incompatible units.
type UnitError = array.UnitError

// Creation functions

// NewVariable creates a Variable from a Go slice. The slice is copied.
//
// Example:
//
//	v, err := array.NewVariable([]string{"x"}, []int{3}, []float64{1, 2, 3})
func NewVariable[T Elem](dims []string, shape []int, values []T) (*Variable, error) {
	return array.NewVariable(dims, shape, values)
}

// NewScalar creates a dimensionless 0-D Variable holding one value.
func NewScalar[T Elem](value T) *Variable {
	return array.NewScalar(value)
}

// NewDatetimes creates a DateTime64 Variable from int64 nanosecond values.
func NewDatetimes(dims []string, shape []int, values []int64) (*Variable, error) {
	return array.NewDatetimes(dims, shape, values)
}

// Zeros creates a zero-initialized Variable.
func Zeros(dims []string, shape []int, dtype DataType) (*Variable, error) {
	return array.Zeros(dims, shape, dtype)
}

// NewDataArray creates a DataArray around a payload.
func NewDataArray(data Data) *DataArray {
	return array.NewDataArray(data)
}

// NewDataset creates an empty Dataset.
func NewDataset() *Dataset {
	return array.NewDataset()
}

// NewBinned creates a Binned container and validates every range against
// the buffer extent.
func NewBinned(dim string, begin, end *Variable, buf Buffer) (*Binned, error) {
	return array.NewBinned(dim, begin, end, buf)
}

// FromConstituents assembles a Binned container from constituent parts,
// validating ranges against the (possibly replaced) buffer.
func FromConstituents(c Constituents) (*Binned, error) {
	return array.FromConstituents(c)
}

// Element access

// Values returns a typed slice over the values of a contiguous Variable.
// The slice aliases the arena: writes are visible through all views.
// Panics on dtype mismatch or a non-contiguous view.
func Values[T Elem](v *Variable) []T {
	return array.Values[T](v)
}

// Variances returns a typed slice over the variances of a contiguous
// Variable, or nil if it has none.
func Variances[T Elem](v *Variable) []T {
	return array.Variances[T](v)
}

// SetVariances attaches variances to a contiguous float Variable.
func SetVariances[T Elem](v *Variable, variances []T) error {
	return array.SetVariances(v, variances)
}

// Operations

// Concat concatenates Variables along a dimension, aligning each operand
// to the first one's dimension order.
func Concat(vars []*Variable, dim string) (*Variable, error) {
	return array.Concat(vars, dim)
}

// Cumsum returns the inclusive cumulative sum of an int64 Variable in
// logical order.
func Cumsum(v *Variable) (*Variable, error) {
	return array.Cumsum(v)
}

// Or returns the element-wise logical OR of two bool Variables,
// broadcasting to the union of their dimensions.
func Or(a, b *Variable) (*Variable, error) {
	return array.Or(a, b)
}

// And returns the element-wise logical AND of two bool Variables,
// broadcasting to the union of their dimensions.
func And(a, b *Variable) (*Variable, error) {
	return array.And(a, b)
}

// Not returns the element-wise logical negation of a bool Variable.
func Not(v *Variable) (*Variable, error) {
	return array.Not(v)
}

// Take gathers the given positions along dim into a fresh contiguous
// Variable.
func Take(v *Variable, dim string, idx []int) (*Variable, error) {
	return array.Take(v, dim, idx)
}

// OffsetsFromSizes partitions a contiguous buffer by cumulative sizes,
// returning begin/end offsets.
func OffsetsFromSizes(sizes []int64) (begin, end []int64) {
	return array.OffsetsFromSizes(sizes)
}
