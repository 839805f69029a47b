// Package array provides labeled, unit-aware dense arrays and the binned
// (ragged) container the engines in internal/binning operate on.
package array

// Elem is a constraint for supported element types.
// It uses Go generics to ensure compile-time type safety.
type Elem interface {
	~float64 | ~float32 | ~int64 | ~int32 | ~bool
}

// DataType represents runtime type information for variables.
type DataType int

// Supported data types for variables.
const (
	Float64 DataType = iota
	Float32
	Int64
	Int32
	Bool
	// DateTime64 is a point in time stored as int64 nanoseconds.
	// It shares storage and accessors with Int64.
	DateTime64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float64, Int64, DateTime64:
		return 8
	case Float32, Int32:
		return 4
	case Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	case Int64:
		return "int64"
	case Int32:
		return "int32"
	case Bool:
		return "bool"
	case DateTime64:
		return "datetime64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the data type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float64 || dt == Float32
}

// IsInt reports whether the data type has integer storage (including
// datetimes).
func (dt DataType) IsInt() bool {
	return dt == Int64 || dt == Int32 || dt == DateTime64
}

// inferDataType infers DataType from a generic element type.
func inferDataType[T Elem](dummy T) DataType {
	switch any(dummy).(type) {
	case float64:
		return Float64
	case float32:
		return Float32
	case int64:
		return Int64
	case int32:
		return Int32
	case bool:
		return Bool
	default:
		panic("unsupported type")
	}
}

// accessibleAs reports whether elements of dtype dt may be viewed through
// the accessor type at. DateTime64 is accessible through int64.
func accessibleAs(dt, at DataType) bool {
	if dt == at {
		return true
	}
	return dt == DateTime64 && at == Int64
}
