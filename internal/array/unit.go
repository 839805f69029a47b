package array

// Unit is an opaque physical unit tag attached to a Variable.
//
// Units are compared for equality where operations require matching units
// (concatenation, comparison); no unit algebra is performed.
type Unit string

// Common units.
const (
	Dimensionless Unit = ""
	Counts        Unit = "counts"
)

// String returns the unit label, or "dimensionless" for the empty unit.
func (u Unit) String() string {
	if u == Dimensionless {
		return "dimensionless"
	}
	return string(u)
}
