package binning

import (
	"github.com/ragged-data/ragged/internal/array"
)

// Target describes one dimension to bin or group along. Exactly one of
// Edges, Groups, Count, Step, or Auto selects the flavor; the public bins
// package provides constructors.
type Target struct {
	// Dim is the output dimension name; it also names the coordinate the
	// assignment is derived from.
	Dim string
	// Edges are explicit monotonic bin boundaries (1-D along Dim).
	Edges *array.Variable
	// Groups are explicit unique group keys (1-D along Dim).
	Groups *array.Variable
	// Count requests this many equal-width automatic bins.
	Count int
	// Step requests equal-width automatic bins of this width.
	Step float64
	// HasStep distinguishes Step == 0 from "no step given".
	HasStep bool
	// Auto requests the engine-default bin count.
	Auto bool
	// GroupByCoord requests grouping by the distinct values of the
	// coordinate named Dim.
	GroupByCoord bool
}

// IsGrouping reports whether the target assigns by discrete keys rather
// than interval edges.
func (t Target) IsGrouping() bool {
	return t.Groups != nil || t.GroupByCoord
}

// validate checks that the target selects exactly one flavor.
func (t Target) validate() error {
	if t.Dim == "" {
		return argErrorf("binning target has no dimension name")
	}
	n := 0
	if t.Edges != nil {
		n++
	}
	if t.Groups != nil {
		n++
	}
	if t.Count > 0 {
		n++
	}
	if t.HasStep {
		n++
	}
	if t.Auto {
		n++
	}
	if t.GroupByCoord {
		n++
	}
	if n != 1 {
		return argErrorf("binning target %q must select exactly one of edges, groups, count, step, or automatic binning", t.Dim)
	}
	return nil
}

// resolved is a target whose edges or groups have been fully derived and
// whose per-row index function is ready.
type resolved struct {
	dim string
	// coordVar is the coordinate variable the output carries for this
	// target: bin edges or group keys, 1-D along dim.
	coordVar *array.Variable
	// nbins is the number of output bins along dim.
	nbins int
	// index maps a row of the source coordinate to a bin index, -1 when
	// the value falls outside every bin.
	index func(row int) int
}
