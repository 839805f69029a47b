// Package binning implements the binned-data engines: binning flat event
// tables, remapping existing bins onto new layouts, histogramming, and
// the masking integration both engines consult.
package binning

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// CoordError reports a requested coordinate that exists neither on the
// input nor inside its bin contents. Suggestion holds the closest known
// coordinate name, if any is close enough to be plausible.
type CoordError struct {
	Name       string
	Suggestion string
}

func (e *CoordError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("coordinate %q not found (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("coordinate %q not found", e.Name)
}

// coordErrorFrom builds a CoordError, picking a suggestion from the known
// coordinate names by edit distance.
func coordErrorFrom(name string, known []string) *CoordError {
	sort.Strings(known)
	best := ""
	bestDist := len(name)/2 + 1 // further than this is not a plausible typo
	for _, n := range known {
		if d := levenshtein.ComputeDistance(name, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return &CoordError{Name: name, Suggestion: best}
}

// DimensionError reports an ambiguous or incompatible dimension reduction,
// such as a bin-count request over a coordinate spanning several
// dimensions.
type DimensionError struct {
	msg string
}

func (e *DimensionError) Error() string { return e.msg }

func dimErrorf(format string, args ...any) error {
	return &DimensionError{msg: fmt.Sprintf(format, args...)}
}

// BinEdgeError reports an attempt to histogram or bin with unusable bin
// edges, such as non-monotonic boundaries or data that already carries
// incompatible edges without an event-level coordinate.
type BinEdgeError struct {
	msg string
}

func (e *BinEdgeError) Error() string { return e.msg }

func edgeErrorf(format string, args ...any) error {
	return &BinEdgeError{msg: fmt.Sprintf(format, args...)}
}

// ArgumentError reports conflicting or invalid argument combinations.
type ArgumentError struct {
	msg string
}

func (e *ArgumentError) Error() string { return e.msg }

func argErrorf(format string, args ...any) error {
	return &ArgumentError{msg: fmt.Sprintf(format, args...)}
}

// Exported constructors for sibling engine packages sharing the error
// kinds.

// NewArgumentError formats an ArgumentError.
func NewArgumentError(format string, args ...any) error {
	return argErrorf(format, args...)
}

// NewDimensionError formats a DimensionError.
func NewDimensionError(format string, args ...any) error {
	return dimErrorf(format, args...)
}

// NewCoordError builds a CoordError with a suggestion drawn from the
// known coordinate names.
func NewCoordError(name string, known []string) error {
	return coordErrorFrom(name, known)
}
