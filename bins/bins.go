// Copyright 2026 Ragged Data Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bins provides the public API for binned (ragged) data: binning
// flat event tables into variable-length groups, re-binning and
// concatenating existing bins, histogramming, and stepwise lookup tables.
//
// Example:
//
//	table := array.NewDataArray(weights).SetCoord("x", positions)
//	binned, err := bins.Bin(table, bins.Count("x", 10))
//	hist, err := bins.Hist(binned, bins.Edges("x", edges))
package bins

import (
	"github.com/ragged-data/ragged/array"
	"github.com/ragged-data/ragged/internal/binning"
	"github.com/ragged-data/ragged/internal/lookup"
)

// defaultEngine serves the package-level entry points. Binning has no
// mutable state beyond its configuration.
var defaultEngine = binning.New(binning.DefaultConfig())

// Target describes one dimension to bin or group along. Use the
// constructors Edges, Count, Step, Auto, Groups, or GroupBy.
type Target = binning.Target

// Edges bins along dim by explicit monotonic boundaries (1-D along dim).
func Edges(dim string, edges *array.Variable) Target {
	return Target{Dim: dim, Edges: edges}
}

// Count bins along dim into n equal-width bins spanning the coordinate's
// range.
func Count(dim string, n int) Target {
	return Target{Dim: dim, Count: n}
}

// Step bins along dim into equal-width bins of the given width.
func Step(dim string, step float64) Target {
	return Target{Dim: dim, Step: step, HasStep: true}
}

// Auto bins along dim with the engine-default bin count.
func Auto(dim string) Target {
	return Target{Dim: dim, Auto: true}
}

// Groups groups along dim by explicit keys (1-D along dim).
func Groups(dim string, keys *array.Variable) Target {
	return Target{Dim: dim, Groups: keys}
}

// GroupBy groups along dim by the distinct values of the coordinate named
// dim.
func GroupBy(dim string) Target {
	return Target{Dim: dim, GroupByCoord: true}
}

// Bin assigns the input's rows to bins defined by the targets. The input
// is a flat one-dimensional table or an already-binned array; binned
// inputs are re-binned, reusing whole bins where the targets are per-bin
// coordinates.
func Bin(da *array.DataArray, targets ...Target) (*array.DataArray, error) {
	return defaultEngine.MakeBinned(da, targets, nil)
}

// BinErase is Bin with input dimensions to absorb into the bins: the
// named dimensions disappear from the output and their contents are
// merged.
func BinErase(da *array.DataArray, erase []string, targets ...Target) (*array.DataArray, error) {
	return defaultEngine.MakeBinned(da, targets, erase)
}

// Group groups the input's rows by discrete coordinate values. It is Bin
// with grouping targets.
func Group(da *array.DataArray, groupings ...Target) (*array.DataArray, error) {
	return defaultEngine.MakeBinned(da, groupings, nil)
}

// Hist sums the input into dense bins defined by the targets. Binned
// inputs are accumulated per event; dense inputs whose target dimensions
// already carry bin-edge coordinates are re-binned. With no targets a
// binned input reduces to the per-bin sum.
func Hist(da *array.DataArray, targets ...Target) (*array.DataArray, error) {
	return defaultEngine.MakeHistogrammed(da, targets)
}

// Rebin redistributes histogrammed (dense) data onto new bin edges,
// weighting each old bin's content by its overlap with the new bins.
// Re-binning onto identical edges reproduces the input exactly. Output
// values are always Float64; integral inputs are promoted.
func Rebin(da *array.DataArray, targets ...Target) (*array.DataArray, error) {
	return defaultEngine.Rebin(da, targets)
}

// Lookup functions

// LookupMode selects how a point-sampled lookup table interpolates.
type LookupMode = lookup.Mode

// Lookup mode constants.
const (
	LookupAuto     LookupMode = lookup.ModeAuto
	LookupPrevious LookupMode = lookup.ModePrevious
	LookupNearest  LookupMode = lookup.ModeNearest
)

// LookupTable is a stepwise function built from a one-dimensional
// histogram or point-sampled DataArray.
type LookupTable = lookup.Table

// LookupOption configures lookup table construction.
type LookupOption = lookup.Option

// WithMode selects the interpolation mode for point-sampled tables.
func WithMode(m LookupMode) LookupOption {
	return lookup.WithMode(m)
}

// WithFill overrides the out-of-range fill value.
func WithFill(fill float64) LookupOption {
	return lookup.WithFill(fill)
}

// Lookup builds a stepwise lookup table from a one-dimensional DataArray
// whose coordinate dim is bin edges or per-point labels.
func Lookup(da *array.DataArray, dim string, opts ...LookupOption) (*LookupTable, error) {
	return lookup.New(da, dim, opts...)
}

// Error kinds.

// CoordError reports a requested coordinate that does not exist.
type CoordError = binning.CoordError

// DimensionError reports an ambiguous or incompatible dimension
// reduction.
type DimensionError = binning.DimensionError

// BinEdgeError reports unusable bin edges.
type BinEdgeError = binning.BinEdgeError

// ArgumentError reports conflicting or invalid argument combinations.
type ArgumentError = binning.ArgumentError
