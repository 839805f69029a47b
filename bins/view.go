// Copyright 2026 Ragged Data Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bins

import (
	"github.com/ragged-data/ragged/array"
	"github.com/ragged-data/ragged/internal/binning"
)

// Bins is a view over a binned DataArray exposing per-bin reductions and
// structural accessors. The view does not copy; reductions materialize
// fresh dense outputs.
type Bins struct {
	da *array.DataArray
}

// View wraps a binned DataArray. It fails on dense inputs.
func View(da *array.DataArray) (*Bins, error) {
	if _, ok := da.Binned(); !ok {
		return nil, binning.NewArgumentError("bins view requires binned data")
	}
	return &Bins{da: da}, nil
}

// Sum reduces every bin to the sum of its events. Empty bins yield zero.
func (b *Bins) Sum() (*array.DataArray, error) {
	return defaultEngine.ReduceBins(b.da, binning.ReduceSum)
}

// Mean reduces every bin to the mean of its events. Empty bins yield NaN.
func (b *Bins) Mean() (*array.DataArray, error) {
	return defaultEngine.ReduceBins(b.da, binning.ReduceMean)
}

// Min reduces every bin to the minimum of its events.
func (b *Bins) Min() (*array.DataArray, error) {
	return defaultEngine.ReduceBins(b.da, binning.ReduceMin)
}

// Max reduces every bin to the maximum of its events.
func (b *Bins) Max() (*array.DataArray, error) {
	return defaultEngine.ReduceBins(b.da, binning.ReduceMax)
}

// All reduces every bool bin with logical AND. Empty bins yield true.
func (b *Bins) All() (*array.DataArray, error) {
	return defaultEngine.ReduceBins(b.da, binning.ReduceAll)
}

// Any reduces every bool bin with logical OR. Empty bins yield false.
func (b *Bins) Any() (*array.DataArray, error) {
	return defaultEngine.ReduceBins(b.da, binning.ReduceAny)
}

// Size returns the per-bin event counts as an int64 Variable with the
// container's dimensions.
func (b *Bins) Size() *array.Variable {
	binned, _ := b.da.Binned()
	return binned.Sizes()
}

// Concat merges all bins over the given dimensions into single bins,
// concatenating their contents in iteration order.
func (b *Bins) Concat(dims ...string) (*array.DataArray, error) {
	return defaultEngine.ConcatBins(b.da, dims)
}

// Constituents exposes the container's four independent parts.
func (b *Bins) Constituents() array.Constituents {
	binned, _ := b.da.Binned()
	return binned.Constituents()
}
