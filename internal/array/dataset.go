package array

import "sort"

// Dataset is a collection of named DataArrays over aligned dimensions.
// It can serve as the content buffer of a Binned container, in which case
// every item shares the content dimension.
type Dataset struct {
	items map[string]*DataArray
}

// NewDataset creates an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{items: map[string]*DataArray{}}
}

// SetItem adds or replaces a named item and returns the Dataset for
// chaining. The item's name is updated to match.
func (ds *Dataset) SetItem(name string, da *DataArray) *Dataset {
	da.SetName(name)
	ds.items[name] = da
	return ds
}

// Item returns the named item.
func (ds *Dataset) Item(name string) (*DataArray, bool) {
	da, ok := ds.items[name]
	return da, ok
}

// Names returns the item names in sorted order.
func (ds *Dataset) Names() []string {
	names := make([]string, 0, len(ds.items))
	for name := range ds.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of items.
func (ds *Dataset) Len() int { return len(ds.items) }

// Copy returns a deep copy of every item.
func (ds *Dataset) Copy() *Dataset {
	out := NewDataset()
	for name, da := range ds.items {
		out.items[name] = da.Copy()
	}
	return out
}
