package array

import "fmt"

// Data is the closed set of payloads a DataArray can carry: a dense
// Variable or a Binned container. Consumers switch on the concrete type
// instead of probing capabilities per call site.
type Data interface {
	Dims() []string
	Shape() []int
	isData()
}

func (v *Variable) isData() {}
func (b *Binned) isData()   {}

// DataArray pairs a data payload with named coordinates and masks.
//
// A coordinate along dim with one more element than the data extent is a
// bin-edge coordinate; its values are interval boundaries rather than
// per-element labels.
type DataArray struct {
	name   string
	data   Data
	coords map[string]*Variable
	masks  map[string]*Variable
}

// NewDataArray creates a DataArray around a payload.
func NewDataArray(data Data) *DataArray {
	return &DataArray{
		data:   data,
		coords: map[string]*Variable{},
		masks:  map[string]*Variable{},
	}
}

// Name returns the array's name.
func (da *DataArray) Name() string { return da.name }

// SetName sets the array's name and returns the array for chaining.
func (da *DataArray) SetName(name string) *DataArray {
	da.name = name
	return da
}

// Data returns the payload.
func (da *DataArray) Data() Data { return da.data }

// SetData replaces the payload. Dimensions of coordinates and masks are
// not revalidated; callers replacing data with a different layout must
// adjust metadata themselves.
func (da *DataArray) SetData(data Data) { da.data = data }

// Dense returns the payload as a dense Variable, or false.
func (da *DataArray) Dense() (*Variable, bool) {
	v, ok := da.data.(*Variable)
	return v, ok
}

// Binned returns the payload as a Binned container, or false.
func (da *DataArray) Binned() (*Binned, bool) {
	b, ok := da.data.(*Binned)
	return b, ok
}

// Dims returns the payload's dimension names.
func (da *DataArray) Dims() []string { return da.data.Dims() }

// Shape returns the payload's shape.
func (da *DataArray) Shape() []int { return da.data.Shape() }

// Coords returns the coordinate map. The map is live; mutate through
// SetCoord for clarity.
func (da *DataArray) Coords() map[string]*Variable { return da.coords }

// Coord returns the named coordinate.
func (da *DataArray) Coord(name string) (*Variable, bool) {
	c, ok := da.coords[name]
	return c, ok
}

// SetCoord attaches a coordinate and returns the array for chaining.
func (da *DataArray) SetCoord(name string, v *Variable) *DataArray {
	da.coords[name] = v
	return da
}

// DropCoord removes a coordinate.
func (da *DataArray) DropCoord(name string) {
	delete(da.coords, name)
}

// Masks returns the mask map.
func (da *DataArray) Masks() map[string]*Variable { return da.masks }

// Mask returns the named mask.
func (da *DataArray) Mask(name string) (*Variable, bool) {
	m, ok := da.masks[name]
	return m, ok
}

// SetMask attaches a boolean mask and returns the array for chaining.
func (da *DataArray) SetMask(name string, v *Variable) *DataArray {
	da.masks[name] = v
	return da
}

// CoordIsEdges reports whether the named coordinate is a bin-edge
// coordinate for dim: it has exactly one more element along dim than the
// data extent.
func (da *DataArray) CoordIsEdges(name, dim string) bool {
	c, ok := da.coords[name]
	if !ok {
		return false
	}
	cn, err := c.Len(dim)
	if err != nil {
		return false
	}
	d := dimIndex(da.Dims(), dim)
	if d < 0 {
		return false
	}
	return cn == da.Shape()[d]+1
}

// Copy returns a deep copy: payload, coordinates, and masks all get fresh
// arenas.
func (da *DataArray) Copy() *DataArray {
	out := NewDataArray(copyData(da.data)).SetName(da.name)
	for name, c := range da.coords {
		out.coords[name] = c.Copy()
	}
	for name, m := range da.masks {
		out.masks[name] = m.Copy()
	}
	return out
}

func copyData(d Data) Data {
	switch t := d.(type) {
	case *Variable:
		return t.Copy()
	case *Binned:
		return t.Copy()
	default:
		panic(fmt.Sprintf("unknown data payload %T", d))
	}
}

// Slice returns a view of [i, j) along dim. The payload and every
// coordinate or mask depending on dim are sliced; bin-edge coordinates
// keep the extra boundary element.
func (da *DataArray) Slice(dim string, i, j int) (*DataArray, error) {
	v, ok := da.data.(*Variable)
	if !ok {
		return nil, dimErrorf("slice of binned data is not supported; slice the constituents instead")
	}
	sliced, err := v.Slice(dim, i, j)
	if err != nil {
		return nil, err
	}
	out := NewDataArray(sliced).SetName(da.name)
	for name, c := range da.coords {
		if !hasDim(c.Dims(), dim) {
			out.coords[name] = c
			continue
		}
		hi := j
		if da.CoordIsEdges(name, dim) {
			hi = j + 1
		}
		cs, err := c.Slice(dim, i, hi)
		if err != nil {
			return nil, err
		}
		out.coords[name] = cs
	}
	for name, m := range da.masks {
		if !hasDim(m.Dims(), dim) {
			out.masks[name] = m
			continue
		}
		ms, err := m.Slice(dim, i, j)
		if err != nil {
			return nil, err
		}
		out.masks[name] = ms
	}
	return out, nil
}
