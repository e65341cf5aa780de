//go:build !nohdf5

package meshio

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

type h5Container struct {
	file *hdf5.File
	// groups opened during a load, closed with the file
	open []*hdf5.Group
}

type h5Group struct {
	c  *h5Container
	fg *hdf5.CommonFG
}

func openHDF5(path string) (Container, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "meshio: open %s", path)
	}
	return &h5Container{file: f}, nil
}

func (c *h5Container) Root() Group {
	return h5Group{c: c, fg: &c.file.CommonFG}
}

func (c *h5Container) Close() error {
	for i := len(c.open) - 1; i >= 0; i-- {
		c.open[i].Close()
	}
	c.open = nil
	return c.file.Close()
}

func (g h5Group) Names() ([]string, error) {
	n, err := g.fg.NumObjects()
	if err != nil {
		return nil, errors.Wrap(err, "meshio: count objects")
	}
	names := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := g.fg.ObjectNameByIndex(i)
		if err != nil {
			return nil, errors.Wrapf(err, "meshio: object %d name", i)
		}
		names = append(names, name)
	}
	return names, nil
}

func (g h5Group) Group(name string) (Group, bool, error) {
	if !g.fg.LinkExists(name) {
		return nil, false, nil
	}
	sub, err := g.fg.OpenGroup(name)
	if err != nil {
		return nil, false, errors.Wrapf(err, "meshio: open group %q", name)
	}
	g.c.open = append(g.c.open, sub)
	return h5Group{c: g.c, fg: &sub.CommonFG}, true, nil
}

func (g h5Group) Float64Array(name string) (Array[float64], bool, error) {
	return readDataset[float64](g.fg, name)
}

func (g h5Group) Int64Array(name string) (Array[int64], bool, error) {
	return readDataset[int64](g.fg, name)
}

type elemKind int

const (
	elemInt elemKind = iota
	elemUint
	elemFloat
)

// h5Elem describes one portable HDF5 element type.
type h5Elem struct {
	dt    *hdf5.Datatype
	kind  elemKind
	size  int
	order binary.ByteOrder
}

var h5Elems = []h5Elem{
	{hdf5.T_STD_I8LE, elemInt, 1, binary.LittleEndian},
	{hdf5.T_STD_I8BE, elemInt, 1, binary.BigEndian},
	{hdf5.T_STD_U8LE, elemUint, 1, binary.LittleEndian},
	{hdf5.T_STD_U8BE, elemUint, 1, binary.BigEndian},
	{hdf5.T_STD_I16LE, elemInt, 2, binary.LittleEndian},
	{hdf5.T_STD_I16BE, elemInt, 2, binary.BigEndian},
	{hdf5.T_STD_U16LE, elemUint, 2, binary.LittleEndian},
	{hdf5.T_STD_U16BE, elemUint, 2, binary.BigEndian},
	{hdf5.T_STD_I32LE, elemInt, 4, binary.LittleEndian},
	{hdf5.T_STD_I32BE, elemInt, 4, binary.BigEndian},
	{hdf5.T_STD_U32LE, elemUint, 4, binary.LittleEndian},
	{hdf5.T_STD_U32BE, elemUint, 4, binary.BigEndian},
	{hdf5.T_STD_I64LE, elemInt, 8, binary.LittleEndian},
	{hdf5.T_STD_I64BE, elemInt, 8, binary.BigEndian},
	{hdf5.T_STD_U64LE, elemUint, 8, binary.LittleEndian},
	{hdf5.T_STD_U64BE, elemUint, 8, binary.BigEndian},
	{hdf5.T_IEEE_F32LE, elemFloat, 4, binary.LittleEndian},
	{hdf5.T_IEEE_F32BE, elemFloat, 4, binary.BigEndian},
	{hdf5.T_IEEE_F64LE, elemFloat, 8, binary.LittleEndian},
	{hdf5.T_IEEE_F64BE, elemFloat, 8, binary.BigEndian},
}

func lookupElem(dt *hdf5.Datatype) (h5Elem, bool) {
	for _, e := range h5Elems {
		if dt.Equal(e.dt) {
			return e, true
		}
	}
	return h5Elem{}, false
}

// readDataset reads dataset name and widens its elements to T. Dataset.Read
// copies the stored bytes unconverted, so the raw buffer is decoded here
// according to the stored element type.
func readDataset[T float64 | int64](fg *hdf5.CommonFG, name string) (Array[T], bool, error) {
	var a Array[T]
	if !fg.LinkExists(name) {
		return a, false, nil
	}
	ds, err := fg.OpenDataset(name)
	if err != nil {
		return a, false, errors.Wrapf(err, "meshio: open dataset %q", name)
	}
	defer ds.Close()

	space := ds.Space()
	if space == nil {
		return a, false, errors.Errorf("meshio: dataset %q has no dataspace", name)
	}
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return a, false, errors.Wrapf(err, "meshio: dataset %q dims", name)
	}
	a.Shape = make([]int, len(dims))
	for i, d := range dims {
		a.Shape[i] = int(d)
	}
	n := product(a.Shape)
	if n == 0 {
		return a, true, nil
	}

	dt, err := ds.Datatype()
	if err != nil {
		return a, false, errors.Wrapf(err, "meshio: dataset %q type", name)
	}
	elem, ok := lookupElem(dt)
	dt.Close()
	if !ok {
		return a, false, errors.Wrapf(ErrMalformedGeometry, "dataset %q: unsupported element type", name)
	}

	raw := make([]byte, n*elem.size)
	if err := ds.Read(&raw); err != nil {
		return a, false, errors.Wrapf(err, "meshio: read dataset %q", name)
	}
	a.Data = widen[T](raw, elem, n)
	return a, true, nil
}

func widen[T float64 | int64](raw []byte, e h5Elem, n int) []T {
	out := make([]T, n)
	for i := range out {
		b := raw[i*e.size : (i+1)*e.size]
		switch e.kind {
		case elemFloat:
			if e.size == 4 {
				out[i] = T(math.Float32frombits(e.order.Uint32(b)))
			} else {
				out[i] = T(math.Float64frombits(e.order.Uint64(b)))
			}
		case elemInt:
			out[i] = T(signed(b, e))
		case elemUint:
			out[i] = T(unsigned(b, e))
		}
	}
	return out
}

func unsigned(b []byte, e h5Elem) uint64 {
	switch e.size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(e.order.Uint16(b))
	case 4:
		return uint64(e.order.Uint32(b))
	}
	return e.order.Uint64(b)
}

func signed(b []byte, e h5Elem) int64 {
	switch e.size {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(e.order.Uint16(b)))
	case 4:
		return int64(int32(e.order.Uint32(b)))
	}
	return int64(e.order.Uint64(b))
}
