package slp

import (
	"errors"

	"github.com/scigolib/slp/internal/h5"
)

// fakeReader is an in-memory stand-in for h5.Reader, built directly from
// path-keyed maps rather than a real HDF5 container. It exists purely for
// unit-testing the layers above the HDF5 access boundary without needing a
// binary .h5 fixture.
type fakeReader struct {
	items     map[string]*h5.Item
	attrs     map[string]map[string]h5.AttrValue
	shapes    map[string][]uint64
	values    map[string]h5.Value
	rawBytes  map[string][]byte
	vlenBlobs map[string][][]byte
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		items:     make(map[string]*h5.Item),
		attrs:     make(map[string]map[string]h5.AttrValue),
		shapes:    make(map[string][]uint64),
		values:    make(map[string]h5.Value),
		rawBytes:  make(map[string][]byte),
		vlenBlobs: make(map[string][][]byte),
	}
}

func (f *fakeReader) putGroup(path string) {
	f.items[path] = &h5.Item{Path: path, Kind: h5.KindGroupItem}
}

func (f *fakeReader) putDataset(path string) {
	f.items[path] = &h5.Item{Path: path, Kind: h5.KindDatasetItem}
}

func (f *fakeReader) Get(path string) (*h5.Item, error) {
	return f.items[path], nil
}

func (f *fakeReader) Keys() ([]string, error) {
	names := make([]string, 0, len(f.items))
	for k := range f.items {
		names = append(names, k)
	}
	return names, nil
}

func (f *fakeReader) Attrs(item *h5.Item) (map[string]h5.AttrValue, error) {
	return f.attrs[item.Path], nil
}

func (f *fakeReader) Shape(item *h5.Item) ([]uint64, error) {
	return f.shapes[item.Path], nil
}

func (f *fakeReader) Value(item *h5.Item) (h5.Value, error) {
	v, ok := f.values[item.Path]
	if !ok {
		return h5.Value{}, errors.New("fakeReader: no value for " + item.Path)
	}
	return v, nil
}

func (f *fakeReader) RawBytes(item *h5.Item) ([]byte, error) {
	b, ok := f.rawBytes[item.Path]
	if !ok {
		return nil, errors.New("fakeReader: no raw bytes for " + item.Path)
	}
	return b, nil
}

func (f *fakeReader) VlenBlobs(item *h5.Item) ([][]byte, error) {
	b, ok := f.vlenBlobs[item.Path]
	if !ok {
		return nil, errors.New("fakeReader: no vlen blobs for " + item.Path)
	}
	return b, nil
}

func (f *fakeReader) SupportsStreaming() bool { return false }

func (f *fakeReader) Close() error { return nil }

var _ h5.Reader = (*fakeReader)(nil)
