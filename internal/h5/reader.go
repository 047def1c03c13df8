package h5

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scigolib/slp/internal/h5/core"
)

// ItemKind distinguishes a group from a dataset in the Reader's uniform
// Item representation.
type ItemKind int

// Item kinds returned by Reader.Get.
const (
	KindGroupItem ItemKind = iota
	KindDatasetItem
)

// Item is an opaque handle to a group or dataset, returned by Get and passed
// back into Attrs/Shape/Value. Its internal representation is backend-specific.
type Item struct {
	Path string
	Kind ItemKind
	obj  Object
}

// ValueKind tags the shape of a decoded dataset Value.
type ValueKind int

// Value kinds produced by Reader.Value.
const (
	ValueRaw ValueKind = iota
	ValueCompoundRows
	ValueStrings
	ValueBlobs
	ValueFloats
)

// Value is the tagged union returned by Reader.Value, normalizing the several
// shapes an SLP dataset payload can take (compound rows, string arrays,
// opaque vlen blobs, or plain numeric arrays) at the HDF5 access boundary.
type Value struct {
	Kind    ValueKind
	Raw     []byte
	Rows    []core.CompoundValue
	Strings []string
	Blobs   [][]byte
	Floats  []float64
}

// AttrKind tags the shape of a decoded attribute AttrValue.
type AttrKind int

// Attribute value kinds; HDF5 attributes may arrive as a scalar string,
// a string array, a number, or (after JSON decoding upstream) raw bytes.
const (
	AttrString AttrKind = iota
	AttrStringList
	AttrFloat
	AttrInt
	AttrBytes
)

// AttrValue is the tagged union returned for a single attribute.
type AttrValue struct {
	Kind  AttrKind
	Str   string
	Strs  []string
	Float float64
	Int   int64
	Bytes []byte
}

// ErrNotFound is returned by nothing in this package directly; Get instead
// returns (nil, nil) for a missing path, matching the "never throws" contract
// in the design. It is exported so callers can sentinel-compare should a
// backend choose to signal it explicitly.
var ErrNotFound = errors.New("h5: path not found")

// Reader is the capability set exposed by both HDF5 access backends: group
// listing, attribute access, dataset shape, and dataset value decoding.
// Get never returns an error for a missing path; it returns (nil, nil).
type Reader interface {
	Get(path string) (*Item, error)
	Keys() ([]string, error)
	Attrs(item *Item) (map[string]AttrValue, error)
	Shape(item *Item) ([]uint64, error)
	Value(item *Item) (Value, error)
	RawBytes(item *Item) ([]byte, error)
	VlenBlobs(item *Item) ([][]byte, error)
	SupportsStreaming() bool
	Close() error
}

// LocalReader adapts a local *File (in-memory buffer or on-disk file) to the
// Reader interface.
type LocalReader struct {
	file *File
}

// NewLocalReader wraps an already-open File as a Reader.
func NewLocalReader(file *File) *LocalReader {
	return &LocalReader{file: file}
}

// OpenLocalFile opens filename and wraps it as a Reader.
func OpenLocalFile(filename string) (*LocalReader, error) {
	f, err := Open(filename)
	if err != nil {
		return nil, err
	}
	return NewLocalReader(f), nil
}

// OpenLocalBuffer wraps an in-memory SLP container as a Reader.
func OpenLocalBuffer(data []byte) (*LocalReader, error) {
	f, err := OpenBuffer(data)
	if err != nil {
		return nil, err
	}
	return NewLocalReader(f), nil
}

// Get resolves a slash-separated path against the file's group tree. Returns
// (nil, nil) when no object exists at path.
func (lr *LocalReader) Get(path string) (*Item, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return &Item{Path: "/", Kind: KindGroupItem, obj: lr.file.Root()}, nil
	}

	segments := strings.Split(path, "/")
	var current Object = lr.file.Root()

	for i, seg := range segments {
		group, ok := current.(*Group)
		if !ok {
			return nil, nil
		}

		var next Object
		for _, child := range group.Children() {
			if child.Name() == seg {
				next = child
				break
			}
		}
		if next == nil {
			return nil, nil
		}
		current = next

		if i == len(segments)-1 {
			switch obj := current.(type) {
			case *Group:
				return &Item{Path: path, Kind: KindGroupItem, obj: obj}, nil
			case *Dataset:
				return &Item{Path: path, Kind: KindDatasetItem, obj: obj}, nil
			}
		}
	}

	return nil, nil
}

// Keys returns the names of the root group's direct children.
func (lr *LocalReader) Keys() ([]string, error) {
	names := make([]string, 0, len(lr.file.Root().Children()))
	for _, child := range lr.file.Root().Children() {
		names = append(names, child.Name())
	}
	return names, nil
}

// Attrs returns all attributes attached to item, normalized into the tagged
// AttrValue variant.
func (lr *LocalReader) Attrs(item *Item) (map[string]AttrValue, error) {
	var attrs []*core.Attribute
	var err error
	var reader interface {
		ReadAttribute(string) (interface{}, error)
	}

	switch obj := item.obj.(type) {
	case *Group:
		attrs, err = obj.Attributes()
		reader = obj
	case *Dataset:
		attrs, err = obj.Attributes()
		reader = obj
	default:
		return nil, fmt.Errorf("h5: unknown item type at %s", item.Path)
	}
	if err != nil {
		return nil, err
	}

	result := make(map[string]AttrValue, len(attrs))
	for _, attr := range attrs {
		raw, err := reader.ReadAttribute(attr.Name)
		if err != nil {
			return nil, fmt.Errorf("h5: read attribute %q: %w", attr.Name, err)
		}
		result[attr.Name] = normalizeAttr(raw)
	}
	return result, nil
}

func normalizeAttr(raw interface{}) AttrValue {
	switch v := raw.(type) {
	case string:
		return AttrValue{Kind: AttrString, Str: v}
	case []string:
		return AttrValue{Kind: AttrStringList, Strs: v}
	case float32:
		return AttrValue{Kind: AttrFloat, Float: float64(v)}
	case float64:
		return AttrValue{Kind: AttrFloat, Float: v}
	case int32:
		return AttrValue{Kind: AttrInt, Int: int64(v)}
	case int64:
		return AttrValue{Kind: AttrInt, Int: v}
	case []byte:
		return AttrValue{Kind: AttrBytes, Bytes: v}
	default:
		return AttrValue{Kind: AttrString, Str: fmt.Sprintf("%v", v)}
	}
}

// Shape returns a dataset's dataspace dimensions.
func (lr *LocalReader) Shape(item *Item) ([]uint64, error) {
	ds, ok := item.obj.(*Dataset)
	if !ok {
		return nil, fmt.Errorf("h5: %s is not a dataset", item.Path)
	}
	return ds.Shape()
}

// Value decodes a dataset's payload, selecting compound/string/vlen/numeric
// decoding automatically based on the dataset's datatype.
func (lr *LocalReader) Value(item *Item) (Value, error) {
	ds, ok := item.obj.(*Dataset)
	if !ok {
		return Value{}, fmt.Errorf("h5: %s is not a dataset", item.Path)
	}

	kind, err := ds.Kind()
	if err != nil {
		return Value{}, err
	}

	switch kind {
	case KindCompound:
		rows, err := ds.ReadCompound()
		return Value{Kind: ValueCompoundRows, Rows: rows}, err
	case KindVlenString:
		ss, err := ds.ReadVlenStrings()
		return Value{Kind: ValueStrings, Strings: ss}, err
	case KindVlenBytes:
		bb, err := ds.ReadVlenBytes()
		return Value{Kind: ValueBlobs, Blobs: bb}, err
	case KindFixedString:
		ss, err := ds.ReadStrings()
		return Value{Kind: ValueStrings, Strings: ss}, err
	case KindNumeric:
		ff, err := ds.Read()
		return Value{Kind: ValueFloats, Floats: ff}, err
	default:
		raw, err := ds.ReadRaw()
		return Value{Kind: ValueRaw, Raw: raw}, err
	}
}

// RawBytes reads a dataset's raw on-disk bytes regardless of datatype, used
// by the embedded-video contiguous-buffer layout.
func (lr *LocalReader) RawBytes(item *Item) ([]byte, error) {
	ds, ok := item.obj.(*Dataset)
	if !ok {
		return nil, fmt.Errorf("h5: %s is not a dataset", item.Path)
	}
	return ds.ReadRaw()
}

// VlenBlobs reads a variable-length dataset's elements as independent byte
// blobs, used by the embedded-video vlen-array layout.
func (lr *LocalReader) VlenBlobs(item *Item) ([][]byte, error) {
	ds, ok := item.obj.(*Dataset)
	if !ok {
		return nil, fmt.Errorf("h5: %s is not a dataset", item.Path)
	}
	return ds.ReadVlenBytes()
}

// SupportsStreaming reports whether this backend can serve ranged I/O; the
// local backend always has the full container available.
func (lr *LocalReader) SupportsStreaming() bool { return false }

// Close releases the underlying file.
func (lr *LocalReader) Close() error {
	return lr.file.Close()
}
