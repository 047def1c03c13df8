package core

import (
	"errors"
	"fmt"
	"io"
)

// datasetExtent bundles the messages needed to locate and size a dataset's
// stored bytes, independent of how those bytes are ultimately interpreted.
type datasetExtent struct {
	Datatype  *DatatypeMessage
	Dataspace *DataspaceMessage
	Layout    *DataLayoutMessage
	Filter    *FilterPipelineMessage
}

func parseExtent(header *ObjectHeader, sb *Superblock) (*datasetExtent, error) {
	var datatypeMsg, dataspaceMsg, layoutMsg, filterMsg *HeaderMessage

	for _, msg := range header.Messages {
		switch msg.Type {
		case MsgDatatype:
			datatypeMsg = msg
		case MsgDataspace:
			dataspaceMsg = msg
		case MsgDataLayout:
			layoutMsg = msg
		case MsgFilterPipeline:
			filterMsg = msg
		}
	}

	if datatypeMsg == nil {
		return nil, errors.New("datatype message not found")
	}
	if dataspaceMsg == nil {
		return nil, errors.New("dataspace message not found")
	}
	if layoutMsg == nil {
		return nil, errors.New("data layout message not found")
	}

	datatype, err := ParseDatatypeMessage(datatypeMsg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse datatype: %w", err)
	}

	dataspace, err := ParseDataspaceMessage(dataspaceMsg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataspace: %w", err)
	}

	layout, err := ParseDataLayoutMessage(layoutMsg.Data, sb)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	var filter *FilterPipelineMessage
	if filterMsg != nil {
		filter, err = ParseFilterPipelineMessage(filterMsg.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse filter pipeline: %w", err)
		}
	}

	return &datasetExtent{Datatype: datatype, Dataspace: dataspace, Layout: layout, Filter: filter}, nil
}

// DatasetShape returns the dataspace dimensions for a dataset without reading
// any values. Used by the metadata-only (lite) loader and by the embedded
// video backend to size frame buffers.
func DatasetShape(header *ObjectHeader, sb *Superblock) ([]uint64, error) {
	ext, err := parseExtent(header, sb)
	if err != nil {
		return nil, err
	}
	return ext.Dataspace.Dimensions, nil
}

// readRawElements reads the dataset's stored bytes, decompressing chunked
// layouts but performing no further type interpretation.
func readRawElements(r io.ReaderAt, ext *datasetExtent, sb *Superblock, totalElements uint64) ([]byte, error) {
	layout := ext.Layout

	switch {
	case layout.IsCompact():
		return layout.CompactData, nil

	case layout.IsContiguous():
		dataSize := totalElements * uint64(ext.Datatype.Size)
		buf := make([]byte, dataSize)
		//nolint:gosec // G115: HDF5 addresses fit in int64 for io.ReaderAt interface
		if _, err := r.ReadAt(buf, int64(layout.DataAddress)); err != nil {
			return nil, fmt.Errorf("failed to read contiguous data: %w", err)
		}
		return buf, nil

	case layout.IsChunked():
		return readChunkedData(r, layout, ext.Dataspace, ext.Datatype, sb, ext.Filter)

	default:
		return nil, fmt.Errorf("unsupported layout class: %d", layout.Class)
	}
}

// ReadDatasetRawBytes reads a dataset's raw on-disk bytes regardless of its
// declared datatype. This is used for the embedded-video contiguous-buffer
// layout, where a uint8 dataset holds concatenated PNG/JPEG payloads that the
// video backend itself scans for frame boundaries.
func ReadDatasetRawBytes(r io.ReaderAt, header *ObjectHeader, sb *Superblock) ([]byte, error) {
	ext, err := parseExtent(header, sb)
	if err != nil {
		return nil, err
	}

	totalElements := ext.Dataspace.TotalElements()
	if totalElements == 0 {
		return []byte{}, nil
	}

	return readRawElements(r, ext, sb, totalElements)
}

// ReadDatasetVlenBytes reads a dataset of variable-length elements (vlen
// opaque/byte sequences or vlen strings) and returns each element's raw bytes.
// Each stored element is a 4-byte length followed by a global-heap reference:
// heap address (offset-size bytes) + object index (4 bytes).
func ReadDatasetVlenBytes(r io.ReaderAt, header *ObjectHeader, sb *Superblock) ([][]byte, error) {
	ext, err := parseExtent(header, sb)
	if err != nil {
		return nil, err
	}

	if !ext.Datatype.IsVariableLength() {
		return nil, fmt.Errorf("dataset is not variable-length: %s", ext.Datatype)
	}

	totalElements := ext.Dataspace.TotalElements()
	if totalElements == 0 {
		return [][]byte{}, nil
	}

	rawData, err := readRawElements(r, ext, sb, totalElements)
	if err != nil {
		return nil, err
	}

	offsetSize := int(sb.OffsetSize)
	refSize := offsetSize + 8 // 4-byte length + heap address + 4-byte index

	result := make([][]byte, totalElements)
	for i := uint64(0); i < totalElements; i++ {
		start := i * uint64(refSize)
		if start+uint64(refSize) > uint64(len(rawData)) {
			return nil, fmt.Errorf("vlen element %d truncated", i)
		}

		data, err := readVlenElement(r, rawData[start:start+uint64(refSize)], sb)
		if err != nil {
			return nil, fmt.Errorf("vlen element %d: %w", i, err)
		}
		result[i] = data
	}

	return result, nil
}

// readVlenElement resolves a single vlen global-heap reference to its bytes.
func readVlenElement(r io.ReaderAt, ref []byte, sb *Superblock) ([]byte, error) {
	offsetSize := int(sb.OffsetSize)
	if len(ref) < offsetSize+8 {
		return nil, errors.New("vlen reference too short")
	}

	// Length field (4 bytes) is informational; the heap object itself is
	// authoritative for element size, so we skip past it to the GlobalHeapReference.
	heapRef, err := ParseGlobalHeapReference(ref[4:], offsetSize)
	if err != nil {
		return nil, fmt.Errorf("failed to parse global heap reference: %w", err)
	}

	if heapRef.HeapAddress == 0 {
		return nil, nil
	}

	collection, err := ReadGlobalHeapCollection(r, heapRef.HeapAddress, offsetSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read global heap collection at 0x%X: %w", heapRef.HeapAddress, err)
	}

	obj, err := collection.GetObject(heapRef.ObjectIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get object %d from heap collection: %w", heapRef.ObjectIndex, err)
	}

	return obj.Data, nil
}

// ReadDatasetVlenStrings reads a dataset of variable-length UTF-8 strings,
// trimming trailing NUL bytes from each element.
func ReadDatasetVlenStrings(r io.ReaderAt, header *ObjectHeader, sb *Superblock) ([]string, error) {
	raw, err := ReadDatasetVlenBytes(r, header, sb)
	if err != nil {
		return nil, err
	}

	result := make([]string, len(raw))
	for i, b := range raw {
		s := string(b)
		for len(s) > 0 && s[len(s)-1] == 0 {
			s = s[:len(s)-1]
		}
		result[i] = s
	}
	return result, nil
}

// IsVariableLength reports whether the datatype is the HDF5 variable-length
// class (string or sequence), as opposed to a fixed-size element.
func (dt *DatatypeMessage) IsVariableLength() bool {
	return dt.Class == DatatypeVarLen
}
