package core

import (
	"fmt"
	"io"
)

// ReadValueAt reads the attribute value, resolving variable-length string
// payloads through the global heap when the reader backing the file is
// available. Fixed-size attributes fall back to ReadValue.
func (a *Attribute) ReadValueAt(r io.ReaderAt, sb *Superblock) (interface{}, error) {
	if a.Datatype == nil || a.Dataspace == nil {
		return nil, fmt.Errorf("attribute missing datatype or dataspace")
	}

	if !a.Datatype.IsVariableString() {
		return a.ReadValue()
	}

	if r == nil {
		return nil, fmt.Errorf("variable-length attribute requires file reader")
	}

	totalElements := a.Dataspace.TotalElements()
	if totalElements == 0 || len(a.Data) == 0 {
		return "", nil
	}

	offsetSize := int(sb.OffsetSize)
	refSize := offsetSize + 8

	isScalar := len(a.Dataspace.Dimensions) == 0 ||
		(len(a.Dataspace.Dimensions) == 1 && a.Dataspace.Dimensions[0] == 1)

	values := make([]string, totalElements)
	for i := uint64(0); i < totalElements; i++ {
		start := i * uint64(refSize)
		if start+uint64(refSize) > uint64(len(a.Data)) {
			return nil, fmt.Errorf("vlen attribute element %d truncated", i)
		}

		data, err := readVlenElement(r, a.Data[start:start+uint64(refSize)], sb)
		if err != nil {
			return nil, fmt.Errorf("vlen attribute element %d: %w", i, err)
		}

		s := string(data)
		for len(s) > 0 && s[len(s)-1] == 0 {
			s = s[:len(s)-1]
		}
		values[i] = s
	}

	if isScalar {
		return values[0], nil
	}
	return values, nil
}
