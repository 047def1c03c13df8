package slp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/scigolib/slp/internal/h5"
)

// decodeJSONAttribute normalizes an HDF5 attribute value — which may arrive
// as a string, a byte buffer, or (in principle) an already-decoded value —
// into a JSON object. Trailing NUL bytes (common in fixed-length string
// attributes) are trimmed before parsing.
func decodeJSONAttribute(av h5.AttrValue) (map[string]interface{}, error) {
	raw, err := attrValueToBytes(av)
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimRight(raw, "\x00")
	if len(raw) == 0 {
		return map[string]interface{}{}, nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, newError(InvalidSlp, "attribute JSON unparseable", err)
	}
	return result, nil
}

// decodeJSONValue decodes one JSON string, such as one row of the
// tracks_json, videos_json, suggestions_json or sessions_json datasets, into
// a generic value of any shape. Trailing NUL bytes are trimmed first; an
// empty string yields (nil, nil).
func decodeJSONValue(raw string) (interface{}, error) {
	trimmed := bytes.TrimRight([]byte(raw), "\x00")
	if len(trimmed) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, newError(InvalidSlp, "row JSON unparseable", err)
	}
	return v, nil
}

func attrValueToBytes(av h5.AttrValue) ([]byte, error) {
	switch av.Kind {
	case h5.AttrString:
		return []byte(av.Str), nil
	case h5.AttrBytes:
		return av.Bytes, nil
	case h5.AttrStringList:
		if len(av.Strs) == 0 {
			return nil, nil
		}
		return []byte(av.Strs[0]), nil
	default:
		return nil, fmt.Errorf("attribute is not string/byte-shaped: kind %d", av.Kind)
	}
}
