package slp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/slp/internal/h5"
)

func TestDecodeJSONAttributeFromString(t *testing.T) {
	av := h5.AttrValue{Kind: h5.AttrString, Str: `{"version": "1.0"}` + "\x00\x00"}

	m, err := decodeJSONAttribute(av)
	require.NoError(t, err)
	require.Equal(t, "1.0", m["version"])
}

func TestDecodeJSONAttributeFromBytes(t *testing.T) {
	av := h5.AttrValue{Kind: h5.AttrBytes, Bytes: []byte(`{"a": 1}`)}

	m, err := decodeJSONAttribute(av)
	require.NoError(t, err)
	require.InDelta(t, 1.0, m["a"], 1e-9)
}

func TestDecodeJSONAttributeEmptyIsEmptyObject(t *testing.T) {
	av := h5.AttrValue{Kind: h5.AttrString, Str: "\x00\x00\x00"}

	m, err := decodeJSONAttribute(av)
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestDecodeJSONAttributeUnparseable(t *testing.T) {
	av := h5.AttrValue{Kind: h5.AttrString, Str: "{not json"}
	_, err := decodeJSONAttribute(av)
	require.Error(t, err)
}

func TestDecodeJSONAttributeWrongKind(t *testing.T) {
	av := h5.AttrValue{Kind: h5.AttrFloat, Float: 1.5}
	_, err := decodeJSONAttribute(av)
	require.Error(t, err)
}

func TestDecodeJSONValueTrimsNulAndHandlesEmpty(t *testing.T) {
	v, err := decodeJSONValue("")
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = decodeJSONValue(`"hello"` + "\x00")
	require.NoError(t, err)
	require.Equal(t, "hello", v)
}
