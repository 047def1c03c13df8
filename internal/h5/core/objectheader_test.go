package core

import (
	"bytes"
	"encoding/binary"
	"testing"

	mocktesting "github.com/scigolib/slp/internal/h5/testing"
	"github.com/stretchr/testify/require"
)

func TestReadObjectHeader(t *testing.T) {
	// Valid object header v2 with proper structure. parseV2Header reads an
	// 8-byte prefix (signature + version + flags + 2 reserved bytes), then a
	// 4-byte chunk size, then messages encoded as type(2 LE)+size(2 LE)+data.
	data := []byte{
		// Signature "OHDR" (4 bytes)
		'O', 'H', 'D', 'R',
		// Version (1 byte) + flags (1 byte)
		0x02, 0x02,
		// Reserved (2 bytes), padding the prefix to 8 bytes
		0x00, 0x00,
		// Chunk size (4 bytes LE) - 21 bytes of messages (12 + 9)
		0x15, 0x00, 0x00, 0x00,
		// Message 1: Dataspace. Type (2 LE) + Size (2 LE) = 4 byte header.
		0x01, 0x00, // Type: Dataspace
		0x08, 0x00, // Size: 8 bytes (little-endian)
		// Dataspace data (8 bytes)
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		// Message 2: Name. Type (2 LE) + Size (2 LE) = 4 byte header.
		0x0B, 0x00, // Type: Name (MsgName = 11)
		0x05, 0x00, // Size: 5 bytes (little-endian)
		// Name data: version(1) + "test"(4) = 5 bytes
		0x00, 't', 'e', 's', 't',
	}

	sb := &Superblock{
		Endianness: binary.LittleEndian,
	}

	header, err := ReadObjectHeader(bytes.NewReader(data), 0, sb)
	require.NoError(t, err)
	require.Equal(t, uint8(2), header.Version)
	require.Equal(t, "test", header.Name)
	require.Len(t, header.Messages, 2)
	require.Equal(t, MsgDataspace, header.Messages[0].Type)
	require.Equal(t, MsgName, header.Messages[1].Type)
}

func TestObjectHeaderBoundaryCheck(t *testing.T) {
	sb := &Superblock{
		Endianness: binary.LittleEndian,
	}

	// Create a small buffer (100 bytes)
	mockFile := mocktesting.NewMockReaderAt(make([]byte, 100))

	// Try to read object header near end of file (should fail with short read)
	_, err := ReadObjectHeader(mockFile, 95, sb)
	require.Error(t, err)
	// The actual error is "short read" when buffer is too small
	require.Contains(t, err.Error(), "read")
}
